package techfix

import (
	"github.com/techfixpro/appkit/core/apiclient"
	"github.com/techfixpro/appkit/core/auth"
	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/core/router"
	"github.com/techfixpro/appkit/core/storage"
	"github.com/techfixpro/appkit/integration/database/redis"
)

type Config struct {
	Storage storage.Config
	API     apiclient.Config
	Auth    auth.Config
	Router  router.Config
	Logger  logger.Config
	Redis   redis.Config

	AppName    string `env:"APP_NAME" envDefault:"techfix-pro"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	RedisCache bool   `env:"CACHE_REDIS_ENABLED" envDefault:"false"`
}
