package router

// Config holds router configuration.
type Config struct {
	MaxHistory   int    `env:"ROUTER_MAX_HISTORY" envDefault:"20"`
	LoginRoute   string `env:"ROUTER_LOGIN_ROUTE" envDefault:"login"`
	HomeRoute    string `env:"ROUTER_HOME_ROUTE" envDefault:"dashboard"`
	TitlePrefix  string `env:"ROUTER_TITLE_PREFIX" envDefault:"TechFix Pro"`
	DefaultTitle string `env:"ROUTER_DEFAULT_TITLE" envDefault:"Gestión de Servicio Técnico"`
}
