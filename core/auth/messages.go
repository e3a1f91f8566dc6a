package auth

import (
	"errors"
	"strings"

	"github.com/techfixpro/appkit/core/apiclient"
)

// User-facing login messages. The product ships in Spanish.
const (
	msgLockedOut           = "Demasiados intentos fallidos. Intenta de nuevo en %d minutos."
	msgInvalidCredentials  = "Credenciales inválidas"
	msgBadIdentifier       = "Email o contraseña incorrectos"
	msgEmailNotConfirmed   = "Debes confirmar tu email antes de iniciar sesión"
	msgAccountBlocked      = "Tu cuenta ha sido bloqueada"
	msgTooManyRequests     = "Demasiados intentos, intenta más tarde"
	msgOffline             = "Sin conexión a internet"
	msgServerError         = "Error de conexión con el servidor"
	msgInvalidAuthResponse = "Respuesta de autenticación inválida"
)

// loginMessage maps a failed login error to the message shown to the user.
// Specific backend rejections get specific wording; everything else falls
// into credential, rate limit, connectivity or generic server buckets.
func loginMessage(err error) string {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return msgServerError
	}

	switch {
	case strings.Contains(apiErr.Message, "Invalid identifier or password"):
		return msgBadIdentifier
	case strings.Contains(apiErr.Message, "Your account email is not confirmed"):
		return msgEmailNotConfirmed
	case strings.Contains(apiErr.Message, "Your account has been blocked"):
		return msgAccountBlocked
	case apiErr.Status == 400 || apiErr.Status == 401:
		return msgInvalidCredentials
	case apiErr.Status == 429:
		return msgTooManyRequests
	case apiErr.IsNetworkError():
		return msgOffline
	default:
		return msgServerError
	}
}
