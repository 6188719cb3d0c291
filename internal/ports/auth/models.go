package auth

import "errors"

// ErrUnauthorized: el token no es válido (firma, expiración, rechazado por el IAM).
// Otros errores de Verify son fallos de infraestructura.
var ErrUnauthorized = errors.New("unauthorized")

// Claims es la identidad mínima que necesitan los handlers: quién es el caller.
type Claims struct {
	UserID string
	Email  string
	// Source: "dev", "jwt" o "remote"; sólo para logs.
	Source string
}
