package router

import (
	"context"
	"fmt"

	"pet-lost-found/internal/adapters/auth/jwtauth"
	"pet-lost-found/internal/adapters/auth/remote"
	"pet-lost-found/internal/config"
	"pet-lost-found/internal/ports/auth"
)

// NewAuthVerifier devuelve nil en modo dev: AuthContext cae al header X-Debug-User-ID.
func NewAuthVerifier(ctx context.Context, cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case config.AuthDev, "":
		return nil, nil
	case config.AuthJWT:
		v, err := jwtauth.New(ctx, jwtauth.Config{
			Secret:  cfg.JWTSecret,
			JWKSURL: cfg.JWKSURL,
			Issuer:  cfg.JWTIssuer,
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthRemote:
		v, err := remote.NewVerifier(remote.Config{
			VerifyURL: cfg.VerifyURL,
			APIKey:    cfg.APIKey,
			CacheSize: cfg.CacheSize,
			CacheTTL:  cfg.CacheTTL,
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
