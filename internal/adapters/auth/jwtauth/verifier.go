package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-lost-found/internal/ports/auth"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("jwt verifier needs a secret or a JWKS url")

// Config: Secret (HS256) o JWKSURL (RS256/ES256 con rotación de claves).
// Si vienen ambos gana JWKS.
type Config struct {
	Secret  string
	JWKSURL string
	Issuer  string
	Leeway  time.Duration
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verifier valida tokens localmente e implementa auth.AuthVerifier.
type Verifier struct {
	keyfunc jwt.Keyfunc
	opts    []jwt.ParserOption
}

// New arma el verifier. Con JWKS, ctx controla el refresco en background de las claves.
func New(ctx context.Context, cfg Config) (*Verifier, error) {
	v := &Verifier{}

	switch {
	case strings.TrimSpace(cfg.JWKSURL) != "":
		k, err := keyfunc.NewDefaultCtx(ctx, []string{strings.TrimSpace(cfg.JWKSURL)})
		if err != nil {
			return nil, fmt.Errorf("jwks: %w", err)
		}
		v.keyfunc = k.Keyfunc
		v.opts = append(v.opts, jwt.WithValidMethods([]string{"RS256", "ES256"}))
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		v.keyfunc = func(*jwt.Token) (any, error) { return secret, nil }
		v.opts = append(v.opts, jwt.WithValidMethods([]string{"HS256"}))
	default:
		return nil, ErrNotConfigured
	}

	v.opts = append(v.opts, jwt.WithExpirationRequired(), jwt.WithLeeway(cfg.Leeway))
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		v.opts = append(v.opts, jwt.WithIssuer(iss))
	}
	return v, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, v.keyfunc, v.opts...)
	if err != nil || !parsed.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrUnauthorized)
	}

	return auth.Claims{
		UserID: strings.TrimSpace(sub),
		Email:  strings.TrimSpace(claims.Email),
		Source: "jwt",
	}, nil
}
