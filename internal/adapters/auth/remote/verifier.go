package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-lost-found/internal/platform/httpclient"
	"pet-lost-found/internal/ports/auth"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrNotConfigured = errors.New("remote verifier not configured")
	ErrUpstream      = errors.New("remote verifier upstream error")
)

// Config del IAM remoto. VerifyURL es la URL absoluta del endpoint de verificación.
type Config struct {
	VerifyURL string
	APIKey    string
	// APIKeyHeader vacío => "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	// Cache de tokens ya verificados. CacheSize <= 0 desactiva el cache.
	CacheSize int
	CacheTTL  time.Duration
}

// Verifier implementa auth.AuthVerifier contra un IAM por HTTP.
type Verifier struct {
	client    *httpclient.Client
	verifyURL string
	cache     *expirable.LRU[string, auth.Claims]
}

func NewVerifier(cfg Config) (*Verifier, error) {
	verifyURL := strings.TrimSpace(cfg.VerifyURL)
	if verifyURL == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}

	client, err := httpclient.New(httpclient.Options{
		Timeout: cfg.Timeout,
		Headers: map[string]string{header: strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, err
	}

	v := &Verifier{client: client, verifyURL: verifyURL}
	if cfg.CacheSize > 0 {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		v.cache = expirable.NewLRU[string, auth.Claims](cfg.CacheSize, nil, ttl)
	}
	return v, nil
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	key := cacheKey(token)
	if v.cache != nil {
		if c, ok := v.cache.Get(key); ok {
			return c, nil
		}
	}

	var out verifyResponse
	err := v.client.DoJSON(ctx, http.MethodPost, v.verifyURL,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrUnauthorized
		default:
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	uid := strings.TrimSpace(out.UserID)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}

	claims := auth.Claims{UserID: uid, Email: strings.TrimSpace(out.Email), Source: "remote"}
	if v.cache != nil {
		v.cache.Add(key, claims)
	}
	return claims, nil
}

// cacheKey evita guardar el token en claro en memoria.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
