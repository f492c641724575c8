package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salusbr/admincore/pkg/errors"
)

// VerifierConfig configures token verification.
type VerifierConfig struct {
	Issuer      string        // expected iss; empty skips the check
	Audience    string        // expected aud; empty skips the check
	JWKSURL     string        // key-set endpoint of the backend
	CacheTTL    time.Duration // how long fetched keys stay valid
	AllowedAlgs []string      // defaults to RS256
}

// Verifier validates session tokens against the backend key set.
type Verifier struct {
	cfg  VerifierConfig
	jwks *jwksCache
}

// NewVerifier creates a Verifier. Keys are fetched lazily on first use.
func NewVerifier(cfg VerifierConfig) *Verifier {
	if len(cfg.AllowedAlgs) == 0 {
		cfg.AllowedAlgs = []string{"RS256"}
	}
	return &Verifier{
		cfg:  cfg,
		jwks: newJWKSCache(cfg.JWKSURL, cfg.CacheTTL),
	}
}

// Verify parses and validates the token and returns its claims.
func (v *Verifier) Verify(ctx context.Context, token string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(v.cfg.AllowedAlgs))
	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.jwks.key(ctx, kid)
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "token invalido")
	}

	if v.cfg.Issuer != "" && claims.Issuer != v.cfg.Issuer {
		return Claims{}, errors.New("emissor do token invalido")
	}
	if v.cfg.Audience != "" && !hasAudience(claims.Audience, v.cfg.Audience) {
		return Claims{}, errors.New("audiencia do token invalida")
	}
	return claims, nil
}

func hasAudience(auds jwt.ClaimStrings, want string) bool {
	for _, a := range auds {
		if a == want {
			return true
		}
	}
	return false
}

// jwksCache fetches and caches the backend's RSA public keys by kid.
type jwksCache struct {
	url   string
	ttl   time.Duration
	mu    sync.RWMutex
	keys  map[string]*rsa.PublicKey
	until time.Time
}

func newJWKSCache(url string, ttl time.Duration) *jwksCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &jwksCache{url: url, ttl: ttl, keys: map[string]*rsa.PublicKey{}}
}

func (j *jwksCache) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	j.mu.RLock()
	if k, ok := j.keys[kid]; ok && time.Now().Before(j.until) {
		j.mu.RUnlock()
		return k, nil
	}
	j.mu.RUnlock()
	return j.refresh(ctx, kid)
}

// setKey registers a key directly, bypassing the JWKS endpoint. Used by
// tests and by deployments with a pinned key.
func (j *jwksCache) setKey(kid string, key *rsa.PublicKey) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.keys[kid] = key
	j.until = time.Now().Add(100 * 365 * 24 * time.Hour)
}

// WithStaticKey pins a single RSA public key, disabling JWKS fetches for it.
func (v *Verifier) WithStaticKey(kid string, key *rsa.PublicKey) *Verifier {
	v.jwks.setKey(kid, key)
	return v
}

func (j *jwksCache) refresh(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if k, ok := j.keys[kid]; ok && time.Now().Before(j.until) {
		return k, nil
	}
	if j.url == "" {
		return nil, errors.New("endpoint de chaves nao configurado")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("busca de chaves retornou %d", resp.StatusCode)
	}

	var body struct {
		Keys []struct{ Kty, Kid, N, E string }
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	j.keys = map[string]*rsa.PublicKey{}
	for _, k := range body.Keys {
		if strings.ToUpper(k.Kty) != "RSA" {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err == nil {
			j.keys[k.Kid] = pub
		}
	}
	j.until = time.Now().Add(j.ttl)

	if k, ok := j.keys[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("chave %q nao encontrada", kid)
}

// parseRSAPublicKey converts base64url modulus and exponent into a key.
func parseRSAPublicKey(nB64, eB64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nB64)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eB64)
	if err != nil {
		return nil, err
	}
	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}
