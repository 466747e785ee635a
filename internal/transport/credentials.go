package transport

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/credentials"
)

// APIKeyHeader is the metadata key the control plane checks when it runs
// with an API key.
const APIKeyHeader = "x-api-key"

type apiKeyCredentials struct {
	key string
}

// APIKey attaches x-api-key to every call. It is also sent over plaintext
// channels.
func APIKey(key string) credentials.PerRPCCredentials {
	return apiKeyCredentials{key: key}
}

func (c apiKeyCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{APIKeyHeader: c.key}, nil
}

func (apiKeyCredentials) RequireTransportSecurity() bool { return false }

// Claims identify the caller of the control plane.
type Claims struct {
	OrgID string `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig describes the tokens a TokenSigner issues.
type TokenConfig struct {
	Issuer  string
	Subject string
	OrgID   string
	TTL     time.Duration
	// AllowPlaintext lets tokens go out on channels without transport security.
	AllowPlaintext bool
}

// TokenSigner issues short-lived RS256 bearer tokens and attaches them as
// "authorization: Bearer <jwt>". A token is reused until half its TTL is spent.
type TokenSigner struct {
	key *rsa.PrivateKey
	cfg TokenConfig
	now func() time.Time

	mu      sync.Mutex
	token   string
	renewAt time.Time
}

func NewTokenSigner(key *rsa.PrivateKey, cfg TokenConfig) *TokenSigner {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &TokenSigner{
		key: key,
		cfg: cfg,
		now: time.Now,
	}
}

// Token returns a valid signed token, signing a new one when needed.
func (s *TokenSigner) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Before(s.renewAt) {
		return s.token, nil
	}

	claims := Claims{
		OrgID: s.cfg.OrgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   s.cfg.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.token = signed
	s.renewAt = now.Add(s.cfg.TTL / 2)
	return signed, nil
}

func (s *TokenSigner) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	token, err := s.Token()
	if err != nil {
		return nil, err
	}
	return map[string]string{"authorization": "Bearer " + token}, nil
}

// RequireTransportSecurity makes grpc refuse to dial a plaintext channel with
// this signer unless AllowPlaintext is set.
func (s *TokenSigner) RequireTransportSecurity() bool { return !s.cfg.AllowPlaintext }

// Validator checks RS256 tokens issued by a TokenSigner.
type Validator struct {
	publicKey *rsa.PublicKey
}

func NewValidator(pubKey *rsa.PublicKey) *Validator {
	return &Validator{publicKey: pubKey}
}

// VerifyToken accepts the raw token or the full "Bearer <jwt>" header value.
func (v *Validator) VerifyToken(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	tokenStr = strings.TrimSpace(tokenStr)

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

// ParseRSAPrivateKey decodes a PEM private key.
func ParseRSAPrivateKey(data []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("private key data is empty")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}
