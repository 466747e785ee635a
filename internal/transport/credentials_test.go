package transport

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestAPIKeyCredentials(t *testing.T) {
	creds := APIKey("s3cret")
	md, err := creds.GetRequestMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{APIKeyHeader: "s3cret"}, md)
	assert.False(t, creds.RequireTransportSecurity())
}

func TestTokenSignerRoundTrip(t *testing.T) {
	key := newKey(t)
	signer := NewTokenSigner(key, TokenConfig{Issuer: "agentctl", Subject: "ops@acme", OrgID: "acme", TTL: time.Minute})

	md, err := signer.GetRequestMetadata(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(md["authorization"], "Bearer "))

	claims, err := NewValidator(&key.PublicKey).VerifyToken(md["authorization"])
	require.NoError(t, err)
	assert.Equal(t, "agentctl", claims.Issuer)
	assert.Equal(t, "ops@acme", claims.Subject)
	assert.Equal(t, "acme", claims.OrgID)
}

func TestTokenSignerTransportSecurity(t *testing.T) {
	key := newKey(t)
	assert.True(t, NewTokenSigner(key, TokenConfig{}).RequireTransportSecurity())
	assert.False(t, NewTokenSigner(key, TokenConfig{AllowPlaintext: true}).RequireTransportSecurity())
}

func TestTokenSignerOmitsEmptyOrg(t *testing.T) {
	key := newKey(t)
	token, err := NewTokenSigner(key, TokenConfig{Subject: "ops"}).Token()
	require.NoError(t, err)

	claims, err := NewValidator(&key.PublicKey).VerifyToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.OrgID)
}

func TestTokenSignerReusesToken(t *testing.T) {
	signer := NewTokenSigner(newKey(t), TokenConfig{Issuer: "agentctl", Subject: "ops", TTL: time.Minute})
	now := time.Now()
	signer.now = func() time.Time { return now }

	first, err := signer.Token()
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	second, err := signer.Token()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Past half the TTL a new token is signed
	now = now.Add(15 * time.Second)
	third, err := signer.Token()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestValidatorRejects(t *testing.T) {
	key := newKey(t)
	validator := NewValidator(&key.PublicKey)

	forged, err := NewTokenSigner(newKey(t), TokenConfig{Issuer: "x", Subject: "y", TTL: time.Minute}).Token()
	require.NoError(t, err)
	_, err = validator.VerifyToken(forged)
	assert.Error(t, err)

	expired := NewTokenSigner(key, TokenConfig{Issuer: "x", Subject: "y", TTL: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := expired.Token()
	require.NoError(t, err)
	_, err = validator.VerifyToken(token)
	assert.Error(t, err)

	_, err = validator.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

func TestParseRSAPrivateKey(t *testing.T) {
	key := newKey(t)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	priv, err := ParseRSAPrivateKey(privPEM)
	require.NoError(t, err)
	assert.True(t, key.Equal(priv))

	_, err = ParseRSAPrivateKey(nil)
	assert.Error(t, err)
	_, err = ParseRSAPrivateKey([]byte("garbage"))
	assert.Error(t, err)
}
