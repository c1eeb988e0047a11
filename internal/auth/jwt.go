// AngelaMos | 2026
// jwt.go

package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/angelamos/tecai-kids/internal/config"
	"github.com/angelamos/tecai-kids/internal/core"
	"github.com/angelamos/tecai-kids/internal/middleware"
)

const (
	refreshTokenBytes = 32
	keyIDLength       = 16

	claimRole         = "role"
	claimAgeLevel     = "age_level"
	claimTokenVersion = "token_version"
	claimType         = "token_use"
	typeAccess        = "access"
)

// JWTManager signs learner access tokens with one ES256 key and publishes
// the public half as a JWKS.
type JWTManager struct {
	signer jwk.Key
	verify jwk.Key
	jwks   jwk.Set
	cfg    config.JWTConfig
}

// NewJWTManager loads the signing key from disk. Outside production a
// missing key file is generated first.
func NewJWTManager(cfg config.JWTConfig, allowGenerate bool) (*JWTManager, error) {
	pem, err := os.ReadFile(cfg.PrivateKeyPath)
	if errors.Is(err, os.ErrNotExist) && allowGenerate {
		pem, err = writeSigningKey(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}

	return NewJWTManagerFromPEM(pem, cfg)
}

// NewJWTManagerFromPEM uses a PEM encoded P-256 private key. The key id is
// the key's RFC 7638 thumbprint so it stays stable across restarts.
func NewJWTManagerFromPEM(pem []byte, cfg config.JWTConfig) (*JWTManager, error) {
	signer, err := jwk.ParseKey(pem, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	thumb, err := signer.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("key thumbprint: %w", err)
	}
	kid := base64.RawURLEncoding.EncodeToString(thumb)[:keyIDLength]

	for k, v := range map[string]any{jwk.AlgorithmKey: jwa.ES256(), jwk.KeyIDKey: kid} {
		if err := signer.Set(k, v); err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}

	verify, err := signer.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := verify.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	jwks := jwk.NewSet()
	if err := jwks.AddKey(verify); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &JWTManager{signer: signer, verify: verify, jwks: jwks, cfg: cfg}, nil
}

// GenerateSigningKey returns a fresh P-256 private key as PEM.
func GenerateSigningKey() ([]byte, error) {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		return nil, fmt.Errorf("import key: %w", err)
	}

	return jwk.Pem(key)
}

func writeSigningKey(privatePath, publicPath string) ([]byte, error) {
	pem, err := GenerateSigningKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(privatePath, pem, 0o600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}

	if publicPath == "" {
		return pem, nil
	}

	key, err := jwk.ParseKey(pem, jwk.WithPEM(true))
	if err != nil {
		return nil, err
	}
	pub, err := key.PublicKey()
	if err != nil {
		return nil, err
	}
	pubPEM, err := jwk.Pem(pub)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // public key is meant to be readable
	if err := os.WriteFile(publicPath, pubPEM, 0o644); err != nil {
		return nil, fmt.Errorf("write public key: %w", err)
	}

	return pem, nil
}

// AccessTokenClaims are the learner fields signed into an access token.
type AccessTokenClaims struct {
	UserID       string
	Role         string
	AgeLevel     string
	TokenVersion int
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.cfg.AccessTokenExpire
}

func (m *JWTManager) KeyID() string {
	kid, _ := m.signer.KeyID()
	return kid
}

func (m *JWTManager) CreateAccessToken(c AccessTokenClaims) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.cfg.Issuer).
		Audience([]string{m.cfg.Audience}).
		Subject(c.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(m.cfg.AccessTokenExpire)).
		Claim(claimRole, c.Role).
		Claim(claimAgeLevel, c.AgeLevel).
		Claim(claimTokenVersion, c.TokenVersion).
		Claim(claimType, typeAccess).
		Build()
	if err != nil {
		return "", fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signer))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return string(signed), nil
}

// ParseAccessToken checks signature, issuer, audience and lifetime.
// Revocation is layered on by Service.VerifyAccessToken.
func (m *JWTManager) ParseAccessToken(raw string) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.ES256(), m.verify),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
	)
	if err != nil {
		if isExpired(err) {
			return nil, fmt.Errorf("parse access token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("parse access token: %w", core.ErrTokenInvalid)
	}

	var (
		typ, role, level string
		version          float64
	)
	for name, dst := range map[string]any{
		claimType:         &typ,
		claimRole:         &role,
		claimAgeLevel:     &level,
		claimTokenVersion: &version,
	} {
		if err := token.Get(name, dst); err != nil {
			return nil, fmt.Errorf("claim %s: %w", name, core.ErrTokenInvalid)
		}
	}
	if typ != typeAccess {
		return nil, fmt.Errorf("token type %q: %w", typ, core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("missing subject: %w", core.ErrTokenInvalid)
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		ID:           jti,
		UserID:       subject,
		Role:         role,
		AgeLevel:     level,
		TokenVersion: int(version),
		ExpiresAt:    exp,
	}, nil
}

func isExpired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

// JWKSHandler serves the verification key set.
func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.jwks); err != nil {
			core.InternalServerError(w, err)
		}
	}
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken mints an opaque token. An empty familyID starts a new
// rotation family.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.NewString()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: time.Now().Add(m.cfg.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
