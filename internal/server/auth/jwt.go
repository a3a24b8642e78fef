package auth

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/logging"
	"github.com/dmitrijs2005/loadout/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates the claim shapes this issuer produces.
type TokenKind int

const (
	KindInvalid TokenKind = iota
	// KindSession carries {id, role}.
	KindSession
	// KindAccess carries {sub}.
	KindAccess
	// KindRefresh carries {sub, use: "refresh"}.
	KindRefresh
)

func (k TokenKind) String() string {
	switch k {
	case KindSession:
		return "session"
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	default:
		return "invalid"
	}
}

const refreshUse = "refresh"

// SessionClaims is the {id, role} shape.
type SessionClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SubjectClaims is the {sub} shape; Use is only set on refresh tokens.
type SubjectClaims struct {
	Use string `json:"use,omitempty"`
	jwt.RegisteredClaims
}

// parsedClaims accepts either shape so Verify can tell them apart.
type parsedClaims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	Use    string `json:"use,omitempty"`
	jwt.RegisteredClaims
}

// Payload is a verified token.
type Payload struct {
	Kind      TokenKind
	UserID    string
	Role      models.Role
	ExpiresAt time.Time
}

// Lifetimes are the validity windows per token kind.
type Lifetimes struct {
	Session time.Duration
	Access  time.Duration
	Refresh time.Duration
}

// KeyConfig selects the signing material. With both PEM blocks present the
// issuer signs with PrivateKeyPEM under Algorithm and verifies with
// PublicKeyPEM; otherwise it falls back to HS256 over Secret.
type KeyConfig struct {
	Algorithm     string
	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
	Secret        []byte
}

// TokenIssuer signs and verifies tokens. It is stateless and safe for
// concurrent use.
type TokenIssuer struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	lifetimes Lifetimes
	fallback  bool
	now       func() time.Time
}

// NewTokenIssuer builds an issuer from keys. Falling back to the shared
// secret is logged as a warning.
func NewTokenIssuer(ctx context.Context, keys KeyConfig, lifetimes Lifetimes, logger logging.Logger) (*TokenIssuer, error) {
	i := &TokenIssuer{lifetimes: lifetimes, now: time.Now}

	if len(keys.PrivateKeyPEM) == 0 || len(keys.PublicKeyPEM) == 0 {
		if len(keys.Secret) == 0 {
			return nil, errors.New("jwt: no key pair and no fallback secret configured")
		}
		logger.Warn(ctx, "jwt key pair not configured, signing with shared HS256 secret; do not run like this in production")
		i.method = jwt.SigningMethodHS256
		i.signKey = keys.Secret
		i.verifyKey = keys.Secret
		i.fallback = true
		return i, nil
	}

	method := jwt.GetSigningMethod(keys.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("jwt: unsupported algorithm %q", keys.Algorithm)
	}

	sign, verify, err := parseKeyPair(keys.Algorithm, keys.PrivateKeyPEM, keys.PublicKeyPEM)
	if err != nil {
		return nil, err
	}

	i.method = method
	i.signKey = sign
	i.verifyKey = verify
	return i, nil
}

func parseKeyPair(alg string, privPEM, pubPEM []byte) (crypto.PrivateKey, crypto.PublicKey, error) {
	var (
		priv crypto.PrivateKey
		pub  crypto.PublicKey
		err  error
	)

	switch {
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		if priv, err = jwt.ParseRSAPrivateKeyFromPEM(privPEM); err == nil {
			pub, err = jwt.ParseRSAPublicKeyFromPEM(pubPEM)
		}
	case strings.HasPrefix(alg, "ES"):
		if priv, err = jwt.ParseECPrivateKeyFromPEM(privPEM); err == nil {
			pub, err = jwt.ParseECPublicKeyFromPEM(pubPEM)
		}
	case alg == "EdDSA":
		if priv, err = jwt.ParseEdPrivateKeyFromPEM(privPEM); err == nil {
			pub, err = jwt.ParseEdPublicKeyFromPEM(pubPEM)
		}
	default:
		return nil, nil, fmt.Errorf("jwt: %q is not an asymmetric algorithm", alg)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("jwt: parse %s keys: %w", alg, err)
	}
	return priv, pub, nil
}

// UsesFallbackSecret reports whether the HS256 development secret is in use.
func (i *TokenIssuer) UsesFallbackSecret() bool { return i.fallback }

// Algorithm returns the JWS alg in use.
func (i *TokenIssuer) Algorithm() string { return i.method.Alg() }

// Lifetimes returns the configured validity windows.
func (i *TokenIssuer) Lifetimes() Lifetimes { return i.lifetimes }

func (i *TokenIssuer) registered(subject string, issued time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
}

func (i *TokenIssuer) sign(claims jwt.Claims) (string, error) {
	s, err := jwt.NewWithClaims(i.method, claims).SignedString(i.signKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// IssueSession signs {id, role} with the session lifetime.
func (i *TokenIssuer) IssueSession(userID string, role models.Role) (string, error) {
	claims := SessionClaims{
		UserID:           userID,
		Role:             string(role),
		RegisteredClaims: i.registered("", i.now(), i.lifetimes.Session),
	}
	return i.sign(claims)
}

// IssueAccess signs {sub} with the access lifetime and returns its expiry.
func (i *TokenIssuer) IssueAccess(userID string) (string, time.Time, error) {
	issued := i.now()
	claims := SubjectClaims{RegisteredClaims: i.registered(userID, issued, i.lifetimes.Access)}
	token, err := i.sign(claims)
	return token, issued.Add(i.lifetimes.Access), err
}

// IssueRefresh signs {sub, use: refresh} with the refresh lifetime and
// returns its expiry, which the caller persists alongside the token.
func (i *TokenIssuer) IssueRefresh(userID string) (string, time.Time, error) {
	issued := i.now()
	claims := SubjectClaims{Use: refreshUse, RegisteredClaims: i.registered(userID, issued, i.lifetimes.Refresh)}
	token, err := i.sign(claims)
	return token, issued.Add(i.lifetimes.Refresh), err
}

// Verify checks signature, algorithm and expiry, then reports which shape
// the token has. Expired tokens yield common.ErrTokenExpired; anything else
// wrong yields common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (*Payload, error) {
	claims := &parsedClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.verifyKey, nil },
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	p := &Payload{ExpiresAt: claims.ExpiresAt.Time}
	switch {
	case claims.UserID != "":
		p.Kind, p.UserID, p.Role = KindSession, claims.UserID, models.Role(claims.Role)
	case claims.Subject != "" && claims.Use == refreshUse:
		p.Kind, p.UserID = KindRefresh, claims.Subject
	case claims.Subject != "" && claims.Use == "":
		p.Kind, p.UserID = KindAccess, claims.Subject
	default:
		return nil, common.ErrInvalidToken
	}
	return p, nil
}
