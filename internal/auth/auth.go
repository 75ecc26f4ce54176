// Package auth issues and verifies the session tokens used by the API and
// hashes account passwords.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator issues and validates bearer tokens.
// Supports modes: dev (opaque username tokens, no crypto) and hmac (HS256).
type Authenticator struct {
	Mode       string
	HMACSecret []byte
	TTL        time.Duration

	now func() time.Time
}

type Principal struct {
	Username string
}

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token expired")
)

func NewFromEnv() *Authenticator {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if mode == "" {
		mode = "dev"
	}
	return &Authenticator{
		Mode:       mode,
		HMACSecret: []byte(os.Getenv("AUTH_HMAC_SECRET")),
		TTL:        24 * time.Hour,
		now:        time.Now,
	}
}

const devPrefix = "dev."

// IssueToken mints a bearer token for the username.
func (a *Authenticator) IssueToken(username string) (string, error) {
	if username == "" {
		return "", errors.New("auth: empty username")
	}
	switch a.Mode {
	case "dev":
		return devPrefix + username, nil
	case "hmac":
		if len(a.HMACSecret) == 0 {
			return "", errors.New("auth: AUTH_HMAC_SECRET not set")
		}
		now := a.now()
		header := b64url([]byte(`{"alg":"HS256","typ":"JWT"}`))
		claims, err := json.Marshal(map[string]any{
			"sub": username,
			"iat": now.Unix(),
			"exp": now.Add(a.TTL).Unix(),
		})
		if err != nil {
			return "", err
		}
		signingInput := header + "." + b64url(claims)
		mac := hmac.New(sha256.New, a.HMACSecret)
		mac.Write([]byte(signingInput))
		return signingInput + "." + b64url(mac.Sum(nil)), nil
	default:
		return "", fmt.Errorf("auth: unsupported mode %q", a.Mode)
	}
}

// Verify validates a bearer token and returns its principal.
func (a *Authenticator) Verify(token string) (Principal, error) {
	switch a.Mode {
	case "dev":
		name := strings.TrimPrefix(token, devPrefix)
		if name == "" || name == token {
			return Principal{}, ErrInvalidToken
		}
		return Principal{Username: name}, nil
	case "hmac":
		segs := strings.Split(token, ".")
		if len(segs) != 3 {
			return Principal{}, ErrInvalidToken
		}
		sig, err := base64.RawURLEncoding.DecodeString(segs[2])
		if err != nil {
			return Principal{}, ErrInvalidToken
		}
		mac := hmac.New(sha256.New, a.HMACSecret)
		mac.Write([]byte(segs[0] + "." + segs[1]))
		if !hmac.Equal(mac.Sum(nil), sig) {
			return Principal{}, ErrInvalidToken
		}
		payload, err := base64.RawURLEncoding.DecodeString(segs[1])
		if err != nil {
			return Principal{}, ErrInvalidToken
		}
		var claims struct {
			Sub string `json:"sub"`
			Exp int64  `json:"exp"`
		}
		if err := json.Unmarshal(payload, &claims); err != nil {
			return Principal{}, ErrInvalidToken
		}
		if claims.Sub == "" {
			return Principal{}, ErrInvalidToken
		}
		if claims.Exp != 0 && a.now().Unix() > claims.Exp {
			return Principal{}, ErrExpiredToken
		}
		return Principal{Username: claims.Sub}, nil
	default:
		return Principal{}, fmt.Errorf("auth: unsupported mode %q", a.Mode)
	}
}

func b64url(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

// HashPassword returns a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
