// Package token issues and validates the signed session tokens carried in the
// auth cookie. A token is "partial" when the account has two-factor enabled
// and the second factor has not been presented yet; partial tokens only grant
// access to the second-step authentication endpoint.
package token

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arcadia-chat/arcadia/database/model"
	"github.com/arcadia-chat/arcadia/util/random"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the session cookie written on every successful auth step.
	CookieName = "arcadia_session"

	claimsKey = "AUTH_CLAIMS"

	// DefaultTTL bounds the lifetime of issued tokens.
	DefaultTTL = 24 * time.Hour
)

var (
	ErrInvalid = errors.New("invalid token")

	secret []byte
)

// Claims is the payload of a session token.
type Claims struct {
	UserId           int  `json:"uid"`
	TwoFactorEnabled bool `json:"tfa"`
	SecondFactorOK   bool `json:"tfaOk"`
	jwt.RegisteredClaims
}

// IsFull reports whether the token grants full access: accounts without
// two-factor are always full, otherwise the second factor must have passed.
func (c *Claims) IsFull() bool {
	return !c.TwoFactorEnabled || c.SecondFactorOK
}

// Init installs the signing secret. An empty secret generates an ephemeral
// one, invalidating all outstanding sessions on restart.
func Init(s string) {
	if s == "" {
		s = random.Seq(32)
	}
	secret = []byte(s)
}

// Issue signs a token for the user. secondFactorOK marks the second
// authentication step as passed; it is ignored for accounts without
// two-factor enabled.
func Issue(user *model.User, secondFactorOK bool) (string, error) {
	if len(secret) == 0 {
		return "", ErrInvalid
	}
	now := time.Now()
	claims := &Claims{
		UserId:           user.Id,
		TwoFactorEnabled: user.TwoFactorEnabled,
		SecondFactorOK:   secondFactorOK,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(DefaultTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates a raw token and returns its claims.
func Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalid
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// FromRequest extracts a token from the session cookie or a bearer header.
func FromRequest(c *gin.Context) (*Claims, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			raw = strings.TrimSpace(header[7:])
		}
	}
	return Parse(raw)
}

// SetCookie writes the session cookie on the response.
func SetCookie(c *gin.Context, raw string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, raw, int(DefaultTTL/time.Second), "/", "", false, true)
}

// ClearCookie expires the session cookie.
func ClearCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// SetClaims stores validated claims in the request-scoped gin context.
func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(claimsKey, claims)
}

// GetClaims returns the claims stored by the auth guard, or nil.
func GetClaims(c *gin.Context) *Claims {
	if obj, ok := c.Get(claimsKey); ok {
		if claims, ok := obj.(*Claims); ok {
			return claims
		}
	}
	return nil
}
