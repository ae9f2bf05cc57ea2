package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the session cookie set on every authenticated response.
	CookieName = "session"

	// TTL is the session lifetime; each valid request slides it forward.
	TTL = 24 * time.Hour
)

// Roles stored in the session payload.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Payload is the identity embedded in the session token. It is derived per
// request from the cookie and never persisted.
type Payload struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	TagID   string    `json:"tagId,omitempty"`
	Expires time.Time `json:"expires"`
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	TagID string `json:"tagId,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encrypt produces a signed, time-bound token for the payload.
func (c *Codec) Encrypt(p Payload) (string, error) {
	cl := &claims{
		Email: p.Email,
		Role:  p.Role,
		TagID: p.TagID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(p.Expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return token.SignedString(c.secret)
}

// Decrypt verifies the token and returns its payload. Any failure — bad
// signature, malformed token, expiry — yields nil; there is no session.
func (c *Codec) Decrypt(tokenString string) *Payload {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	cl, ok := token.Claims.(*claims)
	if !ok || cl.ExpiresAt == nil {
		return nil
	}

	return &Payload{
		ID:      cl.Subject,
		Email:   cl.Email,
		Role:    cl.Role,
		TagID:   cl.TagID,
		Expires: cl.ExpiresAt.Time,
	}
}

// Refresh re-issues a valid token with the expiry slid forward by TTL,
// keeping the identity fields untouched. Invalid tokens yield ("", nil).
func (c *Codec) Refresh(tokenString string) (string, *Payload) {
	p := c.Decrypt(tokenString)
	if p == nil {
		return "", nil
	}

	p.Expires = time.Now().Add(TTL)
	fresh, err := c.Encrypt(*p)
	if err != nil {
		return "", nil
	}
	return fresh, p
}

// SetCookie writes the session cookie with the attributes the payload expects:
// HTTP-only, whole-site path, Secure in production, expiry matching the payload.
func SetCookie(c *gin.Context, token string, expires time.Time, secure bool) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}
