package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/pkg/session"
)

// SessionKey is the context key the guard stores the resolved session under.
const SessionKey = "session"

// Guard runs ahead of every request. It first slides the session expiry
// forward, then gates the request by path prefix and role. The guard never
// mutates data; it either proceeds or redirects.
func Guard(codec *session.Codec, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user *session.Payload
		if cookie, err := c.Cookie(session.CookieName); err == nil {
			if fresh, p := codec.Refresh(cookie); p != nil {
				session.SetCookie(c, fresh, p.Expires, secureCookie)
				user = p
			}
		}
		if user != nil {
			c.Set(SessionKey, user)
		}

		path := c.Request.URL.Path

		switch {
		case strings.HasPrefix(path, "/auction"):
			if user == nil {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}

		case strings.HasPrefix(path, "/admin"):
			if path == "/admin/login" {
				break
			}
			if user == nil {
				c.Redirect(http.StatusFound, "/admin/login")
				c.Abort()
				return
			}
			if user.Role != session.RoleAdmin {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// CurrentUser returns the session payload resolved by the guard, or nil when
// the request carries no valid session.
func CurrentUser(c *gin.Context) *session.Payload {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	p, _ := v.(*session.Payload)
	return p
}
