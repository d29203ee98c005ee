package middleware

import (
	"net/http"
	"time"

	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"
	"go-storefront/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionIDKey = "session_id"

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session makes sure every request carries a storefront session. A missing,
// expired or tampered cookie starts a new session; a guest never gets a 401
// here.
func Session(tokens *session.Tokens, cfg SessionConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("middleware.session")

	return func(c *gin.Context) {
		// 1. existing cookie
		if raw, err := c.Cookie(cfg.CookieName); err == nil && raw != "" {
			if sid, err := tokens.Parse(raw); err == nil {
				c.Set(sessionIDKey, sid)
				c.Next()
				return
			}
		}

		// 2. new session
		sid := session.NewID()
		signed, err := tokens.Issue(sid)
		if err != nil {
			log.Error("issue session token failed", zap.Error(err))
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, signed, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// SessionID is the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// RequireIdentified rejects sessions that have not identified a user yet.
func RequireIdentified(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := store.Get(c.Request.Context(), SessionID(c))
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}
		if !st.Auth.Identified() {
			e := session.ErrIdentificationRequired
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}
		c.Set("user_id", st.Auth.User.ID)
		c.Next()
	}
}
