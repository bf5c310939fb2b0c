package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/session"
)

const (
	// CtxSessionID is the Gin context key holding the opaque session id.
	CtxSessionID = "session_id"
	// CtxSession is the Gin context key holding the typed session.
	CtxSession = "session"
)

// Session ensures every request carries a signed session cookie and loads
// the associated state from the store. A session whose user_id is present
// but malformed is cleared outright, so a corrupted session cannot keep
// failing downstream lookups.
func Session(store session.Store, tokens *helpers.TokenManager, cookies *helpers.Manager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""
		if tok := cookies.SessionToken(c); tok != "" {
			if claims, err := tokens.ParseSessionToken(tok); err == nil {
				sid = claims.SessionID
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			if tokenStr, exp, err := tokens.GenerateSessionToken(sid); err == nil {
				cookies.SetSession(c, tokenStr, exp)
			} else if logger != nil {
				logger.WithError(err).Warn("session token generation failed")
			}
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Warn("session load failed")
			}
			sess = session.Session{}
		}
		if sess.UserID != "" {
			if _, err := primitive.ObjectIDFromHex(sess.UserID); err != nil {
				_ = store.Clear(c.Request.Context(), sid)
				sess = session.Session{}
			}
		}

		c.Set(CtxSessionID, sid)
		c.Set(CtxSession, sess)
		c.Next()
	}
}

// CurrentSession returns the session loaded by the Session middleware.
func CurrentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(CtxSession); ok {
		if s, ok := v.(session.Session); ok {
			return s
		}
	}
	return session.Session{}
}

// SessionID returns the opaque session id for the request.
func SessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}

// RequireUser redirects anonymous visitors to the login page with a warning.
func RequireUser(store session.Store, message string) gin.HandlerFunc {
	return requireRole(store, message, false)
}

// RequireFarmer redirects visitors who are not logged-in farmers.
func RequireFarmer(store session.Store, message string) gin.HandlerFunc {
	return requireRole(store, message, true)
}

func requireRole(store session.Store, message string, farmerOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		ok := sess.LoggedIn()
		if farmerOnly {
			ok = sess.IsFarmer()
		}
		if ok {
			c.Next()
			return
		}
		_ = store.AddFlash(c.Request.Context(), SessionID(c), session.Flash{
			Level:   session.LevelWarning,
			Message: message,
		})
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
