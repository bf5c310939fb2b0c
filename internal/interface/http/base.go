package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/response"
	"github.com/farmstand/marketplace/pkg/session"
)

// base carries what every handler needs to speak the flash-and-redirect
// protocol: the session store for one-shot messages and a logger for the
// detail that never reaches the user.
type base struct {
	Sessions session.Store
	Logger   *logrus.Logger
}

// redirect attaches a one-shot flash message and sends the browser on.
func (b base) redirect(c *gin.Context, target, level, msg string) {
	if err := b.Sessions.AddFlash(c.Request.Context(), middleware.SessionID(c), session.Flash{Level: level, Message: msg}); err != nil && b.Logger != nil {
		b.Logger.WithError(err).Warn("flash store failed")
	}
	status := http.StatusFound
	if c.Request.Method != http.MethodGet {
		status = http.StatusSeeOther
	}
	c.Redirect(status, target)
}

// view renders a GET view payload with pending flashes drained into meta.
func (b base) view(c *gin.Context, data any, message string) {
	flashes, err := b.Sessions.Flashes(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		if b.Logger != nil {
			b.Logger.WithError(err).Warn("flash drain failed")
		}
		flashes = nil
	}
	var meta any
	if len(flashes) > 0 {
		meta = gin.H{"flashes": flashes}
	}
	response.Success(c, http.StatusOK, data, message, meta)
}

// fail logs the full error server-side and degrades to a redirect with a
// generic message; nothing internal leaks to the user.
func (b base) fail(c *gin.Context, err error, target, msg string) {
	helpers.LogError(b.Logger, msg, err, logrus.Fields{"path": c.FullPath()})
	b.redirect(c, target, session.LevelError, msg)
}
