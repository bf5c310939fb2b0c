// Package session holds the per-visitor state that the excluded cookie
// transport would otherwise smuggle around as an untyped dictionary: the
// logged-in user (if any) and the pending one-shot flash messages.
package session

import "context"

// Session is the typed view of a visitor's server-side state.
// A zero Session is a valid anonymous session.
type Session struct {
	UserID   string // hex form of the store identifier; empty when anonymous
	UserType string // "farmer" or "customer"
	Name     string
}

func (s Session) LoggedIn() bool { return s.UserID != "" }
func (s Session) IsFarmer() bool { return s.UserID != "" && s.UserType == "farmer" }

// Flash levels mirror the message categories the views understand.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)

type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Store persists sessions and flash messages keyed by an opaque session id.
type Store interface {
	// Get returns the session for sid; an unknown sid yields an anonymous session.
	Get(ctx context.Context, sid string) (Session, error)
	Set(ctx context.Context, sid string, s Session) error
	// Clear removes the session state and any pending flashes for sid.
	Clear(ctx context.Context, sid string) error

	AddFlash(ctx context.Context, sid string, f Flash) error
	// Flashes drains and returns the pending flash messages for sid.
	Flashes(ctx context.Context, sid string) ([]Flash, error)
}
