package nook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nookvault/nookvault/internal/cookiefile"
)

// Session owns the vendor credentials: a cookie store persisted at path and
// the authenticated flag derived from the server's answers. It starts
// unauthenticated; only Client.Authenticate and Client.Validate move it.
type Session struct {
	store         *cookiefile.Jar
	path          string
	authenticated bool
}

// NewSession wraps an existing cookie store. A nil store starts empty. The
// session is unauthenticated until the server says otherwise.
func NewSession(store *cookiefile.Jar, path string) *Session {
	if store == nil {
		store = cookiefile.New()
	}

	return &Session{store: store, path: path}
}

// LoadSession reads the cookie file at path. When a file exists the session
// is validated against the server straight away, so Authenticated reflects
// what the vendor thinks rather than what was true last run.
func LoadSession(ctx context.Context, c *Client, path string) (*Session, error) {
	store, err := cookiefile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("nook: loading session: %w", err)
	}

	if store == nil {
		c.logger.Debug("no saved session", slog.String("path", path))
		return NewSession(nil, path), nil
	}

	s := NewSession(store, path)

	if _, err := c.Validate(ctx, s); err != nil {
		return nil, fmt.Errorf("nook: validating saved session: %w", err)
	}

	c.logger.Debug("saved session loaded",
		slog.String("path", path),
		slog.Int("cookies", store.Len()),
		slog.Bool("authenticated", s.authenticated),
	)

	return s, nil
}

// Authenticated reports the last known server verdict on this session.
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Path returns the cookie file location.
func (s *Session) Path() string {
	return s.path
}

// Cookies returns a snapshot of the stored cookies.
func (s *Session) Cookies() []cookiefile.Cookie {
	return s.store.All()
}

func (s *Session) save() error {
	if err := cookiefile.Save(s.path, s.store); err != nil {
		return fmt.Errorf("nook: saving session: %w", err)
	}

	return nil
}
