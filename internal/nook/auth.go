package nook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

const signedInPath = "stateData/data[@name='signedIn']"

// stateResponse is the sign-in service reply. Only the signedIn flag matters.
type stateResponse struct {
	Data []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:",chardata"`
	} `xml:"stateData>data"`
}

func (r *stateResponse) signedIn(op string) (bool, error) {
	for _, d := range r.Data {
		if d.Name != "signedIn" {
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(d.Value))
		if err != nil {
			return false, &ProtocolError{Op: op, Field: signedInPath, Err: err}
		}

		return n != 0, nil
	}

	return false, &ProtocolError{Op: op, Field: signedInPath}
}

// Authenticate signs in with email and password. On success the response
// cookies are merged into the session store, the store is saved and the
// session becomes authenticated. Rejected credentials return (false, nil) and
// leave both the session and the saved store untouched.
func (c *Client) Authenticate(ctx context.Context, s *Session, email, password string) (bool, error) {
	const op = "login"

	c.logger.Info("signing in", slog.String("path", s.path))

	form := url.Values{
		"emailAddress": {email},
		"UIAction":     {"signIn"},
		"acctPassword": {password},
		"stage":        {"signIn"},
	}

	req, err := c.newFormRequest(ctx, c.endpoints.Login, form, s)
	if err != nil {
		return false, err
	}

	var body stateResponse

	resp, err := c.doXML(op, req, &body)
	if err != nil {
		return false, err
	}

	ok, err := body.signedIn(op)
	if err != nil {
		return false, err
	}

	if !ok {
		c.logger.Info("sign-in rejected")
		return false, nil
	}

	s.store.SetCookies(resp.Request.URL, resp.Cookies())

	if err := s.save(); err != nil {
		return false, err
	}

	s.authenticated = true

	c.logger.Info("signed in", slog.Int("cookies", s.store.Len()))

	return true, nil
}

// SignedIn sends a bare sign-in ping with the session cookies and reports the
// server's signedIn flag. It does not change the session.
func (c *Client) SignedIn(ctx context.Context, s *Session) (bool, error) {
	const op = "sign-in ping"

	req, err := c.newFormRequest(ctx, c.endpoints.Login, url.Values{"stage": {"signIn"}}, s)
	if err != nil {
		return false, err
	}

	var body stateResponse
	if _, err := c.doXML(op, req, &body); err != nil {
		return false, err
	}

	return body.signedIn(op)
}

// Validate asks the server whether the session cookies are still accepted,
// using the credit-card-hash lookup as a side-effect-free probe. A "not
// authenticated" answer marks the session unauthenticated and returns
// (false, nil); any clean answer marks it authenticated. Other failures are
// returned and leave the flag as it was. The cookie store is never written.
func (c *Client) Validate(ctx context.Context, s *Session) (bool, error) {
	_, err := c.ccHash(ctx, s)

	switch {
	case err == nil:
		s.authenticated = true
	case errors.Is(err, ErrNotAuthenticated):
		c.logger.Debug("session probe rejected")
		s.authenticated = false
	default:
		return s.authenticated, fmt.Errorf("nook: session probe: %w", err)
	}

	return s.authenticated, nil
}
