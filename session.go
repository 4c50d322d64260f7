package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nookvault/nookvault/internal/nook"
)

var (
	errNotLoggedIn         = errors.New("not logged in: run 'nookvault login' first")
	errLoginFailed         = errors.New("login failed: the server rejected the credentials")
	errCredentialsRequired = errors.New("email and password are required in script mode")
)

// vendorSession bundles the client, the loaded session and the lock that
// keeps other processes off the cookie file while this command runs.
type vendorSession struct {
	client  *nook.Client
	session *nook.Session
	release func()
}

func (vs *vendorSession) Close() {
	if vs.release != nil {
		vs.release()
	}
}

// openSession locks the cookie file and loads the saved session, validating
// it against the server.
func openSession(ctx context.Context, cc *CLIContext) (*vendorSession, error) {
	release, err := lockSession(cc.Cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	client := newNookClient(cc)

	s, err := nook.LoadSession(ctx, client, cc.Cfg.TokenPath)
	if err != nil {
		release()
		return nil, err
	}

	cc.Logger.Debug("session opened",
		slog.String("token_path", cc.Cfg.TokenPath),
		slog.Bool("authenticated", s.Authenticated()),
	)

	return &vendorSession{client: client, session: s, release: release}, nil
}

// ensureAuthenticated logs in with prompts when the session is not
// authenticated. Script mode never prompts.
func ensureAuthenticated(ctx context.Context, cc *CLIContext, vs *vendorSession) error {
	if vs.session.Authenticated() {
		return nil
	}

	if !cc.Interactive() {
		return errNotLoggedIn
	}

	cc.Statusf("Please log in to continue.\n")

	return loginWithPrompt(ctx, cc, vs, "", "")
}

// loginWithPrompt authenticates with the given credentials, prompting for any
// that are missing. Interactively a rejected login re-prompts until the
// server accepts; in script mode it is terminal.
func loginWithPrompt(ctx context.Context, cc *CLIContext, vs *vendorSession, email, password string) error {
	for {
		var err error

		if email == "" || password == "" {
			if !cc.Interactive() {
				return errCredentialsRequired
			}

			if email, password, err = promptCredentials(cc, email); err != nil {
				return err
			}
		}

		ok, err := vs.client.Authenticate(ctx, vs.session, email, password)
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		if ok {
			return nil
		}

		if !cc.Interactive() {
			return errLoginFailed
		}

		cc.Statusf("Login failed. Please try again.\n")

		email, password = "", ""
	}
}

func promptCredentials(cc *CLIContext, email string) (string, string, error) {
	var err error

	if email == "" {
		if email, err = cc.prompt("Email: "); err != nil {
			return "", "", err
		}
	}

	password, err := cc.promptPassword("Password: ")
	if err != nil {
		return "", "", err
	}

	return email, password, nil
}
