package nook

import (
	"context"
	"net/url"
	"strings"
)

// notAuthenticatedCode is the vendor error id for a missing or expired session.
const notAuthenticatedCode = "300_FEEngine"

type ccHashResponse struct {
	PayMethod *struct {
		CCHash *textNode `xml:"ccHash"`
	} `xml:"payMethod"`
	Errors []struct {
		ID   string `xml:"id,attr"`
		Text string `xml:",chardata"`
	} `xml:"errors>error"`
}

// CCHash returns the account's credit-card hash, the base64 key material EPUB
// decryption tools need. Requires an authenticated session.
func (c *Client) CCHash(ctx context.Context, s *Session) (string, error) {
	if err := requireAuth(s); err != nil {
		return "", err
	}

	return c.ccHash(ctx, s)
}

// ccHash performs the lookup without the local authentication check; Validate
// relies on the server's answer here, not on the cached flag.
func (c *Client) ccHash(ctx context.Context, s *Session) (string, error) {
	const op = "cchash"

	form := url.Values{
		"schema":    {"1"},
		"outformat": {"5"},
		"Version":   {"2"},
		"stage":     {"deviceCreditCardHash"},
	}

	req, err := c.newFormRequest(ctx, c.endpoints.CCHash, form, s)
	if err != nil {
		return "", err
	}

	var body ccHashResponse
	if _, err := c.doXML(op, req, &body); err != nil {
		return "", err
	}

	for _, e := range body.Errors {
		if e.ID == notAuthenticatedCode {
			return "", ErrNotAuthenticated
		}
	}

	if len(body.Errors) > 0 {
		e := body.Errors[0]

		msg := strings.TrimSpace(e.Text)
		if msg == "" {
			msg = e.ID
		}

		return "", &ServerError{Op: op, Code: e.ID, Message: msg}
	}

	if body.PayMethod == nil || body.PayMethod.CCHash == nil {
		return "", &ProtocolError{Op: op, Field: "payMethod/ccHash"}
	}

	return strings.TrimSpace(body.PayMethod.CCHash.Text), nil
}
