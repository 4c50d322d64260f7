package nook

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"
)

// Device impersonation headers. The backend only answers clients that look
// like a reading device.
const (
	deviceReferer   = "bnereader.barnesandnoble.com"
	deviceUserAgent = "BN ClientAPI Java/1.0.0.0 (bravo;bravo;1.5.0;P001000021)"
)

const (
	contentTypeForm    = "application/x-www-form-urlencoded"
	contentTypeSyncML  = "application/vnd.syncml+xml"
	maxErrorBodyLength = 4096
)

// Endpoints holds the vendor service URLs. Tests and the config file can
// point them elsewhere; DefaultEndpoints returns the production set.
type Endpoints struct {
	Login   string
	CCHash  string
	Sync    string
	License string
}

// DefaultEndpoints returns the vendor's production service URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:   "https://cart2.barnesandnoble.com/services/service.asp?service=1",
		CCHash:  "https://cart4.barnesandnoble.com/services/service.aspx?service=1",
		Sync:    "http://sync.barnesandnoble.com/sync/001/Default.aspx",
		License: "https://edelivery.barnesandnoble.com/EDS/LicenseService.svc/GetLicense2",
	}
}

// Client issues vendor protocol requests. It holds no session state of its
// own: every authenticated call takes the *Session whose cookies it carries.
// There are no retries; a transport failure is returned to the caller as is.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a vendor client. Empty endpoint fields fall back to the
// production URLs.
func NewClient(endpoints Endpoints, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	defaults := DefaultEndpoints()
	if endpoints.Login == "" {
		endpoints.Login = defaults.Login
	}

	if endpoints.CCHash == "" {
		endpoints.CCHash = defaults.CCHash
	}

	if endpoints.Sync == "" {
		endpoints.Sync = defaults.Sync
	}

	if endpoints.License == "" {
		endpoints.License = defaults.License
	}

	return &Client{
		endpoints:  endpoints,
		httpClient: httpClient,
		logger:     logger,
	}
}

// newRequest builds a request carrying the device headers and, when s is
// non-nil, the session cookies that apply to rawURL.
func (c *Client) newRequest(
	ctx context.Context, method, rawURL string, body io.Reader, s *Session,
) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("nook: creating request: %w", err)
	}

	req.Header.Set("Referer", deviceReferer)
	req.Header.Set("User-Agent", deviceUserAgent)

	if s != nil {
		for _, ck := range s.store.Cookies(req.URL) {
			req.AddCookie(ck)
		}
	}

	return req, nil
}

// newFormRequest builds a URL-encoded POST.
func (c *Client) newFormRequest(ctx context.Context, rawURL string, form url.Values, s *Session) (*http.Request, error) {
	req, err := c.newRequest(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()), s)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentTypeForm)

	return req, nil
}

// do sends req and returns the response for 2xx statuses. Any other status is
// turned into an *HTTPError and the body is closed. The caller closes the body
// on success.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nook: %s: %w", op, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("request succeeded",
			slog.String("op", op),
			slog.String("method", req.Method),
			slog.Int("status", resp.StatusCode),
		)

		return resp, nil
	}

	errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
	resp.Body.Close()

	if readErr != nil {
		errBody = []byte("(failed to read response body)")
	}

	c.logger.Warn("request failed",
		slog.String("op", op),
		slog.String("method", req.Method),
		slog.Int("status", resp.StatusCode),
	)

	return nil, &HTTPError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(errBody)),
		Err:        classifyStatus(resp.StatusCode),
	}
}

// doXML sends req and decodes the XML body into v. The response is returned
// with its body already closed so callers can still read headers and cookies.
func (c *Client) doXML(op string, req *http.Request, v any) (*http.Response, error) {
	resp, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	dec := xml.NewDecoder(resp.Body)
	// Honors encoding="ISO-8859-1" and other declared charsets.
	dec.CharsetReader = charset.NewReaderLabel

	if err := dec.Decode(v); err != nil {
		return nil, &ProtocolError{Op: op, Err: fmt.Errorf("decoding XML: %w", err)}
	}

	return resp, nil
}

// textNode captures the character data of an element. A nil *textNode means
// the element was absent.
type textNode struct {
	Text string `xml:",chardata"`
}

// requireAuth guards every vendor call other than sign-in.
func requireAuth(s *Session) error {
	if s == nil || !s.Authenticated() {
		return ErrNotAuthenticated
	}

	return nil
}
