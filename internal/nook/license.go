package nook

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// licenseFormat is the only format token the license service is asked for.
const licenseFormat = "epub"

// License is what the vendor hands out for one delivery: where to fetch the
// binary and the rights manifest decryption tools expect inside the EPUB.
// It is a value; copies never alias.
type License struct {
	DownloadURL    string
	InfoURL        string
	RightsManifest string // raw XML, exactly as received
}

type licenseResponse struct {
	Item *licenseItem `xml:"Products>item"`
}

type licenseItem struct {
	EBookURL   *textNode `xml:"eBookUrl"`
	InfoDocURL *textNode `xml:"infoDocUrl"`
	License    *struct {
		Text  string `xml:",chardata"`
		Inner string `xml:",innerxml"`
	} `xml:"license"`
	Error *struct {
		Details string `xml:"errorDetails,attr"`
	} `xml:"error"`
}

// License fetches the license for deliveryID. A non-empty errorDetails from
// the server is returned as *ServerError with the message verbatim.
func (c *Client) License(ctx context.Context, s *Session, deliveryID int64) (License, error) {
	const op = "license"

	if err := requireAuth(s); err != nil {
		return License{}, err
	}

	rawURL := strings.TrimSuffix(c.endpoints.License, "/") + "/" +
		strconv.FormatInt(deliveryID, 10) + "/" + licenseFormat

	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil, s)
	if err != nil {
		return License{}, err
	}

	var body licenseResponse
	if _, err := c.doXML(op, req, &body); err != nil {
		return License{}, err
	}

	item := body.Item
	if item == nil {
		return License{}, &ProtocolError{Op: op, Field: "Products/item"}
	}

	if item.Error != nil && item.Error.Details != "" {
		c.logger.Warn("license refused",
			slog.Int64("delivery_id", deliveryID),
			slog.String("details", item.Error.Details),
		)

		return License{}, &ServerError{Op: op, Message: item.Error.Details}
	}

	switch {
	case item.EBookURL == nil:
		return License{}, &ProtocolError{Op: op, Field: "Products/item/eBookUrl"}
	case item.InfoDocURL == nil:
		return License{}, &ProtocolError{Op: op, Field: "Products/item/infoDocUrl"}
	case item.License == nil:
		return License{}, &ProtocolError{Op: op, Field: "Products/item/license"}
	}

	// The manifest normally arrives escaped as text; some responses nest it
	// as elements instead, in which case the raw inner XML is the manifest.
	manifest := item.License.Text
	if strings.TrimSpace(manifest) == "" && strings.Contains(item.License.Inner, "<") {
		manifest = strings.TrimSpace(item.License.Inner)
	}

	return License{
		DownloadURL:    strings.TrimSpace(item.EBookURL.Text),
		InfoURL:        strings.TrimSpace(item.InfoDocURL.Text),
		RightsManifest: manifest,
	}, nil
}
