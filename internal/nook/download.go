package nook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// Download streams the binary at downloadURL (taken from a License) into w
// and returns the number of bytes written. The request identifies itself as
// coming from the vendor backend for the given delivery.
func (c *Client) Download(ctx context.Context, s *Session, deliveryID int64, downloadURL string, w io.Writer) (int64, error) {
	const op = "download"

	if err := requireAuth(s); err != nil {
		return 0, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, downloadURL, nil, s)
	if err != nil {
		return 0, err
	}

	req.Header.Set("BN-Environment", "Backend")
	req.Header.Set("BN-Item-ID", strconv.FormatInt(deliveryID, 10))

	resp, err := c.do(op, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, copyErr := io.Copy(w, resp.Body)
	if copyErr != nil {
		c.logger.Error("streaming download content failed",
			slog.Int64("delivery_id", deliveryID),
			slog.String("error", copyErr.Error()),
			slog.Int64("bytes_before_error", n),
		)

		return n, fmt.Errorf("nook: streaming download content: %w", copyErr)
	}

	c.logger.Debug("download complete",
		slog.Int64("delivery_id", deliveryID),
		slog.Int64("bytes_written", n),
	)

	return n, nil
}
