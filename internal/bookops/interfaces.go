package bookops

import (
	"context"
	"io"

	"github.com/nookvault/nookvault/internal/nook"
)

// LicenseResolver fetches the license for one delivery.
// Satisfied by *nook.Client.
type LicenseResolver interface {
	License(ctx context.Context, s *nook.Session, deliveryID int64) (nook.License, error)
}

// BookFetcher streams a licensed binary into w.
// Satisfied by *nook.Client.
type BookFetcher interface {
	Download(ctx context.Context, s *nook.Session, deliveryID int64, downloadURL string, w io.Writer) (int64, error)
}

// Compile-time interface satisfaction checks.
var (
	_ LicenseResolver = (*nook.Client)(nil)
	_ BookFetcher     = (*nook.Client)(nil)
)
