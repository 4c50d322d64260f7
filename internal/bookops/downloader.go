package bookops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nookvault/nookvault/internal/epub"
	"github.com/nookvault/nookvault/internal/nook"
)

const (
	epubFormat    = "epub"
	partialSuffix = ".partial"
	dirPerms      = 0o700
)

// ErrNoFormat is returned when the license download URL has no file
// extension to name the saved file by.
var ErrNoFormat = errors.New("bookops: download URL has no file extension")

// Result reports what DownloadBook produced.
type Result struct {
	Path           string
	Format         string
	Size           int64
	RightsInjected bool // false for unencrypted EPUBs and other formats
}

// Downloader composes license resolution, binary download and rights
// injection. Files land in dir named {deliveryID}.{format}.
type Downloader struct {
	licenses LicenseResolver
	fetcher  BookFetcher
	dir      string
	logger   *slog.Logger
}

// NewDownloader creates a Downloader writing into dir ("" means the current
// directory).
func NewDownloader(licenses LicenseResolver, fetcher BookFetcher, dir string, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}

	if dir == "" {
		dir = "."
	}

	return &Downloader{
		licenses: licenses,
		fetcher:  fetcher,
		dir:      dir,
		logger:   logger,
	}
}

// DownloadBook fetches the license for deliveryID, saves the binary and, when
// it is an encrypted EPUB, adds META-INF/rights.xml. License failures
// (nook.ErrNotAuthenticated, *nook.ServerError, *nook.ProtocolError) are
// returned unchanged and no file is created.
func (d *Downloader) DownloadBook(ctx context.Context, s *nook.Session, deliveryID int64) (*Result, error) {
	lic, err := d.licenses.License(ctx, s, deliveryID)
	if err != nil {
		return nil, err
	}

	format, err := FormatFromURL(lic.DownloadURL)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(d.dir, strconv.FormatInt(deliveryID, 10)+"."+format)

	d.logger.Info("downloading book",
		slog.Int64("delivery_id", deliveryID),
		slog.String("format", format),
		slog.String("target", target),
	)

	size, err := d.save(ctx, s, deliveryID, lic.DownloadURL, target)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: target, Format: format, Size: size}

	if !strings.EqualFold(format, epubFormat) {
		return res, nil
	}

	injected, err := epub.InjectRights(target, []byte(lic.RightsManifest))
	if err != nil {
		return res, fmt.Errorf("bookops: adding rights to %s: %w", target, err)
	}

	res.RightsInjected = injected

	d.logger.Debug("rights injection",
		slog.Int64("delivery_id", deliveryID),
		slog.Bool("injected", injected),
	)

	return res, nil
}

// save streams the binary to target via a .partial file so a failed download
// never leaves a file at target.
func (d *Downloader) save(ctx context.Context, s *nook.Session, deliveryID int64, downloadURL, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), dirPerms); err != nil {
		return 0, fmt.Errorf("bookops: creating %s: %w", filepath.Dir(target), err)
	}

	partial := target + partialSuffix

	f, err := os.Create(partial)
	if err != nil {
		return 0, fmt.Errorf("bookops: creating partial file: %w", err)
	}

	n, dlErr := d.fetcher.Download(ctx, s, deliveryID, downloadURL, f)
	closeErr := f.Close()

	if dlErr == nil && closeErr != nil {
		dlErr = fmt.Errorf("bookops: closing partial file: %w", closeErr)
	}

	if dlErr != nil {
		if rmErr := os.Remove(partial); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			d.logger.Warn("failed to remove partial file",
				slog.String("path", partial),
				slog.String("error", rmErr.Error()),
			)
		}

		return 0, dlErr
	}

	if err := os.Rename(partial, target); err != nil {
		return 0, fmt.Errorf("bookops: renaming download to %s: %w", target, err)
	}

	return n, nil
}

// FormatFromURL returns the extension of the URL's path: the text after the
// last "." of the final path segment.
func FormatFromURL(rawURL string) (string, error) {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q", ErrNoFormat, rawURL)
	}

	return ext, nil
}
