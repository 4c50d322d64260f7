package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nookvault/nookvault/internal/bookops"
	"github.com/nookvault/nookvault/internal/nook"
)

var errIDRequired = errors.New("--id is required in script mode")

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a title and attach its rights manifest",
		Long: `Download the title with the given delivery id to "<id>.<format>".

Encrypted EPUBs get the license's rights manifest added as
META-INF/rights.xml. Without --id the library is listed and an id is
prompted for. Script mode prints the saved path.`,
		Args: cobra.NoArgs,
		RunE: runDownload,
	}

	cmd.Flags().Int64P("id", "i", 0, "delivery id of the title to download")
	cmd.Flags().StringP("output-dir", "o", "", "directory to save into (default: current directory)")

	return cmd
}

func runDownload(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cc := mustCLIContext(ctx)

	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	if id == 0 && !cc.Interactive() {
		return errIDRequired
	}

	vs, err := openSession(ctx, cc)
	if err != nil {
		return err
	}
	defer vs.Close()

	if err := ensureAuthenticated(ctx, cc, vs); err != nil {
		return err
	}

	if id == 0 {
		if id, err = promptDeliveryID(ctx, cc, vs); err != nil {
			return err
		}
	}

	d := bookops.NewDownloader(vs.client, vs.client, cc.Cfg.OutputDir, cc.Logger)

	cc.Statusf("Downloading %d...\n", id)

	res, err := d.DownloadBook(ctx, vs.session, id)
	if err != nil {
		var srvErr *nook.ServerError
		if errors.As(err, &srvErr) {
			return fmt.Errorf("download failed: %s", srvErr.Message)
		}

		return fmt.Errorf("download failed: %w", err)
	}

	cc.Logger.Debug("download complete",
		slog.Int64("delivery_id", id),
		slog.String("path", res.Path),
		slog.Int64("bytes", res.Size),
	)

	if cc.Flags.Script {
		fmt.Fprintln(cc.Stdout, res.Path)
		return nil
	}

	cc.Statusf("Saved %s (%s)\n", res.Path, formatSize(res.Size))

	if strings.EqualFold(res.Format, "epub") {
		if res.RightsInjected {
			cc.Statusf("Added rights.xml to encrypted EPUB\n")
		} else {
			cc.Statusf("EPUB is not encrypted\n")
		}
	}

	return nil
}

// promptDeliveryID lists the library and asks which title to download.
func promptDeliveryID(ctx context.Context, cc *CLIContext, vs *vendorSession) (int64, error) {
	cc.Statusf("Fetching library...\n")

	lib, err := vs.client.Library(ctx, vs.session)
	if err != nil {
		return 0, fmt.Errorf("fetching library: %w", err)
	}

	books := lib.Sorted()
	if len(books) == 0 {
		return 0, errors.New("your library is empty")
	}

	printLibraryTable(cc.Stderr, books)

	for {
		answer, err := cc.prompt("ID to download: ")
		if err != nil {
			return 0, err
		}

		id, err := strconv.ParseInt(answer, 10, 64)
		if err == nil {
			if _, ok := lib[id]; ok {
				return id, nil
			}
		}

		cc.Statusf("%q is not a delivery id in your library.\n", answer)
	}
}
