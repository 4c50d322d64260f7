package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nookvault/nookvault/internal/nook"
)

func newLibraryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "library",
		Short: "List purchased titles",
		Long: `List every title in the account's digital locker, sorted by title.

Script mode prints one "<delivery id>\t<title>" line per title.`,
		Args: cobra.NoArgs,
		RunE: runLibrary,
	}
}

func runLibrary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cc := mustCLIContext(ctx)

	vs, err := openSession(ctx, cc)
	if err != nil {
		return err
	}
	defer vs.Close()

	if err := ensureAuthenticated(ctx, cc, vs); err != nil {
		return err
	}

	cc.Statusf("Fetching library...\n")

	lib, err := vs.client.Library(ctx, vs.session)
	if err != nil {
		return fmt.Errorf("fetching library: %w", err)
	}

	books := lib.Sorted()

	if cc.Flags.Script {
		printLibraryScript(cc.Stdout, books)
		return nil
	}

	printLibraryTable(cc.Stdout, books)

	return nil
}

// printLibraryScript writes one tab-separated line per book.
func printLibraryScript(w io.Writer, books []nook.Book) {
	for _, b := range books {
		fmt.Fprintf(w, "%d\t%s\n", b.DeliveryID, b.Title)
	}
}

func printLibraryTable(w io.Writer, books []nook.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "Your library is empty.")
		return
	}

	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{strconv.FormatInt(b.DeliveryID, 10), b.Title})
	}

	printTable(w, []string{"ID", "TITLE"}, rows)
}
