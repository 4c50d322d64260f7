package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCCHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cchash",
		Short: "Print the account's credit card hash",
		Long: `Print the base64 credit card hash the vendor uses as the EPUB
decryption key, for use with external decryption tools.`,
		Args: cobra.NoArgs,
		RunE: runCCHash,
	}
}

func runCCHash(cmd *cobra.Command, _ []string) error {
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

	hash, err := vs.client.CCHash(ctx, vs.session)
	if err != nil {
		return fmt.Errorf("fetching credit card hash: %w", err)
	}

	fmt.Fprintln(cc.Stdout, hash)

	return nil
}
