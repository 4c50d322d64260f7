package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// statusOutput is the JSON schema for `status --script`.
type statusOutput struct {
	TokenPath     string `json:"token_path"`
	Authenticated bool   `json:"authenticated"`
	SignedIn      bool   `json:"signed_in"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the saved session is signed in",
		Long: `Validate the saved session and ping the login endpoint.

"authenticated" is the result of the credit-card-hash probe run when the
session is loaded; "signed in" is the flag the login endpoint reports for
the same cookies.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cc := mustCLIContext(ctx)

	vs, err := openSession(ctx, cc)
	if err != nil {
		return err
	}
	defer vs.Close()

	signedIn, err := vs.client.SignedIn(ctx, vs.session)
	if err != nil {
		return fmt.Errorf("checking sign-in state: %w", err)
	}

	out := statusOutput{
		TokenPath:     cc.Cfg.TokenPath,
		Authenticated: vs.session.Authenticated(),
		SignedIn:      signedIn,
	}

	if cc.Flags.Script {
		enc := json.NewEncoder(cc.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	fmt.Fprintf(cc.Stdout, "Cookie file:    %s\n", out.TokenPath)
	fmt.Fprintf(cc.Stdout, "Authenticated:  %s\n", yesNo(out.Authenticated))
	fmt.Fprintf(cc.Stdout, "Signed in:      %s\n", yesNo(out.SignedIn))

	if !out.Authenticated {
		fmt.Fprintln(cc.Stdout, "Run 'nookvault login' to sign in.")
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
