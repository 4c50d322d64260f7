package main

import (
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session cookies",
		Long: `Sign in to the NOOK cloud and save the session to the cookie file.

Without --email/--password the credentials are prompted for, re-prompting
after a rejected login. In script mode both flags are required and a
rejected login exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().StringP("email", "e", "", "account email address")
	cmd.Flags().StringP("password", "p", "", "account password")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cc := mustCLIContext(ctx)

	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return err
	}

	password, err := cmd.Flags().GetString("password")
	if err != nil {
		return err
	}

	vs, err := openSession(ctx, cc)
	if err != nil {
		return err
	}
	defer vs.Close()

	// Explicit credentials always log in again, e.g. to switch accounts.
	if vs.session.Authenticated() && email == "" && password == "" {
		cc.Statusf("Already logged in (session in %s).\n", cc.Cfg.TokenPath)
		return nil
	}

	if err := loginWithPrompt(ctx, cc, vs, email, password); err != nil {
		return err
	}

	cc.Statusf("Login successful.\n")

	return nil
}
