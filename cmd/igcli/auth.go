package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	instagram "github.com/jamesprial/go-instagram-api-wrapper"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

type buildFunc func(cmd *cobra.Command) (*instagram.Client, error)

func newLoginCmd(build buildFunc) *cobra.Command {
	var scopes []string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Long: `Open the Instagram authorization page in the browser and wait for the
redirect carrying the access token. The token replaces any stored token.

Examples:
  igcli login                            # basic scope
  igcli login --scope likes --scope comments`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := build(cmd)
			if err != nil {
				return err
			}

			requested := make([]types.Scope, len(scopes))
			for i, s := range scopes {
				requested[i] = types.Scope(s)
			}

			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
			s.Suffix = " Waiting for authorization in the browser..."
			s.Start()
			err = client.Login(cmd.Context(), requested...)
			s.Stop()
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), text.FgGreen.Sprint("Logged in."))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "scope to request (repeatable): basic, public_content, follower_list, comments, relationships, likes")
	return cmd
}

func newLogoutCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := build(cmd)
			if err != nil {
				return err
			}
			if !client.Logout() {
				return fmt.Errorf("the stored token could not be deleted")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newStatusCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the client configuration and whether a token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := build(cmd)
			if err != nil {
				return err
			}

			cc := client.ClientConfig()
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendRow(table.Row{"Client ID", valueOrUnset(cc.ClientID)})
			t.AppendRow(table.Row{"Redirect URI", valueOrUnset(cc.RedirectURI)})
			t.AppendRow(table.Row{"Configured", yesNo(cc.IsConfigured())})
			t.AppendRow(table.Row{"Authenticated", yesNo(client.IsAuthenticated())})
			t.Render()
			return nil
		},
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return text.FgYellow.Sprint("(not set)")
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return text.FgGreen.Sprint("yes")
	}
	return text.FgRed.Sprint("no")
}
