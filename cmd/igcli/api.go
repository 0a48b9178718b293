package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/validation"
)

func newMeCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Print the authenticated user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := build(cmd)
			if err != nil {
				return err
			}

			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if err := validation.ValidateUser(user); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func newMediaCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "media ID [ID...]",
		Short: "Fetch media objects by id",
		Long: `Fetch one or more media objects in parallel and print a summary table.

Examples:
  igcli media 22699663_1574083
  igcli media 1_9 2_9 3_9`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := build(cmd)
			if err != nil {
				return err
			}

			media, err := client.MediaMultiple(cmd.Context(), args)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Type", "Owner", "Likes", "Comments", "Link"})
			for _, m := range media {
				t.AppendRow(table.Row{m.ID, m.Type, m.User.Username, m.Likes.Count, m.Comments.Count, m.Link})
				if err := validation.ValidateMedia(m); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", m.ID, err)
				}
			}
			t.Render()
			return nil
		},
	}
}

func newCallCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "call METHOD PATH [key=value...]",
		Short: "Call any API endpoint and print the envelope",
		Long: `Send a request to an API path relative to the base URL. The stored
access token is added automatically.

Examples:
  igcli call GET /users/self
  igcli call GET /tags/search q=snow
  igcli call POST /media/1234_5678/likes
  igcli call DELETE /media/1234_5678/likes`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := parseCallArgs(args)
			if err != nil {
				return err
			}

			client, err := build(cmd)
			if err != nil {
				return err
			}

			env, err := client.Do(cmd.Context(), desc, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env)
		},
	}
}

// parseCallArgs turns "METHOD PATH k=v..." into a request descriptor.
func parseCallArgs(args []string) (types.RequestDescriptor, error) {
	method := types.Method(strings.ToUpper(args[0]))
	if !method.Valid() {
		return types.RequestDescriptor{}, &argumentError{msg: fmt.Sprintf("unsupported method %q, want GET, POST or DELETE", args[0])}
	}

	params := types.NewParams()
	for _, kv := range args[2:] {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return types.RequestDescriptor{}, &argumentError{msg: fmt.Sprintf("parameter %q is not key=value", kv)}
		}
		params.Set(key, value)
	}

	return types.RequestDescriptor{Path: args[1], Method: method, Params: params}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
