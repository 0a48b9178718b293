package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	instagram "github.com/jamesprial/go-instagram-api-wrapper"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/credstore"
	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
)

// Exit codes for igcli commands.
const (
	ExitCodeSuccess       = 0
	ExitCodeError         = 1
	ExitCodeNotConfigured = 2
	ExitCodeLoginFailed   = 3
)

// EnvPassphrase supplies the passphrase for --store file.
const EnvPassphrase = "IGCLI_PASSPHRASE"

// Credential backends accepted by --store.
const (
	storeKeyring = "keyring"
	storeFile    = "file"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	store      string
	tokenFile  string
	verbose    bool
}

// clientFactory builds the client a command runs against.
type clientFactory func(opts *options, stderr io.Writer) (*instagram.Client, error)

func newRootCmd(newClient clientFactory) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "igcli",
		Short: "Log in to Instagram and call its API from the terminal",
		Long: `igcli signs in to Instagram with the implicit grant flow and calls the
Instagram API with the stored access token.

The application identity is read from --config (YAML with client_id and
redirect_uri) and the INSTAGRAM_CLIENT_ID and INSTAGRAM_REDIRECT_URI
environment variables. The token is kept in the OS keyring, or in an
encrypted file with --store file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath(), "path to the YAML client configuration")
	flags.StringVar(&opts.store, "store", storeKeyring, "credential backend: keyring or file")
	flags.StringVar(&opts.tokenFile, "token-file", defaultTokenPath(), "token path used with --store file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	build := func(cmd *cobra.Command) (*instagram.Client, error) {
		return newClient(opts, cmd.ErrOrStderr())
	}

	root.AddCommand(
		newLoginCmd(build),
		newLogoutCmd(build),
		newStatusCmd(build),
		newMeCmd(build),
		newMediaCmd(build),
		newCallCmd(build),
	)
	return root
}

// buildClient is the production clientFactory.
func buildClient(opts *options, stderr io.Writer) (*instagram.Client, error) {
	cc, err := instagram.LoadClientConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	cfg := instagram.ConfigFrom(cc)
	if opts.verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	switch opts.store {
	case storeKeyring:
	case storeFile:
		store, err := credstore.NewFileStore(opts.tokenFile, []byte(os.Getenv(EnvPassphrase)))
		if err != nil {
			return nil, &pkgerrs.ConfigError{Field: "store", Message: fmt.Sprintf("%v (set %s)", err, EnvPassphrase)}
		}
		cfg.Store = store
	default:
		return nil, &pkgerrs.ConfigError{Field: "store", Message: fmt.Sprintf("unknown backend %q, want keyring or file", opts.store)}
	}

	return instagram.NewClient(cfg)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var argErr *argumentError
	if errors.As(err, &argErr) {
		return ExitCodeError
	}
	switch pkgerrs.KindOf(err) {
	case pkgerrs.KindMissingClientConfig:
		return ExitCodeNotConfigured
	case pkgerrs.KindCancelled:
		return ExitCodeLoginFailed
	}
	return ExitCodeError
}

// argumentError reports malformed command-line arguments.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "igcli", "config.yaml")
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "igcli-token"
	}
	return filepath.Join(dir, "igcli", "token")
}
