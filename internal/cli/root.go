// Package cli implements invctl, the command-line client that runs
// inventory imports, exports and searches directly against the store.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/store"
	"github.com/spf13/cobra"
)

// OpenFunc opens the store a command runs against.
type OpenFunc func(ctx context.Context, cfg config.DatabaseConfig) (core.Store, error)

// Options wires a root command to its environment.
type Options struct {
	Lookup config.LookupFunc
	Open   OpenFunc
}

// app is the state shared by subcommands once the root pre-run has
// loaded configuration and opened the store.
type app struct {
	opts    Options
	cfg     *config.Config
	store   core.Store
	service *core.Service
}

// NewRootCmd builds the invctl command tree. Zero Options use the process
// environment and store.Open.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.Open == nil {
		opts.Open = store.Open
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "invctl",
		Short:         "Search, import and export the inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	root.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newSearchCmd(a),
		newSchemaCmd(),
	)
	for _, cmd := range root.Commands() {
		a.closeAfter(cmd)
	}
	return root
}

// closeAfter makes cmd close the store once RunE returns. Cobra skips
// post-run hooks when RunE fails, so the close cannot live there.
func (a *app) closeAfter(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return run(cmd, args)
	}
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// open loads configuration and the store. Logs go to stderr so stdout
// carries only command output.
func (a *app) open(cmd *cobra.Command) error {
	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}

	cfg, err := config.LoadFrom(a.opts.Lookup)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))

	st, err := a.opts.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	a.cfg = cfg
	a.store = st
	a.service = core.NewService(st)
	return nil
}

// annotationNoStore marks commands that never touch the store.
const annotationNoStore = "invctl/no-store"

// Execute runs invctl with the process environment and exits non-zero on
// failure.
func Execute() {
	if err := NewRootCmd(Options{}).ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err for a shell user. Errors with a support code get
// the friendly message first; anything else, such as a usage error, is
// printed as is.
func reportError(w io.Writer, err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	fmt.Fprintln(w, "Error:", core.FormatUserError(err))
	fmt.Fprintln(w, "Details:", err)
}
