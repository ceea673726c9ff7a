// Package cli implements the stockroom command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/paths"
	"github.com/mesh-intelligence/stockroom/pkg/stockroom"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the settings loaded for one run.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	settings settings
}

// NewRootCmd creates the top-level "stockroom" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "stockroom",
		Short:   "A single-user product inventory",
		Long:    "Stockroom tracks products, their stock and supplier contact in a local SQLite store.",
		Version: stockroom.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newSellCmd(a))
	root.AddCommand(newReceiveCmd(a))
	root.AddCommand(newTypeCmd(a))
	root.AddCommand(newResetCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "stockroom:", err)
	}
	os.Exit(exitCode(err))
}

// load reads an optional .env file and then config.yaml from the resolved
// config directory.
func (a *app) load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return sysError(fmt.Errorf("load .env: %w", err))
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	s, err := loadSettings(configDir)
	if err != nil {
		return sysError(err)
	}
	a.settings = s
	return nil
}

// resolveDataDir applies flag > config.yaml > env > default precedence.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.settings.DataDir)
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// userError reports a problem with the command line itself.
func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// sysError reports a failure of the environment or the store.
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps an error to the process exit code. Request errors from the
// provider are user errors; storage failures are system errors. Anything
// else, including cobra's argument errors, is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if types.IsUserError(err) {
		return exitUserError
	}
	if errors.Is(err, types.ErrStorageWriteFailed) || errors.Is(err, types.ErrStorageNotInitialized) {
		return exitSysError
	}
	return exitUserError
}
