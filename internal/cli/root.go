// Package cli implements the reels command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/reels/internal/config"
	"github.com/mesh-intelligence/reels/internal/gateway"
	"github.com/mesh-intelligence/reels/internal/logging"
	"github.com/mesh-intelligence/reels/internal/paths"
	"github.com/mesh-intelligence/reels/internal/store"
	"github.com/mesh-intelligence/reels/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	driver    string
	logLevel  string
	logFormat string
}

// app carries the state one invocation shares between its commands.
type app struct {
	flags    rootFlags
	settings *config.Settings
	backend  *store.Backend
	catalog  *gateway.Catalog
}

// NewRootCmd creates the top-level "reels" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "reels",
		Short: "Catalog of holiday programs, the people behind them, and where to stream them",
		Long: "Reels manages a catalog of programs, actors, directors, producers and\n" +
			"streaming platforms over SQLite or MySQL, from the shell or as a JSON API.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $"+paths.EnvConfigDir+" or the user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "SQLite data directory (default: $"+paths.EnvDataDir+" or the user data dir)")
	pf.StringVar(&a.flags.driver, "driver", "", "store driver: sqlite or mysql")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newSeedCmd(a),
		newServeCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCountCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newProgramCmd(a),
		newPeopleCmd(a),
		newPlatformCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := a.execute(context.Background(), root); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps store failures to exitSysError; everything else is the
// caller's mistake.
func exitCode(err error) int {
	if errors.Is(err, types.ErrConnection) || errors.Is(err, types.ErrQuery) {
		return exitSysError
	}
	return exitUserError
}

// load resolves settings and configures logging. Commands open the store
// themselves so version and init stay usable without one.
func (a *app) load(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return err
	}
	s, err := config.Load(dir, cmd.Flags())
	if err != nil {
		return err
	}
	logging.Init(s.Logging())
	a.settings = s
	return nil
}

// open connects to the store, migrates it, and builds the catalog.
func (a *app) open(ctx context.Context) (*gateway.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	b, err := store.Open(ctx, a.settings.DB)
	if err != nil {
		return nil, err
	}
	if err := b.Migrate(ctx); err != nil {
		b.Close()
		return nil, err
	}
	a.backend = b
	a.catalog = gateway.NewCatalog(b)
	return a.catalog, nil
}

// execute runs root and closes the store whether or not the command failed.
func (a *app) execute(ctx context.Context, root *cobra.Command) (err error) {
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return root.ExecuteContext(ctx)
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend, a.catalog = nil, nil
	return err
}

// tableNames maps command arguments to catalog tables.
var tableNames = map[string]string{
	"programs":  types.TablePrograms,
	"actors":    types.TableActors,
	"directors": types.TableDirectors,
	"producers": types.TableProducers,
	"platforms": types.TablePlatforms,
}

const validTableNames = "programs, actors, directors, producers, platforms"

func (a *app) table(ctx context.Context, name string) (gateway.Gateway, error) {
	table, ok := tableNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", types.ErrTableNotFound, name, validTableNames)
	}
	c, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	return c.Table(table)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, raw)
	}
	return id, nil
}

// input is arg itself, or stdin when arg is "-".
func input(cmd *cobra.Command, arg string) io.Reader {
	if arg == "-" {
		return cmd.InOrStdin()
	}
	return strings.NewReader(arg)
}

// readRecord parses a JSON object from arg.
func readRecord(cmd *cobra.Command, arg string) (types.Record, error) {
	var raw map[string]any
	if err := readJSON(input(cmd, arg), &raw); err != nil {
		return nil, err
	}
	return types.RecordFromJSON(raw), nil
}

func readJSON(src io.Reader, v any) error {
	dec := json.NewDecoder(src)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON: %w", types.ErrInvalidData, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
