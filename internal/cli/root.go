// Package cli wires configuration, storage and the model gateways into
// the folio command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwulff/folio/internal/app"
	"github.com/jwulff/folio/internal/config"
	"github.com/jwulff/folio/internal/db"
	"github.com/jwulff/folio/internal/gateway"
	"github.com/jwulff/folio/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
)

// newGenerator is swapped out by tests.
var newGenerator = gateway.NewGenerator

type rootOptions struct {
	configPath string
	dbPath     string
	verbose    bool
}

// env is what a command needs after flags are parsed.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "Folio - engineering portfolio auditor",
		Long: `Folio scores FIRST robotics engineering portfolios (FTC, FRC, FLL)
against the judging rubric, flags low-substance passages, and builds an
action plan. Run without a subcommand to open the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "history database path")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newRewriteCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "folio: "+err.Error())
		os.Exit(1)
	}
}

func (o *rootOptions) setup() (*env, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.File, o.verbose)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) openStore() (*db.Store, error) {
	store, err := db.Open(e.cfg.DBPath, db.Options{Logger: e.log, DateLayout: e.cfg.DateLayout})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func (e *env) generator(ctx context.Context) (gateway.Generator, error) {
	return newGenerator(ctx, e.cfg.Provider, e.cfg.APIKey)
}

func (e *env) close() {
	_ = e.log.Sync()
}

// callContext bounds a single gateway call by the configured timeout.
func (e *env) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, e.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	e, err := opts.setup()
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	deps := app.Deps{Store: store, Logger: e.log, Timeout: e.cfg.RequestTimeout}
	gen, err := e.generator(ctx)
	if err != nil {
		// History stays browsable without a provider.
		e.log.Warn("no model provider", zap.Error(err))
	} else {
		defer gen.Close()
		deps.Analyzer = gateway.NewAnalyzer(gen, e.cfg.AnalysisModel, e.log)
		deps.Rewriter = gateway.NewRewriter(gen, e.cfg.RewriteModel, e.log)
	}

	e.log.Info("starting tui", zap.String("provider", e.cfg.Provider), zap.String("db", e.cfg.DBPath))
	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// readInput returns the text named by args: a file path, "-" for stdin, or
// literal text when fromArgs is set.
func readInput(cmd *cobra.Command, args []string, fromArgs bool) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	if fromArgs {
		return strings.Join(args, " "), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(b), nil
}
