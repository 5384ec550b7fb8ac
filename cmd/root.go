package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/enigma/internal/config"
	"github.com/abhisek/enigma/internal/game"
	"github.com/abhisek/enigma/internal/llm"
	"github.com/abhisek/enigma/internal/logging"
	"github.com/abhisek/enigma/internal/puzzlegen"
	"github.com/abhisek/enigma/internal/store"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "enigma",
	Short: "LLM-generated technical puzzles in the terminal",
	Long: "Enigma generates technical puzzles for Frontend, Backend, Database and AI Engineering\n" +
		"with an LLM, stores them, and grades answers against the criteria the model produced.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.DefaultPath()
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("db"); v != "" {
			c.Database.DSN = v
		}
		if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
			c.Database.Driver = v
		}
		cfg = c

		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("config loaded",
			zap.String("path", path),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("llm_provider", cfg.LLM.Provider))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/enigma/config.yaml, or ENIGMA_CONFIG)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file path (overrides config and ENIGMA_DB)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: sqlite or postgres")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(puzzleCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(restructureCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens the configured database. An empty SQLite DSN resolves to
// ENIGMA_DB or the XDG data dir.
func openStore(ctx context.Context) (*store.Store, error) {
	dbCfg := cfg.Database
	if dbCfg.Driver == "" || dbCfg.Driver == store.DriverSQLite {
		switch {
		case dbCfg.DSN == "":
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			dbCfg.DSN = p
		case !strings.HasPrefix(dbCfg.DSN, "file:") && dbCfg.DSN != ":memory:":
			if err := store.EnsureDir(dbCfg.DSN); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}
	st, err := store.Open(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newService builds the game service. Generation and hints are wired when an
// LLM provider is configured; otherwise the service still grades answers.
func newService(ctx context.Context, st *store.Store) *game.Service {
	opts := game.Options{
		Config: game.Config{
			HintThreshold:        cfg.Game.HintThreshold,
			BatchConcurrency:     cfg.Game.BatchConcurrency,
			MaxPriorDescriptions: cfg.Game.MaxPriorDescriptions,
		},
		Log: logger,
	}

	provider, err := newProvider(ctx, st)
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		logger.Info("LLM provider disabled, generation and hints unavailable")
	case err != nil:
		logger.Warn("LLM provider not configured, generation and hints unavailable", zap.Error(err))
	default:
		genCfg := puzzlegen.DefaultConfig()
		genCfg.MaxPriorDescriptions = cfg.Game.MaxPriorDescriptions
		genCfg.MaxAttempts = cfg.Game.GenerationAttempts
		opts.Generator = puzzlegen.New(provider, genCfg, logger)
		opts.Hints = puzzlegen.NewHintGenerator(provider, logger)
	}
	return game.NewService(st, opts)
}

func newProvider(ctx context.Context, st *store.Store) (llm.Provider, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	return llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
}

// withService opens the store and service for the duration of fn.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *game.Service) error) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(ctx, newService(ctx, st))
}

// withStore opens the store for the duration of fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) error) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}
