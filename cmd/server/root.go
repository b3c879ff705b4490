package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/painel/internal/config"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/logging"
	"github.com/JonMunkholm/painel/internal/sheet"
)

// app carries the state shared by every subcommand.
type app struct {
	envFile string
	cfg     *config.Config

	// newSource builds the row source; tests replace it with a stub.
	newSource func(ctx context.Context, cfg *config.Config) (sheet.Source, error)
}

func newRootCmd() *cobra.Command {
	a := &app{newSource: buildSource}

	root := &cobra.Command{
		Use:   "painel",
		Short: "Participant dashboard API backed by a spreadsheet",
		Long: `painel reads the participant worksheet of the program and serves the
dashboard indicators and the certificate lookup as JSON.

Every request re-reads the worksheet; nothing is cached.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newWorksheetsCmd())
	root.AddCommand(a.newSummaryCmd())

	return root
}

// setup loads the dotenv file, the configuration and the logger.
func (a *app) setup() error {
	// Overload so the file wins over stale shell exports.
	envLoaded := godotenv.Overload(a.envFile) == nil

	cfg, err := config.Load()
	if err != nil {
		return &core.Error{Kind: core.KindConfig, Op: "load configuration", Err: err}
	}
	a.cfg = cfg

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "env_file", a.envFile, "env_file_loaded", envLoaded, "config", cfg.String())
	return nil
}

// service builds the core service over the configured source.
func (a *app) service(ctx context.Context) (*core.Service, error) {
	src, err := a.newSource(ctx, a.cfg)
	if err != nil {
		return nil, err
	}

	return core.NewService(src, core.Options{
		Target:        a.cfg.Project.Target,
		FetchTimeout:  a.cfg.Source.FetchTimeout,
		MaxConcurrent: a.cfg.Source.MaxConcurrent,
		MaxWait:       a.cfg.Source.MaxWait,
	}), nil
}

// buildSource opens the row source selected by SOURCE_KIND. Credential
// problems surface here, at startup, as CONFIG errors.
func buildSource(ctx context.Context, cfg *config.Config) (sheet.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceFile:
		var opts []sheet.FileOption
		if cfg.Source.Latin1() {
			opts = append(opts, sheet.WithLatin1())
		}
		return sheet.NewFileSource(cfg.Source.FilePath, cfg.Source.Worksheet, opts...), nil

	case config.SourceSheets:
		src, err := sheet.NewGoogleSourceFromCredentials(ctx,
			cfg.Source.CredentialsPath, cfg.Source.SpreadsheetID, cfg.Source.Worksheet)
		if err != nil {
			return nil, &core.Error{Kind: core.KindConfig, Op: "open google sheets client", Err: err}
		}
		return src, nil

	default:
		return nil, &core.Error{
			Kind: core.KindConfig,
			Op:   "build source",
			Err:  fmt.Errorf("unknown source kind %q", cfg.Source.Kind),
		}
	}
}
