package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ScarletRegal/ui-deckbuilder/assets"
	"github.com/ScarletRegal/ui-deckbuilder/internal/catalog"
	"github.com/ScarletRegal/ui-deckbuilder/internal/config"
	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
	"github.com/ScarletRegal/ui-deckbuilder/internal/grader"
	"github.com/ScarletRegal/ui-deckbuilder/internal/httpserver"
	"github.com/ScarletRegal/ui-deckbuilder/internal/ledger"
	"github.com/ScarletRegal/ui-deckbuilder/internal/session"
	"github.com/ScarletRegal/ui-deckbuilder/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "deckd",
	Short: "Design deck game server",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/websocket server (default)",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check [catalog-dir]",
	Short: "Validate the content catalogs and exit",
	Long:  `Load the embedded catalogs, or the ones in catalog-dir, and report every dangling reference.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		cat, err := loadCatalog(dir)
		if err != nil {
			return err
		}
		if err := cat.Check(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d cards, %d palettes, %d encounters\n",
			len(cat.Cards()), len(cat.Palettes()), len(cat.Encounters()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalogs")
	}
	if err := cat.Check(); err != nil {
		log.Warn().Err(err).Msg("catalog has dangling references")
	}

	db, err := ledger.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open ledger db")
	}
	defer db.Close()
	if err := ledger.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate ledger db")
	}
	led := ledger.NewStore(db)

	rules := game.DefaultRules()
	rules.HandSize = cfg.Rules.HandSize
	rules.StartingFocus = cfg.Rules.StartingFocus

	client := grader.New(grader.Config{
		BaseURL:      cfg.Grader.URL,
		Model:        cfg.Grader.Model,
		APIKey:       cfg.Grader.APIKey,
		MaxAttempts:  cfg.Grader.MaxAttempts,
		InitialDelay: cfg.Grader.InitialDelay,
		Timeout:      cfg.Grader.Timeout,
	}, log.With().Str("component", "grader").Logger())
	if cfg.Grader.APIKey == "" {
		log.Warn().Msg("GRADER_API_KEY not set; every graded encounter will fail")
	}

	sessions := session.NewManager(session.Config{
		Catalog:   cat,
		Store:     store.NewMemoryStore(),
		Grader:    grader.WithTutorialPass(client, cat.Tutorial().Feedback),
		Ledger:    led,
		Rules:     rules,
		DailySalt: cfg.DailySalt,
		Logger:    log.With().Str("component", "session").Logger(),
	})
	defer sessions.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, sessions, cfg.SessionTTL)

	srv := httpserver.New(httpserver.Deps{
		Sessions:     sessions,
		Catalog:      cat,
		Ledger:       led,
		JWTSecret:    cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL,
		ClientOrigin: cfg.ClientOrigin,
	})
	log.Info().Str("port", cfg.Port).Msg("starting deck server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(dir)
}

// sweep drops idle sessions until ctx is done.
func sweep(ctx context.Context, m *session.Manager, ttl time.Duration) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := m.Sweep(ctx, ttl); err != nil {
				log.Warn().Err(err).Msg("session sweep")
			} else if n > 0 {
				log.Info().Int("dropped", n).Msg("idle sessions swept")
			}
		}
	}
}
