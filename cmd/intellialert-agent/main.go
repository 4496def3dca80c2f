package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sgarg26/intelli-alert/internal/config"
	"github.com/sgarg26/intelli-alert/internal/domain/profile"
	"github.com/sgarg26/intelli-alert/internal/platform/auth"
	"github.com/sgarg26/intelli-alert/internal/platform/middleware"
	"github.com/sgarg26/intelli-alert/internal/platform/remote"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "intellialert-agent",
		Short: "IntelliAlert emergency profile agent",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(profileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the profile agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent()
		},
	}
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and push the stored profile",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored profile as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, err := openRepo()
			if err != nil {
				return err
			}
			p, err := repo.Load(context.Background())
			if err != nil {
				return fmt.Errorf("no profile stored yet: %w", err)
			}
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.AddCommand(showCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			_, repo, err := openRepo()
			if err != nil {
				return err
			}
			if err := repo.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("Stored profile deleted.")
			return nil
		},
	}
	clearCmd.Flags().Bool("yes", false, "Confirm deletion")
	cmd.AddCommand(clearCmd)

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Push the stored profile to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			cfg, repo, err := openRepo()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			client := remote.NewClient(cfg.SyncBaseURL, cfg.SyncTimeout, logger)
			svc := profile.NewService(profile.NewStore(), repo, client,
				func() string { return userID }, logger)

			res, err := svc.PushNow(context.Background())
			if err != nil {
				return err
			}
			if !res.Success() {
				return fmt.Errorf("push failed: %v", res.Err)
			}
			fmt.Printf("Pushed profile for %s (status %d, %s)\n", res.UserID, res.StatusCode, res.Duration)
			return nil
		},
	}
	pushCmd.Flags().String("user", "", "User ID to push as")
	cmd.AddCommand(pushCmd)

	return cmd
}

func openRepo() (*config.Config, *profile.FileRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	repo, err := profile.NewFileRepository(cfg.DataDir, newLogger(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, repo, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runAgent() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Local persistence and session state
	repo, err := profile.NewFileRepository(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open profile store")
	}

	session := auth.NewSession()
	verifier, err := auth.NewVerifier(auth.VerifierConfig{
		Mode:     cfg.AuthMode,
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
		DevKey:   []byte(cfg.AuthDevKey),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure token verification")
	}

	syncClient := remote.NewClient(cfg.SyncBaseURL, cfg.SyncTimeout, logger)
	svc := profile.NewService(profile.NewStore(), repo, syncClient, session.UserID, logger)

	if err := svc.Load(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to load profile")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(session, verifier))

	e.GET("/health", profile.Health)

	apiV1 := e.Group("/api/v1")
	profile.NewHandler(svc).RegisterRoutes(apiV1)
	auth.NewHandler(session, verifier).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting agent")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down agent")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("agent stopped")
	return nil
}
