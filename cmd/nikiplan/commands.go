package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"nikiplan/internal/api"
	"nikiplan/internal/database"
	"nikiplan/internal/reminder"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the reminder scheduler.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-scheduler", Usage: "Do not run the in-process reminder scheduler."},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.Migrate(ctx, a.db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			if err := a.wire(true); err != nil {
				return err
			}

			go a.hub.Run(ctx)

			if !c.Bool("no-scheduler") {
				scheduler := reminder.NewScheduler(a.scanner, a.cfg.Reminder.Interval, a.log)
				go scheduler.Start(ctx)
			}

			router := api.SetupRouter(a.cfg, api.Services{
				DB:            a.db,
				Users:         a.users,
				Notifications: a.notifications,
				Events:        a.events,
				Scanner:       a.scanner,
				Hub:           a.hub,
			}, a.log)

			srv := &http.Server{
				Addr:    ":" + a.cfg.Port,
				Handler: router,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("HTTP server starting", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return fmt.Errorf("HTTP server failed: %w", err)
			}

			a.log.Info("Shutting down gracefully...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Error("HTTP server shutdown error", zap.Error(err))
			}
			a.log.Info("Shutdown complete")
			return nil
		},
	}
}

func remindCommand() *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Run one reminder scan and print the summary.",
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.wire(false); err != nil {
				return err
			}

			summary, err := a.scanner.Run(c.Context)
			fmt.Fprintln(c.App.Writer, summary.String())
			if err != nil {
				return fmt.Errorf("reminder scan failed: %w", err)
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema.",
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.Migrate(c.Context, a.db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			a.log.Info("Migrations applied")
			return nil
		},
	}
}
