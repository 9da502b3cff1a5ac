package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ras0q/lazycerulean/internal/auth"
	"github.com/ras0q/lazycerulean/internal/config"
	"github.com/ras0q/lazycerulean/internal/logging"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"github.com/ras0q/lazycerulean/internal/tui"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

func main() {
	if err := runProgram(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func runProgram() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logFile, err := logging.Open(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token, guest, err := loadToken(ctx, cfg, logger)
	if err != nil {
		return err
	}

	client, err := matrix.NewClient(ctx, matrix.Options{
		Homeserver:  cfg.Homeserver,
		Token:       token,
		Guest:       guest,
		HTTPTimeout: cfg.HTTPTimeout,
		SyncTimeout: cfg.SyncTimeout,
		CacheDir:    cfg.CacheDir,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create matrix client: %w", err)
	}
	defer client.Close()

	viewer := ""
	if !guest {
		viewer, err = client.Whoami(ctx)
		if err != nil {
			return fmt.Errorf("resolve logged-in user: %w", err)
		}
	}

	userID := cfg.UserID
	if userID == "" {
		userID = viewer
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	// NOTE: decrease padding
	h = h - 2

	model := tui.NewAppModel(w, h, tui.Params{
		Homeserver:    client.Homeserver().Host,
		Viewer:        viewer,
		UserID:        userID,
		WithReplies:   cfg.WithReplies,
		PermalinkBase: cfg.PermalinkBase,
		PageSize:      cfg.PageSize,
		Client:        client,
		Logger:        logger,
		Debug:         cfg.Debugging(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	eg, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

		eg.Go(func() error {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}

			return nil
		})

		eg.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	eg.Go(func() error {
		defer cancel()

		if _, err := p.Run(); err != nil {
			return err
		}

		return nil
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	return nil
}

// loadToken returns the stored access token, or registers a guest account
// when nobody has logged in to the homeserver yet.
func loadToken(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *oauth2.Token, guest bool, _ error) {
	token, store, err := auth.GetToken(cfg.Homeserver)
	if err == nil {
		logger.Debug("loaded access token", "store", store)
		return token, false, nil
	}

	if !errors.Is(err, auth.ErrTokenNotFound) {
		return nil, false, fmt.Errorf("get access token: %w", err)
	}

	if cfg.UserID == "" {
		return nil, false, errors.New("no timeline to show: set CERULEAN_USER_ID or log in with ceruleanlogin")
	}

	token, guestID, err := matrix.RegisterGuest(ctx, cfg.Homeserver)
	if err != nil {
		return nil, false, fmt.Errorf("register guest: %w", err)
	}

	logger.Info("no access token stored, browsing as guest", "homeserver", cfg.Homeserver, "guest_id", guestID)

	return token, true, nil
}
