package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/cricscore/internal/api"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr        string   // overrides api.addr
	CORSOrigins []string
	Timeout     time.Duration

	// ready, if set, receives the bound address once the listener is open.
	ready chan<- string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve match history over HTTP",
		Long: `Serve the read-only history API.

Routes:
  GET /health
  GET /api/users/{userID}/matches
  GET /api/users/{userID}/matches/{matchID}
  GET /api/users/{userID}/stats

Stops cleanly on SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&opts.CORSOrigins, "cors-origin", []string{"*"}, "allowed CORS origins")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg := opts.Config
	logger := opts.logger()

	addr := opts.Addr
	if addr == "" {
		addr = cfg.API.Addr
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	router := api.NewRouter(st, api.Options{
		Logger:      logger,
		CORSOrigins: opts.CORSOrigins,
		Timeout:     opts.Timeout,
		RateLimit:   cfg.API.RateLimit,
		Burst:       cfg.API.Burst,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("cannot listen on %s", addr), err)
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("history API listening", "addr", ln.Addr().String(), "driver", cfg.Store.Driver)
	if opts.ready != nil {
		opts.ready <- ln.Addr().String()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down history API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "history API failed", err)
	}
	return nil
}
