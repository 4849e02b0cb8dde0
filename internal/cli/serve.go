package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-leadsite/internal/site"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr         string
	serveTemplatesDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the marketing site and lead endpoints.

When CONTENT_DIR is set the site copy is reloaded whenever site.yaml changes.
--templates-dir renders pages from disk without caching, for template work.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg, cmd.OutOrStdout())

		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv, err := site.New(cfg,
			site.WithLogger(log),
			site.WithMailer(newMailer(cfg, log)),
			site.WithTemplatesDir(serveTemplatesDir),
			site.WithVersion(appVersion),
		)
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, srv, ln, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().StringVar(&serveTemplatesDir, "templates-dir", "", "render page templates from this directory")
	rootCmd.AddCommand(serveCmd)
}

// runServer serves until ctx is done, then drains in-flight requests.
func runServer(ctx context.Context, srv *site.Server, ln net.Listener, log logrus.FieldLogger) error {
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":   ln.Addr().String(),
			"mailer": srv.Mailer().Mode(),
		}).Info("http server listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return srv.Content().Watch(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
