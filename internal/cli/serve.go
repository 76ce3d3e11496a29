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

	"github.com/spf13/cobra"

	"github.com/mithrel/mdpreview/internal/config"
	"github.com/mithrel/mdpreview/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Start the live preview server",
		Long:  "Serve an editor page that re-renders Markdown on every keystroke. A file argument seeds the editor.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			initial := ""
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				initial = string(data)
			}

			srv := server.New(server.Config{
				Options:     app.Options(),
				InitialText: initial,
				Export:      config.ExportOptions(app.Cfg),
				Filename:    app.Cfg.GetString("export.filename"),
			}, app.Engine, app.Log)

			ln, err := net.Listen("tcp", app.Cfg.GetString("http_addr"))
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Preview listening on http://%s\n", ln.Addr())
			return serveUntilDone(ctx, &http.Server{Handler: srv.Router(), ReadHeaderTimeout: 10 * time.Second}, ln)
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().String("listen", "", "listen address (overrides http_addr)")
	return cmd
}

// serveUntilDone serves on ln until ctx ends, then shuts down gracefully.
func serveUntilDone(ctx context.Context, hs *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
