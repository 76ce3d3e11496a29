package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdpreview/internal/config"
	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/internal/notify"
	"github.com/mithrel/mdpreview/internal/preview"
	"github.com/mithrel/mdpreview/internal/watch"
	"github.com/mithrel/mdpreview/internal/wire"
)

func newWatchCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-export a Markdown file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = config.ExportPath(app.Cfg)
			}
			debounce := time.Duration(app.Cfg.GetInt("watch.debounce_ms")) * time.Millisecond
			w, err := watch.New(debounce, app.Log)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Watch(args[0]); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go w.Run(ctx)

			if n := rebuild(ctx, app, args[0], out); n.OK() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, writing %s\n", args[0], out)
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case ch, ok := <-w.Events():
					if !ok {
						return nil
					}
					rebuild(ctx, app, ch.Path, out)
				}
			}
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "document to write (default export.dir/export.filename)")
	cmd.Flags().Int("debounce", 0, "quiet period in milliseconds before re-rendering")
	cmd.Flags().String("title", "", "document title (overrides export.title)")
	return cmd
}

// rebuild renders src into a document at out and reports the outcome.
func rebuild(ctx context.Context, app *wire.App, src, out string) notify.Notification {
	n := func() notify.Notification {
		data, err := os.ReadFile(src)
		if err != nil {
			return notify.Failure(err, "Could not read %s", src)
		}
		res := preview.Convert(app.Engine, string(data), app.Options(), app.Log)
		if res.Error != "" {
			return notify.Failure(errors.New(res.Error), "Could not render %s", src)
		}
		doc, err := export.Document(res.HTML, config.ExportOptions(app.Cfg))
		if err != nil {
			return notify.Failure(err, "Could not build document")
		}
		if err := export.WriteFile(ctx, out, doc, true); err != nil {
			return notify.Failure(err, "Could not save %s", out)
		}
		return notify.Success("Saved %s", out)
	}()
	app.Notifier.Notify(ctx, n)
	return n
}
