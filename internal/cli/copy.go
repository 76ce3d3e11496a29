package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdpreview/internal/clip"
	"github.com/mithrel/mdpreview/internal/preview"
)

// clipboard is replaced in tests.
var clipboard clip.Clipboard = clip.System{}

func newCopyCmd() *cobra.Command {
	var display bool
	cmd := &cobra.Command{
		Use:   "copy [file]",
		Short: "Render Markdown and copy the HTML to the clipboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			text, _, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			res := preview.Convert(app.Engine, text, app.Options(), app.Log)
			if res.Error != "" {
				return errors.New(res.Error)
			}
			html := res.HTML
			if display {
				html = res.Display
			}
			n := clip.Copy(cmd.Context(), clipboard, html)
			app.Notifier.Notify(cmd.Context(), n)
			if !n.OK() {
				return fmt.Errorf("%s: %w", n.Message, n.Err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), n.Message)
			return nil
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().BoolVar(&display, "display", false, "copy the fragment with code-block copy buttons")
	return cmd
}
