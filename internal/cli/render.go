package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdpreview/internal/clip"
	"github.com/mithrel/mdpreview/internal/config"
	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/internal/present"
	"github.com/mithrel/mdpreview/internal/preview"
	"github.com/mithrel/mdpreview/internal/wire"
)

func newRenderCmd() *cobra.Command {
	var output string
	var writePath string
	var indent bool
	var paste bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render Markdown to HTML",
		Long:  "Render a Markdown file, or stdin, to HTML. --output picks html, document, display (with copy buttons), json or terminal.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			mode, err := parseOutputMode(output)
			if err != nil {
				return err
			}
			var text string
			if paste {
				pasted, n := clip.Paste(cmd.Context(), clipboard)
				if !n.OK() {
					return fmt.Errorf("%s: %w", n.Message, n.Err)
				}
				text = pasted
			} else if text, _, err = readSource(cmd, args); err != nil {
				return err
			}
			res := preview.Convert(app.Engine, text, app.Options(), app.Log)
			if res.Error != "" {
				return errors.New(res.Error)
			}
			opts := presentOptions(app, mode, indent)

			if writePath != "" {
				var buf bytes.Buffer
				if err := present.Write(&buf, text, res, opts); err != nil {
					return err
				}
				return export.WriteFile(cmd.Context(), writePath, buf.String(), true)
			}
			write := func(w io.Writer) error { return present.Write(w, text, res, opts) }
			if mode == present.ModeTerminal {
				return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), write)
			}
			return write(cmd.OutOrStdout())
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().StringVar(&output, "output", "html", "output: html, document, display, json or terminal")
	cmd.Flags().StringVarP(&writePath, "write", "w", "", "write the output to a file instead of stdout")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&paste, "paste", false, "read the Markdown from the clipboard")
	cmd.Flags().String("style", "", "glamour style for terminal output")
	cmd.Flags().Int("width", 0, "wrap width for terminal output")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputModes)
	return cmd
}

func presentOptions(app *wire.App, mode present.Mode, indent bool) present.Options {
	return present.Options{
		Mode:          mode,
		JSONIndent:    indent,
		Export:        config.ExportOptions(app.Cfg),
		TerminalStyle: app.Cfg.GetString("terminal.style"),
		TerminalWidth: app.Cfg.GetInt("terminal.width"),
	}
}
