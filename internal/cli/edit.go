package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/mithrel/mdpreview/internal/editor"
	"github.com/mithrel/mdpreview/internal/present"
	"github.com/mithrel/mdpreview/internal/preview"
)

func newEditCmd() *cobra.Command {
	var output string
	var save bool
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Write Markdown in $EDITOR, then render it",
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
			name, text := "draft", ""
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				text = string(data)
			}

			edited, changed, err := editor.Edit(name, text)
			if err != nil {
				return err
			}
			if save && len(args) == 1 && changed {
				if err := atomic.WriteFile(args[0], strings.NewReader(edited)); err != nil {
					return fmt.Errorf("save %s: %w", args[0], err)
				}
				app.Log.Info("saved edits", "path", args[0])
			}

			res := preview.Convert(app.Engine, edited, app.Options(), app.Log)
			if res.Error != "" {
				return errors.New(res.Error)
			}
			return present.Write(cmd.OutOrStdout(), edited, res, presentOptions(app, mode, false))
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().StringVar(&output, "output", "html", "output: html, document, display, json or terminal")
	cmd.Flags().BoolVar(&save, "save", false, "write the edited Markdown back to the file")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutputModes)
	return cmd
}
