package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdpreview/internal/config"
	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/internal/preview"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Save rendered Markdown as a standalone HTML document",
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
			doc, err := export.Document(res.HTML, config.ExportOptions(app.Cfg))
			if err != nil {
				return err
			}

			path := config.ExportPath(app.Cfg)
			n := export.Save(cmd.Context(), filepath.Dir(path), filepath.Base(path), doc, app.Cfg.GetBool("export.overwrite"))
			app.Notifier.Notify(cmd.Context(), n)
			if !n.OK() {
				return fmt.Errorf("%s: %w", n.Message, n.Err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), n.Message)
			return nil
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().String("dir", "", "directory to write into (overrides export.dir)")
	cmd.Flags().String("name", "", "file name (overrides export.filename)")
	cmd.Flags().String("title", "", "document title (overrides export.title)")
	cmd.Flags().Bool("overwrite", true, "replace an existing file")
	return cmd
}
