// Package export wraps a rendered fragment in a standalone HTML document
// and saves it to disk.
package export

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/mithrel/mdpreview/internal/notify"
)

// DefaultFilename is the name offered for downloads and used by the CLI.
const DefaultFilename = "markdown_output.html"

// ErrExists is returned when the target exists and overwriting is off.
var ErrExists = errors.New("file already exists")

//go:embed document.html.tmpl
var documentSource string

var documentTmpl = template.Must(template.New("document").Parse(documentSource))

type Options struct {
	Title string
	Lang  string
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Title) == "" {
		o.Title = "Markdown Output"
	}
	if strings.TrimSpace(o.Lang) == "" {
		o.Lang = "en"
	}
	return o
}

// Document returns a complete HTML page with fragment as its body. The
// fragment is trusted: it is renderer output, already escaped.
func Document(fragment string, opts Options) (string, error) {
	opts = opts.withDefaults()
	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, struct {
		Title string
		Lang  string
		Body  template.HTML
	}{opts.Title, opts.Lang, template.HTML(fragment)})
	if err != nil {
		return "", fmt.Errorf("execute document template: %w", err)
	}
	return buf.String(), nil
}

// WriteFile atomically writes doc to path. Missing parent directories are
// created.
func WriteFile(ctx context.Context, path, doc string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(doc)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Save writes doc into dir/name and reports the outcome as a notification.
// An empty name uses DefaultFilename.
func Save(ctx context.Context, dir, name, doc string, overwrite bool) notify.Notification {
	if strings.TrimSpace(name) == "" {
		name = DefaultFilename
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := WriteFile(ctx, path, doc, overwrite); err != nil {
		return notify.Failure(err, "Could not save %s", filepath.Base(path))
	}
	return notify.Success("Saved %s", path)
}
