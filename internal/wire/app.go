package wire

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/mdpreview/internal/config"
	"github.com/mithrel/mdpreview/internal/notify"
	"github.com/mithrel/mdpreview/internal/render"
	"github.com/mithrel/mdpreview/pkg/markdown"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *slog.Logger
	Engine   render.Engine
	Notifier notify.Notifier
}

// BuildApp wires dependencies with the provided config. Logs go to stderr.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	return BuildAppWithLog(ctx, v, os.Stderr)
}

// BuildAppWithLog is BuildApp with an explicit log destination.
func BuildAppWithLog(ctx context.Context, v *viper.Viper, logOut io.Writer) (*App, error) {
	engine, err := render.New(v.GetString("render.engine"))
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: ParseLevel(v.GetString("log.level"))}))
	return &App{
		Cfg:      v,
		Log:      logger,
		Engine:   engine,
		Notifier: notify.Log{Logger: logger},
	}, nil
}

// Options returns the render options currently configured.
func (a *App) Options() markdown.Options {
	return config.RenderOptions(a.Cfg)
}

// ParseLevel maps a log.level value to a slog level. Unknown values log
// at info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
