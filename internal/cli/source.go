package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdpreview/internal/present"
	"github.com/mithrel/mdpreview/internal/util"
)

var errNoInput = errors.New("no input: pass a file or pipe Markdown on stdin")

// readSource returns the Markdown to render and a name for it. A missing
// argument or "-" reads stdin, unless stdin is a terminal.
func readSource(cmd *cobra.Command, args []string) (text, name string, err error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), filepath.Base(args[0]), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), "stdin", nil
}

func parseOutputMode(s string) (present.Mode, error) {
	mode, ok := present.ParseMode(strings.ToLower(s))
	if ok {
		return mode, nil
	}
	if best := util.ScoreCompletions(s, present.ModeNames(), 1); len(best) > 0 {
		return 0, fmt.Errorf("unknown output %q (did you mean %q?)", s, best[0])
	}
	return 0, fmt.Errorf("unknown output %q; use one of %s", s, strings.Join(present.ModeNames(), ", "))
}

func completeOutputModes(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return util.ScoreCompletions(toComplete, present.ModeNames(), 0), cobra.ShellCompDirectiveNoFileComp
}
