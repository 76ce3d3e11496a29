package util

import "github.com/sahilm/fuzzy"

// ScoreCompletions ranks the fixed name lists mdpreview accepts: engine names
// (render.engine, --engine), output modes (--output and its shell
// completion) and terminal style names (terminal.style). Callers use the top
// hit for "did you mean" hints. It returns up to n candidates that
// fuzzy-match input, best first. An empty input returns every candidate;
// n <= 0 means no limit.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := len(matches)
	if n > 0 && n < limit {
		limit = n
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}
