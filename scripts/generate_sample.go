// Command generate_sample writes a deterministic Markdown document that
// touches every construct the renderer knows, for manual previews and
// profiling:
//
//	go run ./scripts -sections 200 > sample.md
package main

import (
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
)

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do
eiusmod tempor incididunt ut labore et dolore magna aliqua gopher channel
mutex goroutine interface pointer slice`)

func main() {
	sections := flag.Int("sections", 50, "number of sections to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(*seed))

	var b strings.Builder
	b.WriteString("# Sample Document\n\n")
	for i := 0; i < *sections; i++ {
		level := 2 + mr.Intn(5)
		fmt.Fprintf(&b, "%s Section %03d\n\n", strings.Repeat("#", level), i+1)

		switch mr.Intn(6) {
		case 0:
			for j := 0; j < 1+mr.Intn(4); j++ {
				fmt.Fprintf(&b, "- %s\n", sentence(mr, 3))
			}
		case 1:
			for j := 0; j < 1+mr.Intn(4); j++ {
				fmt.Fprintf(&b, "%d. %s\n", j+1, sentence(mr, 3))
			}
		case 2:
			fmt.Fprintf(&b, "```\nfunc f%d() int {\n\treturn %d < %d\n}\n```\n", i, mr.Intn(10), mr.Intn(10))
		case 3:
			fmt.Fprintf(&b, "> %s\n", sentence(mr, 8))
		case 4:
			b.WriteString("---\n")
		default:
			fmt.Fprintf(&b, "%s **%s** *%s* `%s` [link](https://example.com/%d)\n",
				sentence(mr, 6), pick(mr), pick(mr), pick(mr), i)
		}
		b.WriteString("\n")
		b.WriteString(sentence(mr, 12))
		b.WriteString("\n\n")
	}

	if _, err := os.Stdout.WriteString(b.String()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pick(r *mrand.Rand) string { return words[r.Intn(len(words))] }

func sentence(r *mrand.Rand, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = pick(r)
	}
	return strings.ToUpper(out[0][:1]) + strings.Join(out, " ")[1:] + "."
}
