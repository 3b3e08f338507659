package cli

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

func cmdRepl(stdin io.Reader, out, errOut io.Writer, workDir string, env map[string]string, args []string, sigCh <-chan os.Signal) int {
	if hasHelpFlag(args) {
		printReplHelp(out)

		return 0
	}

	flagSet := flag.NewFlagSet("repl", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	index := flagSet.StringP("index", "x", "", "Index file")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 2
	}

	if *index == "" {
		fprintln(errOut, "error: --index is required")

		return 2
	}

	cfg, err := LoadConfig(workDir, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	idx, err := fmindex.LoadBiFile(*index)
	if err != nil {
		fprintln(errOut, "error: the repl needs a bidirectional index (build with --bi):", err)

		return 1
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	fprintln(out, "fmidx repl; commands: count <q> | locate <q> | search <k> <q> | quit")

	for {
		select {
		case <-sigCh:
			return 0
		default:
		}

		input, err := line.Prompt("fmidx> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return 0
		}

		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if input == "quit" || input == "exit" {
			return 0
		}

		evalReplLine(out, errOut, idx, cfg, input)
	}
}

func evalReplLine(out, errOut io.Writer, idx *fmindex.BiIndex, cfg Config, input string) {
	fields := strings.Fields(input)

	switch fields[0] {
	case "count":
		if len(fields) != 2 {
			fprintln(errOut, "usage: count <query>")

			return
		}

		query, err := readQueryLine(fields[1], cfg)
		if err != nil {
			fprintln(errOut, "error:", err)

			return
		}

		fprintln(out, idx.Count(query))
	case "locate":
		if len(fields) != 2 {
			fprintln(errOut, "usage: locate <query>")

			return
		}

		query, err := readQueryLine(fields[1], cfg)
		if err != nil {
			fprintln(errOut, "error:", err)

			return
		}

		cur := idx.Root()
		for i := len(query) - 1; i >= 0; i-- {
			cur = cur.ExtendLeft(query[i])
		}

		for _, hit := range idx.Locate(cur) {
			fprintf(out, "%d\t%d\n", hit.SeqID, hit.Pos)
		}
	case "search":
		if len(fields) != 3 {
			fprintln(errOut, "usage: search <errors> <query>")

			return
		}

		maxErrors, err := strconv.Atoi(fields[1])
		if err != nil || maxErrors < 0 {
			fprintln(errOut, "error: errors must be a non-negative integer")

			return
		}

		query, err := readQueryLine(fields[2], cfg)
		if err != nil {
			fprintln(errOut, "error:", err)

			return
		}

		seen := make(map[fmindex.Position]int)

		idx.SearchScheme(query, pigeonScheme(len(query), maxErrors), fmindex.ModeEdit,
			func(cur fmindex.BiCursor, errs int) bool {
				for _, hit := range idx.Locate(cur) {
					if best, ok := seen[hit]; !ok || errs < best {
						seen[hit] = errs
					}
				}

				return true
			})

		for hit, errs := range seen {
			fprintf(out, "%d\t%d\t%d\n", hit.SeqID, hit.Pos, errs)
		}
	default:
		fprintln(errOut, "unknown command:", fields[0])
	}
}

func printReplHelp(w io.Writer) {
	fprintln(w, `usage: fmidx repl -x <index>

interactive query shell with history. commands:
  count <query>            occurrence count
  locate <query>           exact occurrence positions
  search <errors> <query>  approximate positions with error counts
  quit                     leave the shell`)
}
