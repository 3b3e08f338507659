package cli

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

type searchOptions struct {
	index   string
	queries string
	errors  int
	mode    string
	maxHits uint64
	best    bool
}

func cmdSearch(out, errOut io.Writer, workDir string, env map[string]string, args []string) int {
	if hasHelpFlag(args) {
		printSearchHelp(out)

		return 0
	}

	cfg, err := LoadConfig(workDir, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	opts, code := parseSearchFlags(errOut, args)
	if code != 0 {
		return code
	}

	queries, err := readSequenceFile(opts.queries, cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	data, closeFn, err := mmapFile(opts.index)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}
	defer closeFn()

	if opts.errors == 0 && !opts.best {
		return searchExact(out, errOut, data, queries)
	}

	idx, err := fmindex.DecodeBi(data)
	if err != nil {
		fprintln(errOut, "error: approximate search needs a bidirectional index (build with --bi):", err)

		return 1
	}

	return searchApprox(out, idx, queries, opts)
}

func searchExact(out, errOut io.Writer, data []byte, queries [][]byte) int {
	counter, err := loadAnyIndex(data)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	for queryID, query := range queries {
		for _, hit := range counter.locate(query) {
			fprintf(out, "%d\t%d\t%d\t0\n", queryID, hit.SeqID, hit.Pos)
		}
	}

	return 0
}

// exactIndex unifies the two index kinds for the exact path.
type exactIndex struct {
	locate func(query []byte) []fmindex.Position
}

func loadAnyIndex(data []byte) (*exactIndex, error) {
	if idx, err := fmindex.Decode(data); err == nil {
		return &exactIndex{locate: func(query []byte) []fmindex.Position {
			cur := idx.Root()
			for i := len(query) - 1; i >= 0; i-- {
				cur = cur.ExtendLeft(query[i])
			}

			return idx.Locate(cur)
		}}, nil
	}

	idx, err := fmindex.DecodeBi(data)
	if err != nil {
		return nil, err
	}

	return &exactIndex{locate: func(query []byte) []fmindex.Position {
		cur := idx.Root()
		for i := len(query) - 1; i >= 0; i-- {
			cur = cur.ExtendLeft(query[i])
		}

		return idx.Locate(cur)
	}}, nil
}

func searchApprox(out io.Writer, idx *fmindex.BiIndex, queries [][]byte, opts searchOptions) int {
	for queryID, query := range queries {
		scheme := pigeonScheme(len(query), opts.errors)

		seen := make(map[fmindex.Position]int)

		report := func(cur fmindex.BiCursor, errs int) bool {
			for _, hit := range idx.Locate(cur) {
				if best, ok := seen[hit]; !ok || errs < best {
					seen[hit] = errs
				}
			}

			return opts.maxHits == 0 || uint64(len(seen)) < opts.maxHits
		}

		switch {
		case opts.best:
			idx.SearchBest(query, scheme, parseMode(opts.mode), report)
		case opts.mode == "dp":
			idx.SearchSchemeDP(query, scheme, report)
		default:
			idx.SearchScheme(query, scheme, parseMode(opts.mode), report)
		}

		for hit, errs := range seen {
			fprintf(out, "%d\t%d\t%d\t%d\n", queryID, hit.SeqID, hit.Pos, errs)
		}
	}

	return 0
}

func parseMode(mode string) fmindex.Mode {
	if mode == "hamming" {
		return fmindex.ModeHamming
	}

	return fmindex.ModeEdit
}

func parseSearchFlags(errOut io.Writer, args []string) (searchOptions, int) {
	flagSet := flag.NewFlagSet("search", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	index := flagSet.StringP("index", "x", "", "Index file")
	queries := flagSet.StringP("queries", "q", "", "Query file, one query per line")
	errs := flagSet.IntP("errors", "k", 0, "Maximum errors")
	mode := flagSet.String("mode", "edit", "Error model: edit, hamming or dp")
	maxHits := flagSet.Uint64("max-hits", 0, "Stop a query after this many hits (0 = unlimited)")
	best := flagSet.Bool("best", false, "Report only the lowest error tier per query")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return searchOptions{}, 2
	}

	if *index == "" || *queries == "" {
		fprintln(errOut, "error: --index and --queries are required")

		return searchOptions{}, 2
	}

	if *mode != "edit" && *mode != "hamming" && *mode != "dp" {
		fprintln(errOut, "error: --mode must be edit, hamming or dp")

		return searchOptions{}, 2
	}

	return searchOptions{
		index:   *index,
		queries: *queries,
		errors:  *errs,
		mode:    *mode,
		maxHits: *maxHits,
		best:    *best,
	}, 0
}

func printSearchHelp(w io.Writer) {
	fprintln(w, `usage: fmidx search -x <index> -q <queries> [flags]

output: one line per hit: query<TAB>sequence<TAB>position<TAB>errors

flags:
  -x, --index       index file (required)
  -q, --queries     query file, one query per line (required)
  -k, --errors      maximum errors (default 0, exact)
      --mode        edit, hamming or dp (default edit)
      --max-hits    stop a query after this many hits
      --best        report only the lowest error tier per query`)
}

// readQueryLine maps one interactive query string.
func readQueryLine(line string, cfg Config) ([]byte, error) {
	mapping, err := cfg.symbolMap()
	if err != nil {
		return nil, err
	}

	seq, err := mapLine([]byte(line), mapping)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", line, err)
	}

	return seq, nil
}
