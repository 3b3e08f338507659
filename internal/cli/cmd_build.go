package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

type buildOptions struct {
	input         string
	output        string
	bidirectional bool
	sampling      int
	threads       int
	alphabet      string
}

func cmdBuild(out, errOut io.Writer, workDir string, env map[string]string, args []string) int {
	if hasHelpFlag(args) {
		printBuildHelp(out)

		return 0
	}

	cfg, err := LoadConfig(workDir, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	opts, code := parseBuildFlags(errOut, cfg, args)
	if code != 0 {
		return code
	}

	if opts.alphabet != "" {
		cfg.Alphabet = opts.alphabet
	}

	seqs, err := readSequenceFile(opts.input, cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	indexOpts := fmindex.Options{
		Sigma:        cfg.sigma(),
		SamplingRate: opts.sampling,
		Threads:      opts.threads,
	}

	if opts.bidirectional {
		idx, err := fmindex.NewBi(seqs, indexOpts)
		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}

		if err := idx.SaveFile(opts.output); err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}

		fprintf(out, "built bidirectional index: %d sequences, %d symbols, %d bytes\n",
			len(seqs), idx.Size(), idx.SpaceUsage())

		return 0
	}

	idx, err := fmindex.New(seqs, indexOpts)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if err := idx.SaveFile(opts.output); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintf(out, "built index: %d sequences, %d symbols, %d bytes\n",
		len(seqs), idx.Size(), idx.SpaceUsage())

	return 0
}

func parseBuildFlags(errOut io.Writer, cfg Config, args []string) (buildOptions, int) {
	flagSet := flag.NewFlagSet("build", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	input := flagSet.StringP("input", "i", "", "Sequence file, one sequence per line")
	output := flagSet.StringP("output", "o", "index.fmi", "Output index file")
	bidirectional := flagSet.Bool("bi", false, "Build a bidirectional index")
	sampling := flagSet.Int("sampling", cfg.SamplingRate, "Suffix-array sampling rate")
	threads := flagSet.Int("threads", 1, "Build worker threads")
	alphabet := flagSet.String("alphabet", "", "Override the configured alphabet")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return buildOptions{}, 2
	}

	if *input == "" {
		fprintln(errOut, "error: --input is required")

		return buildOptions{}, 2
	}

	return buildOptions{
		input:         *input,
		output:        *output,
		bidirectional: *bidirectional,
		sampling:      *sampling,
		threads:       *threads,
		alphabet:      *alphabet,
	}, 0
}

// readSequenceFile reads one sequence per line and maps it through the
// configured alphabet.
func readSequenceFile(path string, cfg Config) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mapping, err := cfg.symbolMap()
	if err != nil {
		return nil, err
	}

	var seqs [][]byte

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		seq, err := mapLine(line, mapping)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}

		seqs = append(seqs, seq)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(seqs) == 0 {
		return nil, fmt.Errorf("%s: no sequences", path)
	}

	return seqs, nil
}

func mapLine(line []byte, mapping map[byte]byte) ([]byte, error) {
	seq := make([]byte, len(line))

	for i, b := range line {
		sym, ok := mapping[b]
		if !ok {
			return nil, fmt.Errorf("character %q not in alphabet", b)
		}

		seq[i] = sym
	}

	return seq, nil
}

func printBuildHelp(w io.Writer) {
	fprintln(w, `usage: fmidx build -i <sequences> [-o <index>] [flags]

flags:
  -i, --input       sequence file, one sequence per line (required)
  -o, --output      output index file (default index.fmi)
      --bi          build a bidirectional index (required for approximate search)
      --sampling    suffix-array sampling rate (default from config, 16)
      --threads     build worker threads (default 1)
      --alphabet    override the configured alphabet string`)
}
