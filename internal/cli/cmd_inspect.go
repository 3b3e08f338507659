package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/fmindex/pkg/fmindex"
)

func cmdInspect(out, errOut io.Writer, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, `usage: fmidx inspect -x <index>`)

		return 0
	}

	flagSet := flag.NewFlagSet("inspect", flag.ContinueOnError)
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

	data, closeFn, err := mmapFile(*index)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}
	defer closeFn()

	if idx, err := fmindex.DecodeBi(data); err == nil {
		fprintf(out, "kind:          bidirectional\n")
		fprintf(out, "text length:   %d\n", idx.Size())
		fprintf(out, "sigma:         %d\n", idx.Sigma())
		fprintf(out, "sampling rate: %d\n", idx.SamplingRate())
		fprintf(out, "space usage:   %d bytes\n", idx.SpaceUsage())

		return 0
	}

	idx, err := fmindex.Decode(data)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintf(out, "kind:          unidirectional\n")
	fprintf(out, "text length:   %d\n", idx.Size())
	fprintf(out, "sigma:         %d\n", idx.Sigma())
	fprintf(out, "sampling rate: %d\n", idx.SamplingRate())
	fprintf(out, "space usage:   %d bytes\n", idx.SpaceUsage())

	return 0
}
