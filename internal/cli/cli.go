// Package cli implements the fmidx command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

// Run dispatches the fmidx subcommands. It returns the process exit
// code and writes all output to out and errOut.
func Run(stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < 2 {
		printUsage(errOut)

		return 2
	}

	workDir, err := os.Getwd()
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cmd, rest := args[1], args[2:]

	switch cmd {
	case "build":
		return cmdBuild(out, errOut, workDir, env, rest)
	case "search":
		return cmdSearch(out, errOut, workDir, env, rest)
	case "inspect":
		return cmdInspect(out, errOut, rest)
	case "repl":
		return cmdRepl(stdin, out, errOut, workDir, env, rest, sigCh)
	case "version":
		fprintln(out, "fmidx", version)

		return 0
	case "help", "--help", "-h":
		printUsage(out)

		return 0
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 2
	}
}

func printUsage(w io.Writer) {
	fprintln(w, `usage: fmidx <command> [flags]

commands:
  build    build an index from a sequence file
  search   run exact or approximate queries against an index
  inspect  show index parameters and space usage
  repl     interactive query shell
  version  print the version

run 'fmidx <command> --help' for command flags`)
}

// fprintln writes a line, ignoring write errors like the rest of the
// CLI output path.
func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}

	return false
}
