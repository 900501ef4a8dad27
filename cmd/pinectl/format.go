package main

import (
	"fmt"
	"io"

	"github.com/bft-labs/pine/pkg/command"
)

// describe renders one command and its result on a single line.
func describe(cmd command.Command, r command.Result) string {
	if v, ok := command.Uint(r); ok {
		digits := 2 * command.ResultSize(r.Opcode())
		return fmt.Sprintf("%s = %d ($%0*X)", cmd, v, digits, v)
	}
	if s, ok := command.Text(r); ok {
		return fmt.Sprintf("%s = %q", cmd, s)
	}
	if sr, ok := r.(command.StatusResult); ok {
		return fmt.Sprintf("%s = %s", cmd, sr.Status)
	}
	return fmt.Sprintf("%s ok", cmd)
}

func printResults(w io.Writer, cmds []command.Command, results []command.Result) {
	for i, r := range results {
		fmt.Fprintln(w, describe(cmds[i], r))
	}
}
