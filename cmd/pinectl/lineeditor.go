package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const historySize = 500

// lineReader yields shell input lines.
type lineReader interface {
	GetLine(prompt string) (string, error)
	Close()
}

// lineEditor uses readline on a terminal and a plain scanner for piped
// input.
type lineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
	out     io.Writer
}

func newLineEditor(in *os.File, out io.Writer, historyFile string) *lineEditor {
	interactive := term.IsTerminal(int(in.Fd())) && os.Getenv("INSIDE_EMACS") == ""
	if !interactive {
		return newScannerEditor(in, out)
	}

	if historyFile != "" {
		// readline does not create missing directories
		os.MkdirAll(filepath.Dir(historyFile), 0o700)
	}
	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyFile,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(in, out)
	}
	return &lineEditor{rl: rl, out: out}
}

func newScannerEditor(in io.Reader, out io.Writer) *lineEditor {
	return &lineEditor{scanner: bufio.NewScanner(in), out: out}
}

// GetLine reads one line. Ctrl-C and end of input both yield io.EOF.
func (le *lineEditor) GetLine(prompt string) (string, error) {
	if le.rl == nil {
		fmt.Fprint(le.out, prompt)
		if !le.scanner.Scan() {
			if err := le.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return le.scanner.Text(), nil
	}

	le.rl.SetPrompt(prompt)
	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *lineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}
