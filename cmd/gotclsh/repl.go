package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/gotcl/gotcl"
	"github.com/gotcl/gotcl/tcl"
)

// repl runs the interactive loop: read with line editing and history,
// keep prompting with the continuation prompt until the input forms a
// complete command, evaluate, print.
func repl(ir *gotcl.Interpreter, cfg shellConfig) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		script, err := readCommand(line, cfg)
		switch err {
		case nil:
		case liner.ErrPromptAborted:
			continue
		case io.EOF:
			fmt.Println()
			return nil
		default:
			return err
		}
		if strings.TrimSpace(script) == "" {
			continue
		}
		line.AppendHistory(script)

		st, out, err := ir.Catch(script)
		if err != nil {
			return err
		}
		if st != tcl.StatusOK {
			fmt.Fprintln(os.Stderr, out)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// readCommand accumulates lines until they parse as a complete command.
func readCommand(line *liner.State, cfg shellConfig) (string, error) {
	script, err := line.Prompt(cfg.Prompt)
	if err != nil {
		return "", err
	}
	for !tcl.CommandComplete(script + "\n") {
		more, err := line.Prompt(cfg.Prompt2)
		if err != nil {
			return "", err
		}
		script += "\n" + more
	}
	return script, nil
}
