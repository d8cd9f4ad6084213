// Command gotclsh is an interactive Tcl shell backed by an embedded
// interpreter. Without arguments it runs a line editor with history and
// multi-line continuation; given a script file or -c it runs that and
// exits.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/gotcl/gotcl"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gotclsh:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var inline string
	var noRC bool

	cmd := &cobra.Command{
		Use:   "gotclsh [script [arg ...]]",
		Short: "Tcl shell",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.New())
			if err != nil {
				return err
			}
			if noRC {
				cfg.InitScript = ""
			}
			return run(cfg, inline, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&inline, "command", "c", "", "evaluate this script and exit")
	cmd.Flags().BoolVar(&noRC, "no-rc", false, "skip the configured init script")
	return cmd
}

func run(cfg shellConfig, inline string, args []string) error {
	ir, err := gotcl.New(nil)
	if err != nil {
		return err
	}
	defer ir.Close()
	if err := ir.ResumeEvents(10 * time.Millisecond); err != nil {
		return err
	}

	if cfg.InitScript != "" {
		src, err := os.ReadFile(cfg.InitScript)
		if err != nil {
			return err
		}
		if _, err := ir.Eval(string(src)); err != nil {
			return err
		}
	}

	switch {
	case inline != "":
		out, err := ir.Eval(inline)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Println(out)
		}
		return nil
	case len(args) > 0:
		return runScript(ir, args[0], args[1:])
	case term.IsTerminal(int(os.Stdin.Fd())):
		return repl(ir, cfg)
	default:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		_, err = ir.Eval(string(src))
		return err
	}
}

func runScript(ir *gotcl.Interpreter, path string, args []string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := ir.SetVar("argv0", path); err != nil {
		return err
	}
	argv := make([]any, len(args))
	for i, a := range args {
		argv[i] = a
	}
	if _, err := ir.Call("set", "argv", argv); err != nil {
		return err
	}
	if err := ir.SetVar("argc", len(args)); err != nil {
		return err
	}
	_, err = ir.Eval(string(src))
	return err
}
