// emojictl is the command-line companion of the emoji keyboard.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries the global options and streams of one invocation.
type app struct {
	configPath string
	jsonOut    bool
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("emojictl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.configPath, "config", "", "path to config file")
	fs.BoolVar(&a.jsonOut, "json", false, "write JSON output")
	fs.Usage = func() { a.usage() }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 1 {
		a.usage()
		return 1
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "encode":
		err = a.cmdEncode(rest)
	case "decode":
		err = a.cmdDecode(rest)
	case "table":
		err = a.cmdTable(rest)
	case "layouts":
		err = a.cmdLayouts()
	case "check":
		err = a.cmdCheck(rest)
	case "config":
		err = a.cmdConfig(rest)
	case "help":
		a.usage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		a.usage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, `emojictl - Emoji keyboard translator

Usage: emojictl [options] <command> [args]

Commands:
  encode [text]           Replace letters with their glyphs
  decode [text]           Recover the letters behind glyphs
  table [-layout name]    Print the letter to glyph table
  layouts                 List keyboard layouts
  check [text]            Report how text splits into glyphs and other units
  config init|show|validate|schema
                          Manage the config file
  help                    Show this help message

Text is read from stdin when not given as arguments.

Options:
  -config <path>  Path to config file
  -json           Write JSON output`)
}
