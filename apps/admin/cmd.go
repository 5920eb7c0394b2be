package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	out    io.Writer
	openDB func(ctx context.Context) (*sql.DB, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, up-to VERSION, down, down-to VERSION, redo, reset, status, version)")
	fmt.Fprintln(cli.out, "  validate-courses [-dir DIR] - validate the course fixtures of DIR/fixtures (default: the embedded ones)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	validateCmd := flag.NewFlagSet("validate-courses", flag.ContinueOnError)
	validateCmd.SetOutput(cli.out)
	validateDir := validateCmd.String("dir", "", "Directory holding a fixtures/ folder. The embedded fixtures are used if empty.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "validate-courses":
		if err := validateCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.validateCourses(*validateDir)
	default:
		cli.printUsage()
		return errHelp
	}
}
