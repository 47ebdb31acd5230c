// Package main provides the mythchaser CLI entrypoint.
//
// Usage:
//
//	mythchaser [options]                       interactive claim checker
//	mythchaser [options] check [--file F] TEXT  check one claim and print the verdict
//
// Exit codes:
//   - 0: a verdict was returned
//   - 1: configuration error, failed submission, or the service refused the claim
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine; anything it sets is read by config.FromEnv.
	_ = godotenv.Load()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "mythchaser",
		Usage:          "Anti-scam and myth-busting utility powered by AI",
		Writer:         stdout,
		ErrWriter:      stderr,
		Flags:          globalFlags(),
		Action:         runInteractive,
		ExitErrHandler: exitErrHandler,
		// Attachment paths may contain commas.
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			checkCommand(),
		},
	}
}

// exitErrHandler preserves exit codes from cli.Exit and prints their message.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	stderr := io.Writer(os.Stderr)
	if c != nil && c.App != nil && c.App.ErrWriter != nil {
		stderr = c.App.ErrWriter
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	os.Exit(1)
}
