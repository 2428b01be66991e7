package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/KimNorgaard/go-xmljson/internal/cli"
)

// main is the entrypoint for the xmljson command.
func main() {
	// Use a minimal logger until the command configures its own.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the command so it can be driven from tests.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := cli.NewRootCmd(stdin, stdout, stderr)
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	return cmd.Execute()
}
