// Command relecov checks sample metadata files against a schema and maps
// them between schemas without a running service.
//
//	relecov validate -schema relecov.yaml samples.csv
//	relecov map -mapping relecov-to-ena.yaml -source relecov.yaml -target ena.yaml samples.csv
//	relecov lint -mapping relecov-to-ena.yaml -source relecov.yaml -target ena.yaml
//	relecov export -schema relecov.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: relecov <command> [flags] [dataset]

commands:
  validate   check a dataset against a schema
  map        validate a dataset and map it to a target schema
  lint       list enum values a mapping cannot translate
  export     print a schema as JSON Schema
`

// errUnsuccessful marks a run that completed but rejected too many records.
var errUnsuccessful = errors.New("run rejected more records than allowed")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1], os.Args[2:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, errUnsuccessful):
		os.Exit(1)
	default:
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "validate":
		return runValidate(ctx, args, stdout)
	case "map":
		return runMap(ctx, args, stdout)
	case "lint":
		return runLint(args, stdout)
	case "export":
		return runExport(args, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
