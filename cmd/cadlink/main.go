package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: cadlink <command> [flags] <drawing>...

commands:
  dump      print the graph snapshot of a drawing as yaml or cbor
  convert   write a drawing in text or binary form, compressed by suffix
  check     write every drawing in both forms, read it back and compare

common flags:
  -c, --config file          yaml or jsonc config file
      --failsafe             skip objects that fail to decode (default true)
      --strict-references    report unresolved references
  -w, --workers n            templates built in parallel
  -q, --quiet                production logging
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Println(err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	switch args[0] {
	case "dump":
		return dump(ctx, args[1:], stdout)
	case "convert":
		return convert(ctx, args[1:], stdout)
	case "check":
		return check(ctx, args[1:], stdout)
	case "help", "-h", "--help":
		_, err := fmt.Fprint(stdout, usage)
		return err
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
