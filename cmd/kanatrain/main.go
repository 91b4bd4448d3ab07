package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/juruen/kanatrain/config"
	"github.com/juruen/kanatrain/log"
	flag "github.com/ogier/pflag"
)

func main() {
	log.InitLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flagSet := flag.NewFlagSet("kanatrain", flag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(stderr)

	var configPath, envPath string
	flagSet.StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultFile+")")
	flagSet.StringVar(&envPath, "env", "", "env file (default "+config.DefaultEnvFile+")")
	flagSet.Usage = func() { usage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		usage(stderr, flagSet)
		return 2
	}

	cmd := lookup(rest[0])
	if cmd == nil {
		printError(stderr, fmt.Errorf("unknown command %q", rest[0]))
		usage(stderr, flagSet)
		return 2
	}

	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	table, err := cfg.Table()
	if err != nil {
		printError(stderr, err)
		return 1
	}

	c := &Ctxt{
		ctx:    ctx,
		cfg:    cfg,
		table:  table,
		out:    stdout,
		errOut: stderr,
	}
	if err := cmd.Func(c, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		printError(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, flagSet *flag.FlagSet) {
	fmt.Fprintln(w, "usage: kanatrain [--config=file] [--env=file] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, cmd := range commands() {
		fmt.Fprintf(w, "  %-14s %s\n", cmd.Name, cmd.Help)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "options:")
	flagSet.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "long options take their value after '=', e.g. --per-char=20; short ones after a space, e.g. -n 20")
}
