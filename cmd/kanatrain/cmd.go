package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/config"
	flag "github.com/ogier/pflag"
)

// Ctxt is what every command runs with: the resolved configuration, the
// shared alphabet table and the output streams.
type Ctxt struct {
	ctx    context.Context
	cfg    *config.Config
	table  *alphabet.Table
	out    io.Writer
	errOut io.Writer
}

type Cmd struct {
	Name string
	Help string
	Func func(c *Ctxt, args []string) error
}

func commands() []*Cmd {
	return []*Cmd{
		generateCmd(),
		featuresCmd(),
		trainForestCmd(),
		trainNetCmd(),
		evaluateCmd(),
		exportCmd(),
		sheetCmd(),
		labelsCmd(),
		statsCmd(),
	}
}

func lookup(name string) *Cmd {
	for _, cmd := range commands() {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func (c *Ctxt) flagSet(name string) *flag.FlagSet {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(c.errOut)
	return flagSet
}

// intList implements flag.Value for comma separated sizes, e.g. 128,64
type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(value string) error {
	var out []int
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid size %q", p)
		}
		out = append(out, n)
	}
	*l = out
	return nil
}
