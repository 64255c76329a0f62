// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"github.com/ezrec/duet/config"
	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/emulator"
)

// newLogger fans the coordinator log out to stderr and an optional JSON trace.
func newLogger(verbose bool, trace io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	if trace != nil {
		handlers = append(handlers, slog.NewJSONHandler(trace, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

func main() {
	var cfgPath string
	var mode string
	var verbose bool
	var trace string
	defines := map[string]string{}

	flag.StringVar(&cfgPath, "c", config.DEFAULT_PATH, "duet.toml configuration file")
	flag.StringVar(&mode, "m", "", "Run mode, 'single' or 'dual'")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&trace, "t", "", "JSON trace output")
	flag.Func("D", "Define an equate, NAME=VALUE", func(arg string) error {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || len(name) == 0 {
			return fmt.Errorf("expected NAME=VALUE, got %q", arg)
		}
		defines[name] = value
		return nil
	})

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	// Flags override the configuration file.
	if len(mode) != 0 {
		cfg.Mode = mode
	}
	if verbose {
		cfg.Verbose = true
	}
	if len(trace) != 0 {
		cfg.Trace = trace
	}
	if flag.NArg() == 1 {
		cfg.Program = flag.Arg(0)
	}
	for name, value := range defines {
		cfg.Define[name] = value
	}

	err = cfg.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if len(cfg.Program) == 0 {
		cfg.Program = "-"
	}

	var input io.Reader
	if cfg.Program == "-" {
		input = os.Stdin
	} else {
		inf, err := os.Open(cfg.Program)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Program, err)
		}
		defer inf.Close()
		input = inf
	}

	asm := &cpu.Assembler{Verbose: cfg.Verbose}
	for name, value := range cfg.Define {
		asm.Predefine(name, value)
	}
	prog, err := asm.Parse(input)
	if err != nil {
		log.Fatalf("%v: %v", cfg.Program, err)
	}

	var traceOut io.Writer
	if len(cfg.Trace) != 0 {
		ouf, err := os.Create(cfg.Trace)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Trace, err)
		}
		defer ouf.Close()
		traceOut = ouf
	}

	switch cfg.Mode {
	case config.MODE_SINGLE:
		single := emulator.NewSingle(prog)
		single.Verbose = cfg.Verbose
		value, err := single.Run()
		if err != nil {
			log.Fatalf("%v: %v", cfg.Program, err)
		}
		fmt.Println(value)
	case config.MODE_DUAL:
		duet := emulator.NewDuet(prog)
		duet.Verbose = cfg.Verbose
		duet.Logger = newLogger(cfg.Verbose, traceOut)
		sent, err := duet.Run()
		if err != nil {
			log.Fatalf("%v: %v", cfg.Program, err)
		}
		fmt.Println(sent)
	}
}
