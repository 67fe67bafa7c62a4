// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/pemu/console"
	"github.com/ezrec/pemu/instruction"
	"github.com/ezrec/pemu/internal"
	"github.com/ezrec/pemu/listing"
	"github.com/ezrec/pemu/memory"
	"github.com/ezrec/pemu/processor"
	"github.com/ezrec/pemu/translate"
)

var f = translate.From

func main() {
	var config string
	var program string
	var image string
	var dump string
	var symbols bool
	var keys bool
	var verbose bool
	var lang string

	cfg := processor.DefaultConfig()
	override := cfg

	flag.StringVar(&config, "c", "", ".toml configuration file")
	flag.StringVar(&program, "p", "", "listing file to load")
	flag.StringVar(&image, "i", "", "memory image to load")
	flag.StringVar(&dump, "d", "", "memory image to save on exit")
	flag.BoolVar(&symbols, "s", false, "print the layout symbols, do not execute")
	flag.BoolVar(&keys, "k", false, "feed standard input as key presses")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "lang", "", "message language")
	flag.IntVar(&override.Bits, "b", cfg.Bits, f("word width in bits, rounded up to one of %v", memory.Words()))
	flag.IntVar(&override.MemorySize, "m", cfg.MemorySize, "memory size in words")
	flag.IntVar(&override.Frequency, "f", cfg.Frequency, "clock frequency in Hz")
	flag.IntVar(&override.HistoryCapacity, "history", cfg.HistoryCapacity, "instruction history entries")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: %v", os.Args[0], f("unknown arguments: %v", flag.Args()))
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if len(lang) != 0 {
		if err := translate.SetLanguage(lang); err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	if len(config) != 0 {
		cfg = loadConfig(config)
	}

	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "b":
			cfg.Bits = override.Bits
		case "m":
			cfg.MemorySize = override.MemorySize
		case "f":
			cfg.Frequency = override.Frequency
		case "history":
			cfg.HistoryCapacity = override.HistoryCapacity
		}
	})

	if symbols {
		printSymbols(cfg)
		return
	}

	proc, err := processor.NewProcessor(cfg, instruction.BASIC)
	if err != nil {
		log.Fatal(err)
	}
	proc.Verbose = verbose

	if len(image) != 0 {
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		err = proc.Memory().Unmarshal(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	if len(program) != 0 {
		words := loadListing(proc, program, verbose)
		err = proc.LoadProgram(words)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	}

	fmt.Print(proc.Info())

	if keys {
		con := &console.Console{Input: os.Stdin, Sink: proc}
		go func() {
			if err := con.Feed(); err != nil {
				log.Warn(err)
			}
		}()
	}

	err = run(proc)

	printState(proc)

	if len(dump) != 0 {
		ouf, derr := os.Create(dump)
		if derr != nil {
			log.Fatalf("%v: %v", dump, derr)
		}
		derr = proc.Memory().Marshal(ouf)
		if cerr := ouf.Close(); derr == nil {
			derr = cerr
		}
		if derr != nil {
			log.Fatalf("%v: %v", dump, derr)
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}

// loadConfig merges a TOML file over the defaults.
func loadConfig(path string) processor.Config {
	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	cfg, err := processor.LoadConfig(inf)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	return cfg
}

func loadListing(proc *processor.Processor, path string, verbose bool) []uint32 {
	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	ld := &listing.Loader{
		Verbose: verbose,
		Set:     proc.InstructionSet(),
		Origin:  proc.ProgramAddress(),
	}
	for name, value := range proc.Defines() {
		ld.Predefine(name, value)
	}

	words, err := ld.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	return words
}

// run executes the processor until it halts, faults, or is interrupted.
func run(proc *processor.Processor) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return proc.RunContext(ctx)
	})

	return grp.Wait()
}

func printSymbols(cfg processor.Config) {
	dummy, err := processor.NewDummy(cfg)
	if err != nil {
		log.Fatal(err)
	}

	syms := internal.IterSeqConcat(slices.Values(dummy.RegisterSymbols()), slices.Values(dummy.FlagSymbols()))
	for sym := range syms {
		fmt.Printf("%v\t%v\n", sym.ShortName(), sym.Name())
	}
	defines := maps.Collect(dummy.Defines())
	for _, name := range slices.Sorted(maps.Keys(defines)) {
		fmt.Printf(".equ %v %v\n", name, defines[name])
	}
}

func printState(proc *processor.Processor) {
	for _, reg := range proc.Registers() {
		fmt.Println(reg)
	}
	for _, fl := range proc.Flags() {
		fmt.Println(fl)
	}
	fmt.Print(proc.History())
	fmt.Println(proc.Memory())
}
