package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sanity-io/litter"

	"github.com/mekelius/maps-sub000/internal/compilation"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/config"
	"github.com/mekelius/maps-sub000/internal/emitter"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to maps.yaml, looked up next to the source when empty")
	output := flag.String("o", "", "output file")
	dump := flag.Bool("dump", false, "print the resolved program")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: maps [-config maps.yaml] [-o out.ll] [-dump] [-v] file.maps\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	fileName := flag.Arg(0)

	cfg, err := loadConfig(*configPath, fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *dump {
		cfg.DumpAST = true
	}

	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fileData, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	eh := compiler_errors.NewErrorHandler(os.Stderr, cfg.ColorMode())

	unit, err := compilation.Compile(fileName, fileData, cfg, eh, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cfg.DumpAST {
		litter.Dump(unit)
	}

	if eh.HasErrors() {
		eh.Report()
		return 1
	}

	if cfg.Emit == config.EmitNone {
		return 0
	}

	e := emitter.NewEmitter(eh, unit)
	defer e.Dispose()
	module := e.Emit()
	if eh.HasErrors() {
		eh.Report()
		return 1
	}

	outputPath := cfg.OutputPath(fileName)
	if err := emitter.WriteModule(module, outputPath, cfg.Emit); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger.Info("wrote module", "path", outputPath)

	return 0
}

func loadConfig(configPath string, fileName string) (*config.Config, error) {
	if configPath == "" {
		found, err := config.FindConfig(filepath.Dir(fileName))
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		configPath = found
	}
	return config.LoadConfig(configPath)
}
