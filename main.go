package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/bindgen/adapter"
	"github.com/ardanlabs/bindgen/generator"
	"github.com/ardanlabs/bindgen/parser"
	"github.com/ardanlabs/bindgen/srcml"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("bindgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	headerPath := fs.String("header", "", "Path to C++ header file")
	outputDir := fs.String("output", ".", "Output directory for generated files")
	moduleName := fs.String("module", "", "Python module name (e.g., 'mylib' for mylib.pyi)")
	srcmlExe := fs.String("srcml", "srcml", "Path to the srcml executable")
	xmlPath := fs.String("xml", "", "Read an existing srcml document instead of running srcml")
	noBuffers := fs.Bool("no-buffers", false, "Do not publish C buffers as numpy arrays")
	noArrays := fs.Bool("no-arrays", false, "Do not adapt fixed size C arrays")
	noVariadic := fs.Bool("no-variadic", false, "Do not adapt printf like functions")
	noStringLists := fs.Bool("no-string-lists", false, "Do not adapt C string lists")
	renderSrcml := fs.Bool("render-srcml", false, "Render expressions and defaults with the srcml executable")
	verbose := fs.Bool("v", false, "Log debug messages")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *headerPath == "" && *xmlPath == "" {
		fs.Usage()
		return errors.New("-header or -xml flag is required")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	source := *headerPath
	if source == "" {
		source = strings.TrimSuffix(*xmlPath, ".xml")
	}

	if *moduleName == "" {
		base := filepath.Base(source)
		*moduleName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	runner := srcml.Runner{Executable: *srcmlExe, Logger: logger}

	tree, err := readTree(ctx, *headerPath, *xmlPath, &runner)
	if err != nil {
		return err
	}

	popts := parser.Options{Filename: source, Logger: logger}
	if *renderSrcml {
		popts.Render = runner.Renderer(ctx)
	}

	unit, err := parser.Parse(tree, popts)
	if err != nil {
		return fmt.Errorf("parsing header: %w", err)
	}

	var nodes int
	parser.Walk(unit, func(parser.Node, []parser.Node) bool {
		nodes++
		return true
	})
	logger.Debug("parsed header", "file", source, "nodes", nodes)

	opts := adapter.DefaultOptions()
	opts.AdaptCBuffers = !*noBuffers
	opts.AdaptFixedSizeArrays = !*noArrays
	opts.AdaptVariadicFormat = !*noVariadic
	opts.AdaptCStringLists = !*noStringLists

	gen := generator.New(*moduleName, unit, opts, logger)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	files, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	for filename, content := range files {
		path := filepath.Join(*outputDir, filename)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", filename, err)
		}
		fmt.Fprintf(stdout, "Generated: %s\n", path)
	}

	return nil
}

// readTree decodes the srcml document at xmlPath when it is set, and runs
// srcml on the header otherwise.
func readTree(ctx context.Context, headerPath, xmlPath string, runner *srcml.Runner) (*srcml.Tree, error) {
	if xmlPath != "" {
		f, err := os.Open(xmlPath)
		if err != nil {
			return nil, fmt.Errorf("reading srcml: %w", err)
		}
		defer f.Close()

		tree, err := srcml.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decoding srcml: %w", err)
		}
		return tree, nil
	}

	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	tree, err := runner.Parse(ctx, string(headerData))
	if err != nil {
		return nil, fmt.Errorf("running srcml: %w", err)
	}
	return tree, nil
}
