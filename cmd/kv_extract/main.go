package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-kv-entities/internal/document"
	"github.com/a3tai/mcp-kv-entities/internal/entities"
	"github.com/a3tai/mcp-kv-entities/internal/fetch"
	"github.com/a3tai/mcp-kv-entities/internal/layout"
	"github.com/a3tai/mcp-kv-entities/internal/logging"
)

// options holds the parsed command line
type options struct {
	source   string
	leftHalf bool
	format   string
	timeout  time.Duration
	maxSize  int64
	verbose  bool
	showHelp bool
}

// report is the JSON output of a run
type report struct {
	Source   string             `json:"source"`
	Pairs    int                `json:"pairs"`
	Entities *entities.Entities `json:"entities"`
	Pivot    *float64           `json:"pivot,omitempty"`
	LeftHalf *entities.Entities `json:"left_half,omitempty"`
}

func main() {
	opts, flags, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(os.Stderr, flags)
		os.Exit(1)
	}
	if opts.showHelp {
		printUsage(os.Stdout, flags)
		return
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := logging.Setup(level, false)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, *pflag.FlagSet, error) {
	opts := &options{}
	flags := pflag.NewFlagSet("kv_extract", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.BoolVar(&opts.leftHalf, "left", false, "Also classify entities on the left half of the page")
	flags.StringVar(&opts.format, "format", "text", "Output format: text, json")
	flags.DurationVar(&opts.timeout, "timeout", fetch.DefaultTimeout, "Timeout for fetching the document")
	flags.Int64Var(&opts.maxSize, "max-document-size", fetch.DefaultMaxDocumentSize, "Maximum document size in bytes")
	flags.BoolVarP(&opts.verbose, "verbose", "V", false, "Enable verbose logging")
	flags.BoolVarP(&opts.showHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args); err != nil {
		return nil, flags, err
	}
	if opts.showHelp {
		return opts, flags, nil
	}
	if flags.NArg() != 1 {
		return nil, flags, errors.New("exactly one document URL or file path is required")
	}
	if opts.format != "text" && opts.format != "json" {
		return nil, flags, fmt.Errorf("unsupported format: %s", opts.format)
	}
	opts.source = flags.Arg(0)
	return opts, flags, nil
}

func printUsage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "kv_extract - extract key-value entities from a document analysis result")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  kv_extract [options] <url|file.json>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprint(w, flags.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  kv_extract result.json")
	fmt.Fprintln(w, "  kv_extract --left --format=json https://analysis.example.com/result")
}

func loadDocument(ctx context.Context, opts *options) (*document.Document, error) {
	if strings.HasPrefix(opts.source, "http://") || strings.HasPrefix(opts.source, "https://") {
		client := fetch.NewClient(fetch.WithTimeout(opts.timeout), fetch.WithMaxDocumentSize(opts.maxSize))
		return client.Fetch(ctx, opts.source)
	}

	f, err := os.Open(opts.source)
	if err != nil {
		return nil, fmt.Errorf("cannot open document: %w", err)
	}
	defer f.Close()
	return document.DecodeReader(f, opts.maxSize)
}

func run(ctx context.Context, opts *options, out io.Writer, logger zerolog.Logger) error {
	doc, err := loadDocument(ctx, opts)
	if errors.Is(err, document.ErrNotObject) {
		logger.Warn().Str("source", opts.source).Msg("source is not a JSON object")
	} else if err != nil {
		return err
	}

	rep := report{
		Source:   opts.source,
		Pairs:    doc.Len(),
		Entities: entities.Extract(doc),
	}
	logger.Debug().Int("pairs", rep.Pairs).Int("entities", rep.Entities.Len()).Msg("extracted entities")

	if opts.leftHalf {
		left, err := layout.LeftHalf(doc)
		if err != nil {
			return err
		}
		rep.LeftHalf = left
		if pivot, err := layout.Pivot(doc); err == nil {
			rep.Pivot = &pivot
		}
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	writeText(out, rep)
	return nil
}

func writeText(out io.Writer, rep report) {
	fmt.Fprintf(out, "Source: %s\n", rep.Source)
	fmt.Fprintf(out, "Key-value pairs: %d\n\n", rep.Pairs)
	writeEntities(out, "All entities", rep.Entities)

	if rep.LeftHalf != nil {
		fmt.Fprintln(out)
		title := "Left half"
		if rep.Pivot != nil {
			title = fmt.Sprintf("Left half (pivot %g)", *rep.Pivot)
		}
		writeEntities(out, title, rep.LeftHalf)
	}
}

func writeEntities(out io.Writer, title string, result *entities.Entities) {
	fmt.Fprintf(out, "%s (%d):\n", title, result.Len())
	for i, entity := range result.All() {
		fmt.Fprintf(out, "  %d. %s: %s\n", i+1, entity.Key.Name(), entity.ValueOr("<no value>"))
	}
}
