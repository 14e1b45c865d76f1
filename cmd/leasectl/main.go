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
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joseph-ayodele/lease-analyzer/internal/app"
	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/export"
	"github.com/joseph-ayodele/lease-analyzer/internal/ingest"
	"github.com/joseph-ayodele/lease-analyzer/internal/reasoning"
)

const usage = `usage: leasectl <command> [flags] [args]

commands:
  analyze <file>                       extract and print the document record
  value   [-range] <file>              print a narrative valuation (and a numeric range)
  ask     <file> <persona> <question>  answer a question as neutral or agent
  export  [-format pdf|xlsx] [-value] <file> [out]
                                       write the summary (default: beside the file)
  tables  <file>                       print tables detected in a PDF
  history [-limit N]                   list recent analyses
  watch   [-format pdf|xlsx] [-initial] <dir>
                                       analyze new documents and write their summaries
`

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if len(os.Args) < 2 {
		printError(usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}
	logger := common.NewStderrLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, args, cfg, logger, os.Stdout); err != nil {
		printError("Error: %v\n", err)
		if errors.Is(err, errUsage) {
			printError(usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid arguments")

func run(ctx context.Context, cmd string, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	switch cmd {
	case "analyze":
		return cmdAnalyze(ctx, args, cfg, logger, out)
	case "value":
		return cmdValue(ctx, args, cfg, logger, out)
	case "ask":
		return cmdAsk(ctx, args, cfg, logger, out)
	case "export":
		return cmdExport(ctx, args, cfg, logger, out)
	case "tables":
		return cmdTables(ctx, args, cfg, logger, out)
	case "history":
		return cmdHistory(ctx, args, cfg, logger, out)
	case "watch":
		return cmdWatch(ctx, args, cfg, logger, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string, minArgs int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < minArgs {
		return nil, fmt.Errorf("%w: %s needs %d argument(s)", errUsage, fs.Name(), minArgs)
	}
	return fs.Args(), nil
}

func cmdAnalyze(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	rest, err := parse(newFlags("analyze"), args, 1)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Processor.Analyze(ctx, rest[0])
	if err != nil {
		return err
	}
	printAnalysis(out, res)
	return nil
}

func cmdValue(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	fs := newFlags("value")
	withRange := fs.Bool("range", false, "also ask for a numeric low/mid/high range")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{ReuseHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Processor.Analyze(ctx, rest[0]); err != nil {
		return err
	}
	narrative, err := a.Processor.Estimate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, narrative)
	if *withRange {
		rng, err := a.Processor.EstimateRange(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nEstimated Value Range: %s\n", rng)
	}
	return nil
}

func cmdAsk(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	rest, err := parse(newFlags("ask"), args, 3)
	if err != nil {
		return err
	}
	persona, err := reasoning.ParsePersona(rest[1])
	if err != nil {
		return err
	}
	question := strings.Join(rest[2:], " ")

	a, err := app.New(ctx, cfg, logger, app.Options{ReuseHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Processor.Analyze(ctx, rest[0]); err != nil {
		return err
	}
	ex, err := a.Processor.Ask(ctx, question, persona)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", ex.Persona.DisplayName(), ex.Answer)
	return nil
}

func cmdExport(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	fs := newFlags("export")
	format := fs.String("format", cfg.Export.Format, "pdf or xlsx")
	withValue := fs.Bool("value", false, "include a narrative valuation")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{ReuseHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	path := rest[0]
	if _, err := a.Processor.Analyze(ctx, path); err != nil {
		return err
	}
	if *withValue {
		if _, err := a.Processor.Estimate(ctx); err != nil {
			return err
		}
	}
	payload, err := a.Processor.Export(ctx, *format)
	if err != nil {
		return err
	}
	dest := besidePath(path, payload)
	if len(rest) > 1 {
		dest = rest[1]
	}
	if err := writePayload(dest, payload); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s (%d bytes)\n", dest, len(payload.Data))
	return nil
}

func cmdTables(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	rest, err := parse(newFlags("tables"), args, 1)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{NoHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	tables, err := a.Processor.Tables(ctx, rest[0])
	if err != nil {
		return err
	}
	printTables(out, tables)
	return nil
}

func cmdHistory(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	fs := newFlags("history")
	limit := fs.Int("limit", 20, "number of analyses to list")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.Processor.History(ctx, *limit)
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Fprintf(out, "%s  %s  %-16s  %s\n",
			it.CreatedAt.Local().Format(time.DateTime), it.ID, it.Status, it.Filename)
	}
	return nil
}

func cmdWatch(ctx context.Context, args []string, cfg *common.Config, logger *slog.Logger, out io.Writer) error {
	fs := newFlags("watch")
	format := fs.String("format", cfg.Export.Format, "pdf or xlsx")
	initial := fs.Bool("initial", false, "also analyze documents already in the directory")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{ReuseHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{rest[0]},
		InitialScan: *initial,
		SkipHidden:  true,
		Ignore:      isSummaryFile,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	go func() {
		for err := range errs {
			logger.Warn("watch.error", "error", err)
		}
	}()

	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", rest[0])
	stats := ingest.Consume(ctx, paths, func(ctx context.Context, path string) error {
		if _, err := a.Processor.Analyze(ctx, path); err != nil {
			return err
		}
		payload, err := a.Processor.Export(ctx, *format)
		if err != nil {
			return err
		}
		dest := besidePath(path, payload)
		if err := writePayload(dest, payload); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s -> %s\n", path, dest)
		return nil
	}, logger)
	fmt.Fprintf(out, "processed %d document(s), %d failed\n", stats.Succeeded, stats.Failed)
	return nil
}

// besidePath names the export next to its source: lease.pdf -> lease.lease_summary.pdf.
func besidePath(src string, p export.Payload) string {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(filepath.Dir(src), stem+"."+p.Filename)
}

// isSummaryFile matches the files besidePath produces, so the watcher skips its own output.
func isSummaryFile(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(base, "_summary")
}

func writePayload(dest string, p export.Payload) error {
	if err := os.WriteFile(dest, p.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
