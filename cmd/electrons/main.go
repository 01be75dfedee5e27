// Command electrons runs the electron filler over a JSON-lines event file,
// stores the produced collections in SQLite and prints a run summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/banshee-data/egamma.report/internal/config"
	"github.com/banshee-data/egamma.report/internal/egamma/isolation"
	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/banshee-data/egamma.report/internal/filler"
	"github.com/banshee-data/egamma.report/internal/monitoring"
	"github.com/banshee-data/egamma.report/internal/report"
	"github.com/banshee-data/egamma.report/internal/storage/sqlite"
	"github.com/banshee-data/egamma.report/internal/version"
)

type options struct {
	configPath string
	inputPath  string
	dbPath     string
	plotDir    string
	htmlPath   string
	keepGoing  bool
	verbose    bool
	trace      bool
}

func main() {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", config.DefaultConfigPath, "path to the run configuration (.json or .yaml)")
	flag.StringVar(&opts.inputPath, "input", "", "JSON-lines event file")
	flag.StringVar(&opts.dbPath, "db", "electrons.db", "path to sqlite db")
	flag.StringVar(&opts.plotDir, "plots", "", "directory for histogram PNGs (disabled when empty)")
	flag.StringVar(&opts.htmlPath, "html", "", "path of the interactive HTML report (disabled when empty)")
	flag.BoolVar(&opts.keepGoing, "keep-going", false, "skip events that fail instead of stopping the run")
	flag.BoolVar(&opts.verbose, "v", false, "log filler configuration")
	flag.BoolVar(&opts.trace, "trace", false, "log per-event filler counts")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("electrons %s\n", version.String())
		return
	}
	if opts.inputPath == "" {
		log.Fatalf("-input must be provided")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("electrons: %v", err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	var diag, trace io.Writer
	if opts.verbose {
		diag = os.Stderr
	}
	if opts.trace {
		trace = os.Stderr
	}
	filler.SetLogWriters(os.Stderr, diag, trace)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	corr, err := isolation.LoadCorrector(cfg.EffectiveAreaPaths())
	if err != nil {
		return err
	}

	scFiller, err := filler.NewSuperClustersFiller(filler.SuperClustersName)
	if err != nil {
		return err
	}
	elFiller, err := filler.NewElectronsFiller("electrons", filler.NewElectronsConfig(cfg, corr))
	if err != nil {
		return err
	}
	producer, err := filler.NewProducer(scFiller, elFiller)
	if err != nil {
		return err
	}

	src, err := event.OpenSource(opts.inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	store, err := sqlite.Open(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	collector := report.NewCollector()
	var runID string

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		in, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		// The branch selection depends on whether the input is real data,
		// which is only known once the first event is read.
		if runID == "" {
			info := sqlite.RunInfo{
				ConfigPath: opts.configPath,
				InputPath:  opts.inputPath,
				Version:    version.String(),
				UseTrigger: elFiller.UseTrigger(),
			}
			if info.UseTrigger {
				info.HLTFilters = elFiller.HLTFilters()
			}
			if runID, err = store.BeginRun(ctx, info, producer.BranchNames(in.IsRealData)); err != nil {
				return err
			}
		}

		out, err := producer.ProcessEvent(in)
		if err != nil {
			if opts.keepGoing && errors.Is(err, filler.ErrInconsistency) {
				continue
			}
			return err
		}
		if err := store.WriteEvent(ctx, out); err != nil {
			return err
		}
		collector.Add(out)
	}

	processed, aborted := producer.Stats()
	if runID != "" {
		if err := store.EndRun(ctx, processed, aborted); err != nil {
			return err
		}
	}
	monitoring.Logf("read %d events from %s: %d processed, %d aborted", src.Count(), opts.inputPath, processed, aborted)

	summary := collector.Summary()
	fmt.Fprintf(stdout, "run %s\n", runID)
	if err := report.WriteText(stdout, summary); err != nil {
		return err
	}

	if opts.plotDir != "" {
		files, err := report.SavePlots(opts.plotDir, collector)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(stdout, "wrote %s\n", f)
		}
	}
	if opts.htmlPath != "" {
		if err := writeHTML(opts.htmlPath, summary, collector); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s\n", opts.htmlPath)
	}
	return nil
}

func writeHTML(path string, s report.Summary, c *report.Collector) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.RenderHTML(f, s, c); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
