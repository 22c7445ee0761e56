// Command evaluate computes the physiological and training load report for an
// input TOML file, optionally saving the result to a journal file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/2beens/physiometrics/internal/logging"
	"github.com/2beens/physiometrics/internal/physio/analysis"
	"github.com/2beens/physiometrics/internal/physio/journal"
	"github.com/2beens/physiometrics/internal/telemetry/metrics"
	"github.com/2beens/physiometrics/pkg"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	inputPath := flag.String("input", "", "path to the input TOML file")
	journalPath := flag.String("journal", "", "journal file; when set, the result is appended to it")
	history := flag.String("history", "", "print the journal history of this user and exit")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{LogLevel: *logLevel})

	if err := run(context.Background(), os.Stdout, *inputPath, *journalPath, *history); err != nil {
		fmt.Fprintf(os.Stderr, "evaluate: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, inputPath, journalPath, history string) error {
	metricsManager := metrics.NewManager("physio", "cli", prometheus.NewRegistry())

	var store journal.Store
	if journalPath != "" {
		fileStore, err := journal.NewFileStore(journalPath, metricsManager.CounterJournalSkippedLines)
		if err != nil {
			return err
		}
		store = fileStore
	}
	svc := analysis.NewService(store, metricsManager)

	if history != "" {
		records, err := svc.History(ctx, history)
		if err != nil {
			return err
		}
		return printHistory(out, analysis.NewHistoryResponse(history, records))
	}

	if inputPath == "" {
		return errors.New("-input is required")
	}

	exists, err := pkg.PathExists(inputPath, false)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("input file %s not found", inputPath)
	}

	var req analysis.EvaluateRequest
	if _, err := toml.DecodeFile(inputPath, &req); err != nil {
		return fmt.Errorf("decode input %s: %w", inputPath, err)
	}
	in, err := req.Input()
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	report := svc.Evaluate(ctx, in)
	if err := printReport(out, report); err != nil {
		return err
	}

	if store == nil {
		return nil
	}
	if _, err := svc.Save(ctx, report); err != nil {
		// the report is already printed, only the journal entry is lost
		log.Errorf("save result: %s", err)
		_, _ = fmt.Fprintf(out, "\nresult NOT saved: %s\n", err)
		return nil
	}
	_, err = fmt.Fprintf(out, "\nresult saved to %s\n", journalPath)
	return err
}
