package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/stwalsh4118/mlsreport/internal/config"
	"github.com/stwalsh4118/mlsreport/internal/logger"
	"github.com/stwalsh4118/mlsreport/internal/metrics"
	"github.com/stwalsh4118/mlsreport/internal/pdftext"
	"github.com/stwalsh4118/mlsreport/internal/pipeline"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("mlsreport", pflag.ExitOnError)
	strict := flags.Bool("strict", false, "fail reports on the first validation error")
	metricsFile := flags.String("metrics-file", "", "write Prometheus metrics in text format to this file")
	includeText := flags.Bool("raw-text", false, "include extracted text in the output")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mlsreport [flags] FILE...\n\nFILE may be a PDF or a plain-text MLS report.\n\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	// Load configuration from .env, config file and environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if flags.Changed("strict") {
		cfg.Pipeline.Strict = *strict
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	log.Info("Starting mlsreport", map[string]interface{}{
		"version":     version,
		"environment": cfg.App.Env,
		"market_city": cfg.Pipeline.MarketCity,
		"strict":      cfg.Pipeline.Strict,
		"files":       flags.NArg(),
	})

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatal("Failed to register metrics", err, nil)
	}

	docs, err := readDocuments(flags.Args())
	if err != nil {
		log.Error("Failed to read input", err, nil)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := pipeline.NewService(cfg, log, pipeline.WithMetrics(m))
	results, batchErr := svc.ProcessBatch(ctx, docs)
	if batchErr != nil {
		log.Warn("Processing interrupted", map[string]interface{}{"error": batchErr.Error()})
	}

	failed := 0
	for i := range results {
		if !results[i].Success {
			failed++
		}
		if !*includeText {
			results[i].RawText = ""
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		log.Error("Failed to write results", err, nil)
		return 1
	}

	if *metricsFile != "" {
		if err := prometheus.WriteToTextfile(*metricsFile, reg); err != nil {
			log.Error("Failed to write metrics", err, map[string]interface{}{"path": *metricsFile})
		}
	}

	log.Info("Finished", map[string]interface{}{
		"processed": len(results),
		"failed":    failed,
	})

	if failed > 0 || batchErr != nil {
		return 1
	}
	return 0
}

// readDocuments loads each path, routing PDF content to text extraction
// and anything else straight to the extractor.
func readDocuments(paths []string) ([]pipeline.Document, error) {
	docs := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		doc := pipeline.Document{Name: filepath.Base(path)}
		if pdftext.IsPDF(data) || filepath.Ext(path) == ".pdf" {
			doc.Data = data
		} else {
			doc.Text = string(data)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
