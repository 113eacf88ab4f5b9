// Command osdconvert parses a tree of NRCS Official Series Description text
// files into the JSON lookup table soilapi serves series descriptions from.
// With KAFKA_BROKERS set, each converted record is also published to the
// configured sink topic.
//
// Usage:
//
//	go run ./cmd/osdconvert \
//	  -input data/osd \
//	  -output data/series-table.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkaadapter "github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/kafka"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/config"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	input := flag.String("input", "", "directory tree of OSD .txt files")
	output := flag.String("output", "", "output path for the series lookup table JSON")
	batchSize := flag.Int("batch-size", 100, "records per load batch")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -input, -output")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	table := pipeline.NewTableWriter(*output)
	loaders := []pipeline.BatchLoader{table}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(pipeline.NewDirExtractor(*input), pipeline.NewTransformer(),
		loaders, logger, metrics, *batchSize)

	summary, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := table.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	fmt.Printf("converted %d of %d files (%d failed) in %s\n",
		summary.Converted, summary.Files, summary.Failed, summary.Elapsed.Round(time.Millisecond))
	fmt.Printf("wrote %d series records to %s\n", table.Len(), *output)
	return nil
}
