// Package pipeline converts a tree of Official Series Description text files
// into normalized series records and loads them into one or more sinks: the
// JSON lookup table the API serves from, and optionally a Kafka topic.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// RawFile is one OSD source file pulled from the input tree.
type RawFile struct {
	Path string
	Data []byte
}

// Extractor enumerates the OSD source files to convert.
type Extractor interface {
	Extract(ctx context.Context) ([]RawFile, error)
}

// Transformer converts one raw OSD file into a series record.
type Transformer interface {
	Transform(ctx context.Context, raw RawFile) (soil.SeriesRecord, error)
}

// BatchLoader writes converted records to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []soil.SeriesRecord) error
}

// Summary reports the outcome of one conversion run.
type Summary struct {
	Files     int
	Converted int
	Failed    int
	Elapsed   time.Duration
}

// Pipeline orchestrates the extract-transform-load conversion run.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int
}

// New creates a Pipeline with the given stages and observability. Records
// are loaded into every loader; a batch that fails any loader fails the run.
func New(e Extractor, t Transformer, loaders []BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize < 1 {
		batchSize = 100
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Run executes one conversion pass over the input tree. Files that fail to
// parse are logged and skipped; the run only errors when extraction or
// loading fails outright.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	p.metrics.ConverterRunning.Set(1)
	defer p.metrics.ConverterRunning.Set(0)

	files, err := p.extractor.Extract(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("extract: %w", err)
	}
	p.logger.Info("conversion started", "files", len(files), "batch_size", p.batchSize)

	summary := Summary{Files: len(files)}
	batch := make([]soil.SeriesRecord, 0, p.batchSize)

	for _, raw := range files {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		rec, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("parse failed, skipping file", "path", raw.Path, "error", err)
			p.metrics.ParseErrors.Inc()
			summary.Failed++
			continue
		}
		p.metrics.FilesConverted.Inc()
		summary.Converted++

		batch = append(batch, rec)
		if len(batch) >= p.batchSize {
			if err := p.loadBatch(ctx, batch); err != nil {
				return summary, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := p.loadBatch(ctx, batch); err != nil {
			return summary, err
		}
	}

	summary.Elapsed = time.Since(start)
	p.metrics.ConvertDuration.Observe(summary.Elapsed.Seconds())
	p.logger.Info("conversion finished",
		"files", summary.Files,
		"converted", summary.Converted,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

func (p *Pipeline) loadBatch(ctx context.Context, batch []soil.SeriesRecord) error {
	for _, loader := range p.loaders {
		if err := loader.LoadBatch(ctx, batch); err != nil {
			return fmt.Errorf("load batch: %w", err)
		}
	}
	p.metrics.RecordsPublished.Add(float64(len(batch)))
	return nil
}
