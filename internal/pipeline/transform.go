package pipeline

import (
	"context"
	"fmt"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// OSDTransformer implements Transformer using the domain OSD parser.
type OSDTransformer struct{}

func NewTransformer() *OSDTransformer {
	return &OSDTransformer{}
}

func (t *OSDTransformer) Transform(_ context.Context, raw RawFile) (soil.SeriesRecord, error) {
	rec, err := soil.ParseOSD(raw.Data)
	if err != nil {
		return soil.SeriesRecord{}, fmt.Errorf("parse %s: %w", raw.Path, err)
	}
	return soil.EnrichSeriesRecord(rec), nil
}
