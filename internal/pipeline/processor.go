package pipeline

import (
	"context"
	"fmt"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/extract"
	"github.com/heritagelab/ichcrawl/internal/logger"
	"github.com/heritagelab/ichcrawl/internal/synth"
)

// Processor ties extraction and text synthesis to the gate: it turns one raw
// page into a gate item and runs it through.
type Processor struct {
	extractor *extract.Extractor
	synthOpts synth.Options
	gate      *Gate
	logger    logger.Interface
}

// NewProcessor creates a processor feeding the given gate.
func NewProcessor(gate *Gate, synthOpts synth.Options, log logger.Interface) *Processor {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Processor{
		extractor: extract.NewExtractor(),
		synthOpts: synthOpts,
		gate:      gate,
		logger:    log,
	}
}

// Handle extracts, synthesizes and gates one fetched page. Non-200 responses
// are ignored without touching the dedup index, so a later successful fetch
// of the same URL still goes through.
func (p *Processor) Handle(ctx context.Context, raw *domain.RawPage) error {
	if raw.Status != 0 && raw.Status != 200 {
		p.logger.Debug("Skipping non-200 response", "url", raw.URL, "status", raw.Status)
		return nil
	}

	page, err := p.extractor.Extract(*raw)
	if err != nil {
		return fmt.Errorf("failed to extract page: %w", err)
	}

	text, _ := synth.Compose(page.Meta, page.Bearers, page.Paragraphs, p.synthOpts)

	// TextLines is left empty: the synthesized text already folds in the
	// paragraphs, and the gate would prefer the line list over it.
	item := &Item{
		URL:         raw.URL,
		FetchedAt:   raw.FetchedAt,
		Status:      raw.Status,
		ContentType: raw.ContentType,
		Title:       page.Title,
		Text:        text,
		RawHTML:     raw.HTML,
		Meta:        page.Meta,
		Bearers:     page.Bearers,
	}

	outcome, err := p.gate.Process(ctx, item)
	if err != nil {
		return err
	}

	p.logger.Debug("Gate outcome", "url", raw.URL, "outcome", string(outcome))

	return nil
}

// Stats exposes the underlying gate's counters.
func (p *Processor) Stats() *Stats {
	return p.gate.Stats()
}
