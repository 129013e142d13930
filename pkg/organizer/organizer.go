package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gavinmcnair/datesort/pkg/config"
	"github.com/gavinmcnair/datesort/pkg/dateutil"
	"github.com/gavinmcnair/datesort/pkg/imagedup"
	"github.com/gavinmcnair/datesort/pkg/media"
	"github.com/gavinmcnair/datesort/pkg/placer"
	"github.com/rs/zerolog"
)

// Resolver picks the date bucket for a file.
type Resolver interface {
	Resolve(path string, kind media.Kind) dateutil.Resolved
}

// Placer moves a file into root/bucket.
type Placer interface {
	Place(src, bucket, root string) (string, error)
}

// State is the final state of a processed file.
type State string

const (
	StatePlaced    State = "placed"
	StatePlanned   State = "planned"
	StateDuplicate State = "duplicate"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
)

// Outcome records what happened to one file.
type Outcome struct {
	Entry  media.Entry
	Date   dateutil.Resolved
	Target string
	State  State
	Err    error
}

// Organizer sorts the files of a directory into date buckets.
type Organizer struct {
	classifier media.Classifier
	resolver   Resolver
	placer     Placer
	dryRun     bool
	log        zerolog.Logger
}

// New constructs an Organizer from explicit collaborators.
func New(log zerolog.Logger, classifier media.Classifier, resolver Resolver, p Placer, dryRun bool) *Organizer {
	return &Organizer{
		classifier: classifier,
		resolver:   resolver,
		placer:     p,
		dryRun:     dryRun,
		log:        log,
	}
}

// NewFromConfig wires the default EXIF/MP4 resolver, the placer and, when
// enabled, duplicate detection.
func NewFromConfig(cfg *config.Config, log zerolog.Logger) *Organizer {
	var dup placer.DuplicateFunc
	if cfg.Dedupe.Enabled {
		dup = imagedup.New(log, cfg.Dedupe.MaxDistance).Same
	}
	return New(
		log,
		media.NewClassifier(cfg.Media.ImageExtensions, cfg.Media.VideoExtensions),
		dateutil.NewResolver(log, cfg.Organize.FilenameDates),
		placer.New(log, cfg.Organize.DryRun, dup),
		cfg.Organize.DryRun,
	)
}

// Run processes the immediate children of root in name order. The context
// is checked between files.
func (o *Organizer) Run(ctx context.Context, root string) (*Summary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", root, err)
	}

	summary := NewSummary()
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		o.log.Info().Str("file", de.Name()).Msg("reading")
		if !de.Type().IsRegular() {
			summary.Ignored++
			continue
		}

		summary.Add(o.Process(root, de.Name()))
	}
	return summary, nil
}

// Process handles a single regular file inside root.
func (o *Organizer) Process(root, name string) Outcome {
	path := filepath.Join(root, name)
	entry := o.classifier.Entry(path)
	out := Outcome{Entry: entry}

	if entry.Kind == media.Unsupported {
		out.State = StateSkipped
		o.log.Debug().Str("file", name).Msg("unsupported extension, skipping")
		return out
	}

	out.Date = o.resolver.Resolve(path, entry.Kind)
	logger := o.log.With().
		Str("file", name).
		Str("kind", string(entry.Kind)).
		Str("date", out.Date.Date).
		Str("source", string(out.Date.Source)).
		Logger()

	target, err := o.placer.Place(path, out.Date.Date, root)
	out.Target = target
	switch {
	case errors.Is(err, placer.ErrDuplicate):
		out.State = StateDuplicate
		logger.Info().Str("existing", relative(root, target)).Msg("duplicate, left in place")
	case err != nil:
		out.State = StateFailed
		out.Err = err
		logger.Error().Err(err).Msg("move failed")
	case o.dryRun:
		out.State = StatePlanned
		logger.Info().Str("to", relative(root, target)).Msg("would move")
	default:
		out.State = StatePlaced
		logger.Info().Str("to", relative(root, target)).Msg("moved")
	}
	return out
}

func relative(root, path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
