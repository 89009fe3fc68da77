package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "fundalloc/internal/errors"
	"fundalloc/internal/infrastructure"
	"fundalloc/pkg/contracts/domain"
)

// JoinPolicy selects which instruments a comparison reports.
type JoinPolicy string

const (
	// JoinInner reports only instruments held in both snapshots.
	JoinInner JoinPolicy = "inner"
	// JoinOuter also reports instruments added or removed between snapshots.
	JoinOuter JoinPolicy = "outer"
)

// DuplicatePolicy selects how repeated instrument names within one table are matched.
type DuplicatePolicy string

const (
	// DuplicatesKeep pairs every occurrence with every occurrence, like a relational join.
	DuplicatesKeep DuplicatePolicy = "keep"
	// DuplicatesFirst keeps only the first occurrence of a name in each table.
	DuplicatesFirst DuplicatePolicy = "first"
)

// ParseJoinPolicy validates a join policy name.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch p := JoinPolicy(s); p {
	case JoinInner, JoinOuter:
		return p, nil
	case "":
		return JoinInner, nil
	}
	return "", fmt.Errorf("unknown join policy %q", s)
}

// ParseDuplicatePolicy validates a duplicate policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case DuplicatesKeep, DuplicatesFirst:
		return p, nil
	case "":
		return DuplicatesKeep, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q", s)
}

// DiffOptions configures a comparison. The zero value is an inner join keeping duplicates.
type DiffOptions struct {
	Join       JoinPolicy
	Duplicates DuplicatePolicy
}

// Diff computes per-instrument changes from previous to current.
//
// Records follow the current table's row order; for a repeated name the
// matching previous rows follow the previous table's order. With JoinOuter,
// added instruments come after all matched rows in current order, then removed
// instruments in previous order.
func Diff(previous, current *domain.DisclosureTable, opts DiffOptions) (domain.ChangeSet, error) {
	if previous == nil || current == nil {
		return nil, apperrors.NewDiffError("cannot compare a missing table", nil)
	}

	join, err := ParseJoinPolicy(string(opts.Join))
	if err != nil {
		return nil, apperrors.NewDiffError("invalid comparison options", err)
	}
	dups, err := ParseDuplicatePolicy(string(opts.Duplicates))
	if err != nil {
		return nil, apperrors.NewDiffError("invalid comparison options", err)
	}

	prevRows := previous.Rows
	curRows := current.Rows
	if dups == DuplicatesFirst {
		prevRows = firstOccurrences(prevRows)
		curRows = firstOccurrences(curRows)
	}

	prevRef := domain.SnapshotRef{Source: previous.Source, Date: previous.Date}
	curRef := domain.SnapshotRef{Source: current.Source, Date: current.Date}

	byName := make(map[string][]int, len(prevRows))
	for i, r := range prevRows {
		byName[r.Instrument] = append(byName[r.Instrument], i)
	}

	var changes domain.ChangeSet
	var added domain.ChangeSet
	matched := make([]bool, len(prevRows))

	for _, cur := range curRows {
		idxs, ok := byName[cur.Instrument]
		if !ok {
			if join == JoinOuter {
				added = append(added, domain.ChangeRecord{
					Instrument:         cur.Instrument,
					ISIN:               cur.ISIN,
					QuantityChange:     cur.Quantity,
					MarketValueChange:  cur.MarketValue,
					PercentToNAVChange: cur.PercentToNAV,
					Kind:               domain.ChangeKindAdded,
					Previous:           prevRef,
					Current:            curRef,
				})
			}
			continue
		}

		for _, i := range idxs {
			prev := prevRows[i]
			matched[i] = true
			changes = append(changes, domain.ChangeRecord{
				Instrument:         cur.Instrument,
				ISIN:               cur.ISIN,
				QuantityChange:     cur.Quantity.Sub(prev.Quantity),
				MarketValueChange:  cur.MarketValue.Sub(prev.MarketValue),
				PercentToNAVChange: cur.PercentToNAV.Sub(prev.PercentToNAV),
				Kind:               domain.ChangeKindChanged,
				Previous:           prevRef,
				Current:            curRef,
			})
		}
	}

	if join == JoinInner {
		return changes, nil
	}

	changes = append(changes, added...)
	for i, prev := range prevRows {
		if matched[i] {
			continue
		}
		changes = append(changes, domain.ChangeRecord{
			Instrument:         prev.Instrument,
			ISIN:               prev.ISIN,
			QuantityChange:     prev.Quantity.Neg(),
			MarketValueChange:  prev.MarketValue.Neg(),
			PercentToNAVChange: prev.PercentToNAV.Neg(),
			Kind:               domain.ChangeKindRemoved,
			Previous:           prevRef,
			Current:            curRef,
		})
	}

	return changes, nil
}

func firstOccurrences(rows []domain.DisclosureRow) []domain.DisclosureRow {
	seen := make(map[string]bool, len(rows))
	out := make([]domain.DisclosureRow, 0, len(rows))
	for _, r := range rows {
		if seen[r.Instrument] {
			continue
		}
		seen[r.Instrument] = true
		out = append(out, r)
	}
	return out
}

// Differ wraps Diff with logging and tracing.
type Differ struct {
	opts   DiffOptions
	logger *slog.Logger
	tracer trace.Tracer
}

// NewDiffer creates a differ; a nil logger uses the global one.
func NewDiffer(opts DiffOptions, logger *slog.Logger) *Differ {
	return &Differ{
		opts:   opts,
		logger: infrastructure.WithComponent(logger, "differ"),
		tracer: otel.Tracer(infrastructure.MeterName),
	}
}

// Compare computes the change set between two loaded disclosures.
func (d *Differ) Compare(ctx context.Context, previous, current *domain.DisclosureTable) (domain.ChangeSet, error) {
	ctx, span := d.tracer.Start(ctx, "diff", trace.WithAttributes(
		attribute.String("join", string(d.opts.Join)),
		attribute.String("duplicates", string(d.opts.Duplicates)),
	))
	defer span.End()

	changes, err := Diff(previous, current, d.opts)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	if d.opts.Duplicates != DuplicatesFirst {
		if n := len(current.Duplicates()) + len(previous.Duplicates()); n > 0 {
			d.logger.WarnContext(ctx, "duplicate instrument names multiply matched rows",
				slog.String("previous", previous.Source),
				slog.String("current", current.Source),
				slog.Int("duplicate_names", n))
		}
	}

	span.SetAttributes(attribute.Int("changes", len(changes)))
	d.logger.DebugContext(ctx, "changes calculated",
		slog.String("previous", previous.Source),
		slog.String("current", current.Source),
		slog.Int("changes", len(changes)))

	return changes, nil
}
