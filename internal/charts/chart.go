package charts

import (
	"context"
	"errors"
	"fmt"

	"fundalloc/internal/config"
	"fundalloc/internal/dataprocessing"
	apperrors "fundalloc/internal/errors"
	"fundalloc/pkg/contracts/domain"
)

// Bar is one ranked instrument.
type Bar struct {
	Label   string
	Value   float64
	Missing bool // the delta could not be computed; Value is 0
}

// ChartData is a ranked horizontal bar chart, rank 1 first.
type ChartData struct {
	Title  string
	XLabel string
	YLabel string
	Bars   []Bar
}

// Renderer draws a chart to some output.
type Renderer interface {
	Name() string
	Render(ctx context.Context, data ChartData) error
}

// BuildChartData ranks set by market value change and keeps the top n.
func BuildChartData(set domain.ChangeSet, n int) ChartData {
	top := dataprocessing.TopChanges(set, n)

	bars := make([]Bar, len(top))
	for i, r := range top {
		v, ok := r.MarketValueChange.Float64()
		bars[i] = Bar{Label: r.Instrument, Value: v, Missing: !ok}
	}

	return ChartData{
		Title:  config.ChartTitle,
		XLabel: config.ChartXLabel,
		YLabel: config.ChartYLabel,
		Bars:   bars,
	}
}

// MaxAbs returns the largest absolute bar value, 0 for an empty chart.
func (d ChartData) MaxAbs() float64 {
	var m float64
	for _, b := range d.Bars {
		v := b.Value
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// HasNegative reports whether any bar extends left of the axis.
func (d ChartData) HasNegative() bool {
	for _, b := range d.Bars {
		if b.Value < 0 {
			return true
		}
	}
	return false
}

// Visualize ranks set and draws it with every renderer. Renderer failures,
// including panics, are collected into a single RenderFailure error.
func Visualize(ctx context.Context, set domain.ChangeSet, n int, renderers ...Renderer) error {
	data := BuildChartData(set, n)

	var errs []error
	var failed []string
	for _, r := range renderers {
		if err := renderSafely(ctx, r, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			failed = append(failed, r.Name())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return apperrors.NewRenderError("failed to visualize changes", errors.Join(errs...)).
		WithContext("renderers", failed)
}

func renderSafely(ctx context.Context, r Renderer, data ChartData) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("renderer panicked: %v", p)
		}
	}()
	return r.Render(ctx, data)
}
