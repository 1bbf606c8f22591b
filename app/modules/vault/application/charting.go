package vaultservice

import (
	"bytes"
	"slices"
	"time"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colours a balance chart.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

var DefaultChartPalette = ChartPalette{
	Background:  drawing.ColorFromHex("0f1a14"),
	PrimaryLine: drawing.ColorFromHex("3fa66b"),
	AccentLine:  drawing.ColorFromHex("d4a73a"),
	TextColor:   drawing.ColorFromHex("e8efe9"),
}

// GenerateBalanceChart renders a PNG line chart of the balance after each
// entry. entries may be in any order.
func GenerateBalanceChart(entries []vaultdomain.Entry, palette ChartPalette) ([]byte, error) {
	if len(entries) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b vaultdomain.Entry) int { return a.CreatedAt.Compare(b.CreatedAt) })

	// The opening point is the balance before the first charted entry.
	first := sorted[0]
	xValues := make([]time.Time, 0, len(sorted)+1)
	yValues := make([]float64, 0, len(sorted)+1)
	xValues = append(xValues, first.CreatedAt.Add(-time.Minute))
	yValues = append(yValues, centsToDollars(first.BalanceAfterCents-first.AmountCents))

	for _, e := range sorted {
		xValues = append(xValues, e.CreatedAt)
		yValues = append(yValues, centsToDollars(e.BalanceAfterCents))
	}

	balance := chart.TimeSeries{
		Name:    "Balance",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Balance ($)",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		Series: []chart.Series{balance},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws a flat baseline with a message. go-chart
// refuses to render without a visible series, so the baseline carries a
// fixed range.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No ledger activity yet"
	)

	now := time.Now().UTC()
	baseline := chart.TimeSeries{
		XValues: []time.Time{now.Add(-24 * time.Hour), now},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine.WithAlpha(64),
			StrokeWidth: 1,
		},
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Hidden()},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{baseline},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func centsToDollars(cents int64) float64 { return float64(cents) / 100 }
