// Package chart renders recommendation results for people: a percentile
// radar as SVG and a plain-text profile summary.
package chart

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/percentile"
)

// Palette colours series by label: reference, cheaper, similar, pricier.
var Palette = []string{"#1A78CF", "#FF7F0E", "#2CA02C", "#D62728"}

// Ticks are the labelled percentile rings.
var Ticks = []int{20, 40, 60, 80, 100}

// Title is drawn above the radar.
const Title = "Role percentile comparison"

// Errors returned by RenderRadar.
var (
	ErrNoAxes       = errors.New("radar needs at least 3 axes")
	ErrAxisMismatch = errors.New("profile does not match axis count")
)

// Radar geometry, in SVG user units.
const (
	width   = 720.0
	height  = 640.0
	centerX = 300.0
	centerY = 340.0
	radius  = 220.0
	fillOp  = 0.1
)

// RenderRadar writes an SVG polar chart with one closed polygon per profile.
// Axes are spaced evenly, clockwise from the top.
func RenderRadar(w io.Writer, axes []string, profiles []percentile.Profile) error {
	if len(axes) < 3 {
		return ErrNoAxes
	}
	for _, p := range profiles {
		if len(p.Percentiles) != len(axes) {
			return fmt.Errorf("%w: %s has %d values, want %d", ErrAxisMismatch, p.Name, len(p.Percentiles), len(axes))
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif" font-size="12">`+"\n",
		width, height, width, height)
	fmt.Fprintf(bw, `<text x="%.0f" y="32" text-anchor="middle" font-size="16">%s</text>`+"\n", centerX, Title)

	// grid
	for _, tick := range Ticks {
		fmt.Fprintf(bw, `<polygon points="%s" fill="none" stroke="#cccccc" stroke-width="1"/>`+"\n", ring(len(axes), tick))
		_, y := point(0, len(axes), float64(tick))
		fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" fill="#666666" font-size="10">%d</text>`+"\n", centerX+4, y-2, tick)
	}
	for i, label := range axes {
		x, y := point(i, len(axes), 100)
		fmt.Fprintf(bw, `<line x1="%.0f" y1="%.0f" x2="%.1f" y2="%.1f" stroke="#cccccc" stroke-width="1"/>`+"\n", centerX, centerY, x, y)
		lx, ly := point(i, len(axes), 112)
		fmt.Fprintf(bw, `<text x="%.1f" y="%.1f" text-anchor="%s" dominant-baseline="middle">%s</text>`+"\n",
			lx, ly, anchor(lx), html.EscapeString(label))
	}

	for i, p := range profiles {
		color := seriesColor(p.Label, i)
		fmt.Fprintf(bw, `<polygon class="series" points="%s" fill="%s" fill-opacity="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			polygon(p.Closed(), len(axes)), color, fillOp, color)
		ly := 60.0 + float64(i)*22
		fmt.Fprintf(bw, `<rect x="560" y="%.0f" width="14" height="14" fill="%s"/>`+"\n", ly-11, color)
		fmt.Fprintf(bw, `<text x="580" y="%.0f">%s (%s)</text>`+"\n", ly, html.EscapeString(p.Name), html.EscapeString(p.Label))
	}

	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}

// seriesColor returns the palette entry for a profile label. Unknown
// labels fall back to the series position.
func seriesColor(label string, i int) string {
	switch label {
	case ReferenceLabel:
		return Palette[0]
	case model.BucketCheaper.Label():
		return Palette[1]
	case model.BucketSimilar.Label():
		return Palette[2]
	case model.BucketPricier.Label():
		return Palette[3]
	default:
		return Palette[i%len(Palette)]
	}
}

// point maps a percentile on axis i of n to SVG coordinates.
func point(i, n int, pct float64) (float64, float64) {
	theta := 2 * math.Pi * float64(i) / float64(n)
	r := radius * pct / 100
	return centerX + r*math.Sin(theta), centerY - r*math.Cos(theta)
}

func ring(n int, pct int) string {
	pts := make([]int, n+1)
	for i := range pts {
		pts[i] = pct
	}
	return polygon(pts, n)
}

// polygon formats a closed series (first value repeated last) over n axes.
func polygon(closed []int, n int) string {
	parts := make([]string, 0, len(closed))
	for i, v := range closed {
		x, y := point(i%n, n, float64(v))
		parts = append(parts, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	return strings.Join(parts, " ")
}

func anchor(x float64) string {
	switch {
	case x < centerX-1:
		return "end"
	case x > centerX+1:
		return "start"
	default:
		return "middle"
	}
}
