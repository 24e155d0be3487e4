package chart

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/scout/internal/domain/model"
)

// ReferenceLabel is the display label of the reference athlete.
const ReferenceLabel = "Base"

// summaryStats are the reference statistics listed in the summary.
var summaryStats = []struct{ label, stat string }{
	{"xG", "npxG/90"},
	{"xA", "xA/90"},
	{"Key Passes", "KeyPass/90"},
	{"PassCmp%", "PassCmp%"},
}

// WriteSummary writes the text profile of the reference followed by one
// block per suggested replacement.
func WriteSummary(w io.Writer, res model.RecommendationResult) error {
	bw := bufio.NewWriter(w)
	ref := res.Reference

	fmt.Fprintf(bw, "Profile: %s\n", ref.Name)
	fmt.Fprintf(bw, "- Role: %s\n", ref.Role)
	fmt.Fprintf(bw, "- Market value: %s\n", marketValue(ref.MarketValue))
	fmt.Fprintln(bw, "- Key stats:")
	for _, s := range summaryStats {
		fmt.Fprintf(bw, "  - %s: %s\n", s.label, stat(ref, s.stat))
	}
	if res.PriorityStat != "" {
		fmt.Fprintf(bw, "- Priority: %s\n", res.PriorityStat)
	}

	fmt.Fprintf(bw, "\nSuggested replacements for %s (%s)\n", ref.Name, ref.Role)
	if len(res.Candidates) == 0 {
		fmt.Fprintln(bw, "No replacements found.")
	}
	for _, c := range res.Candidates {
		a := c.Athlete
		fmt.Fprintf(bw, "%s: %s (%s)\n", c.Bucket.Label(), a.Name, marketValue(a.MarketValue))
		fmt.Fprintf(bw, "  xG: %s, xA: %s, Key Passes: %s\n",
			stat(a, "npxG/90"), stat(a, "xA/90"), stat(a, "KeyPass/90"))
	}
	return bw.Flush()
}

// FormatEUR formats a whole-euro amount with thousands separators, e.g.
// €80,000,000. Cents are truncated.
func FormatEUR(v decimal.Decimal) string {
	digits := v.Truncate(0).Abs().String()
	var b strings.Builder
	if v.Truncate(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("€")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func marketValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return "unknown"
	}
	return FormatEUR(v.Decimal)
}

func stat(a model.AthleteRecord, name string) string {
	v, ok := a.Stat(name)
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
