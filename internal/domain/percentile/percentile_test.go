package percentile_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/percentile"
	. "github.com/smartystreets/goconvey/convey"
)

func radarAthlete(name, role string, vals ...float64) model.AthleteRecord {
	stats := make(map[string]float64, len(model.DefaultRadarFeatures))
	for i, f := range model.DefaultRadarFeatures {
		stats[f] = vals[i%len(vals)]
	}
	return model.AthleteRecord{Name: name, Role: role, Stats: stats}
}

func radarDataset(t *testing.T, athletes ...model.AthleteRecord) *model.Dataset {
	cols := make([]model.Column, 0, len(model.DefaultRadarFeatures))
	for _, f := range model.DefaultRadarFeatures {
		cols = append(cols, model.Column{Name: f, Numeric: true})
	}
	ds, err := model.NewDataset(athletes, cols, model.DefaultRadarFeatures)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

func TestPercentileOfScore(t *testing.T) {
	Convey("Given a distribution", t, func() {
		values := []float64{1, 2, 3, 4}

		Convey("Then the maximum yields 100", func() {
			So(percentile.PercentileOfScore(values, 4), ShouldEqual, 100)
		})

		Convey("Then the minimum reflects its own weight", func() {
			So(percentile.PercentileOfScore(values, 1), ShouldEqual, 25)
		})

		Convey("Then values below everything yield 0", func() {
			So(percentile.PercentileOfScore(values, 0.5), ShouldEqual, 0)
		})

		Convey("Then values above everything are clamped to 100", func() {
			So(percentile.PercentileOfScore(values, 99), ShouldEqual, 100)
		})

		Convey("Then ties count as less than or equal", func() {
			So(percentile.PercentileOfScore([]float64{1, 1, 1, 2}, 1), ShouldEqual, 75)
		})

		Convey("Then fractions round to the nearest integer", func() {
			So(percentile.PercentileOfScore([]float64{1, 2, 3}, 1), ShouldEqual, 33)
			So(percentile.PercentileOfScore([]float64{1, 2, 3}, 2), ShouldEqual, 67)
		})

		Convey("Then a single value is its own maximum", func() {
			So(percentile.PercentileOfScore([]float64{7}, 7), ShouldEqual, 100)
		})

		Convey("Then an empty distribution yields 0", func() {
			So(percentile.PercentileOfScore(nil, 1), ShouldEqual, 0)
		})

		Convey("Then exact halves round up", func() {
			So(percentile.PercentileOfScore(series(40), 23), ShouldEqual, 58)
			So(percentile.PercentileOfScore(series(200), 29), ShouldEqual, 15)
			So(percentile.PercentileOfScore([]float64{1, 2}, 1), ShouldEqual, 50)
		})
	})
}

// series returns 1..n.
func series(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestProfiler_Profile(t *testing.T) {
	Convey("Given a role cohort of four athletes", t, func() {
		ds := radarDataset(t,
			radarAthlete("A", "Winger", 1),
			radarAthlete("B", "Winger", 2),
			radarAthlete("C", "Winger", 3),
			radarAthlete("D", "Winger", 4),
			radarAthlete("X", "Striker", 100),
		)
		p := percentile.NewProfiler()

		Convey("Then the cohort excludes other roles", func() {
			So(len(p.Cohort(ds, "Winger")), ShouldEqual, 4)
		})

		Convey("When profiling the reference and a candidate", func() {
			a, _ := ds.Lookup("A")
			d, _ := ds.Lookup("D")
			profiles := p.Profile(ds, "Winger", []percentile.Subject{
				{Athlete: a, Label: "Base"},
				{Athlete: d, Label: "Pricier"},
			})

			Convey("Then each gets seven aligned integer percentiles", func() {
				So(len(profiles), ShouldEqual, 2)
				So(profiles[0].Label, ShouldEqual, "Base")
				So(profiles[0].Percentiles, ShouldResemble, []int{25, 25, 25, 25, 25, 25, 25})
				So(profiles[1].Percentiles, ShouldResemble, []int{100, 100, 100, 100, 100, 100, 100})
			})

			Convey("Then every percentile is within [0, 100]", func() {
				for _, pr := range profiles {
					for _, v := range pr.Percentiles {
						So(v, ShouldBeBetweenOrEqual, 0, 100)
					}
				}
			})

			Convey("Then the closed polygon repeats the first value", func() {
				closed := profiles[0].Closed()
				So(len(closed), ShouldEqual, 8)
				So(closed[7], ShouldEqual, closed[0])
			})
		})
	})

	Convey("Given a cohort of forty athletes", t, func() {
		athletes := make([]model.AthleteRecord, 0, 40)
		for i, v := range series(40) {
			athletes = append(athletes, radarAthlete(fmt.Sprintf("W%02d", i+1), "Winger", v))
		}
		ds := radarDataset(t, athletes...)
		w, _ := ds.Lookup("W23")
		profiles := percentile.NewProfiler().Profile(ds, "Winger", []percentile.Subject{{Athlete: w, Label: "Base"}})

		Convey("Then a rank of exactly 57.5 rounds up to 58", func() {
			So(len(profiles), ShouldEqual, 1)
			So(profiles[0].Percentiles, ShouldResemble, []int{58, 58, 58, 58, 58, 58, 58})
		})
	})

	Convey("Given an athlete alone in its role", t, func() {
		ds := radarDataset(t, radarAthlete("Solo", "Sweeper", 0.3, 5, 12))
		solo, _ := ds.Lookup("Solo")
		profiles := percentile.NewProfiler().Profile(ds, "Sweeper", []percentile.Subject{{Athlete: solo, Label: "Base"}})

		Convey("Then every percentile is 100", func() {
			So(len(profiles), ShouldEqual, 1)
			So(profiles[0].Percentiles, ShouldResemble, []int{100, 100, 100, 100, 100, 100, 100})
		})
	})

	Convey("Given a subject missing a radar statistic", t, func() {
		gap := radarAthlete("Gap", "Winger", 2)
		gap.Stats["TklW/90"] = math.NaN()
		ds := radarDataset(t, radarAthlete("A", "Winger", 1), gap)
		a, _ := ds.Lookup("A")
		g, _ := ds.Lookup("Gap")
		p := percentile.NewProfiler()
		profiles := p.Profile(ds, "Winger", []percentile.Subject{{Athlete: a, Label: "Base"}, {Athlete: g, Label: "Similar"}})

		Convey("Then it is skipped and left out of the percentile basis", func() {
			So(len(profiles), ShouldEqual, 1)
			So(profiles[0].Name, ShouldEqual, "A")
			So(profiles[0].Percentiles[0], ShouldEqual, 100)
			So(p.Distribution(ds, "Winger").Size(), ShouldEqual, 1)
		})
	})
}
