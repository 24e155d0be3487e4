package ranking_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/ranking"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

// athlete builds a record whose stats are all base except for overrides.
func athlete(name, role string, value float64, base float64, overrides map[string]float64) model.AthleteRecord {
	stats := make(map[string]float64, len(model.DefaultRadarFeatures)+1)
	for _, f := range model.DefaultRadarFeatures {
		stats[f] = base
	}
	stats["Gls/90"] = base
	for k, v := range overrides {
		stats[k] = v
	}
	a := model.AthleteRecord{Name: name, Role: role, Stats: stats}
	if !math.IsNaN(value) {
		a.MarketValue = decimal.NewNullDecimal(decimal.NewFromFloat(value))
	}
	return a
}

func columns() []model.Column {
	cols := []model.Column{{Name: "Player"}, {Name: "PredictedRole"}, {Name: "MarketValueEUR", Numeric: true}}
	for _, f := range model.DefaultRadarFeatures {
		cols = append(cols, model.Column{Name: f, Numeric: true})
	}
	return append(cols, model.Column{Name: "Gls/90", Numeric: true})
}

func dataset(t *testing.T, athletes ...model.AthleteRecord) *model.Dataset {
	ds, err := model.NewDataset(athletes, columns(), model.DefaultRadarFeatures)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

func names(cs []model.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Athlete.Name
	}
	return out
}

func TestDistance(t *testing.T) {
	Convey("Given two feature vectors", t, func() {
		Convey("Then identical vectors have zero distance", func() {
			So(ranking.Distance([]float64{1, 2, 3}, []float64{1, 2, 3}), ShouldEqual, 0)
		})

		Convey("Then distance is Euclidean and symmetric", func() {
			a := []float64{0, 0}
			b := []float64{3, 4}
			So(ranking.Distance(a, b), ShouldEqual, 5)
			So(ranking.Distance(b, a), ShouldEqual, 5)
		})

		Convey("Then distinct vectors have a positive distance", func() {
			So(ranking.Distance([]float64{1, 2}, []float64{1, 2.0001}), ShouldBeGreaterThan, 0)
		})
	})
}

func TestRanker_Cohort(t *testing.T) {
	Convey("Given a dataset with mixed roles and gaps", t, func() {
		ref := athlete("Ref", "Winger", 3e6, 1, nil)
		ds := dataset(t,
			ref,
			athlete("Same", "Winger", 2e6, 1, nil),
			athlete("OtherRole", "Striker", 2e6, 1, nil),
			athlete("NoValue", "Winger", math.NaN(), 1, nil),
			athlete("Gap", "Winger", 2e6, 1, map[string]float64{"Gls/90": math.NaN()}),
		)
		r := ranking.NewRanker()

		Convey("Then only complete same-role athletes other than the reference remain", func() {
			cohort := r.Cohort(ds, ref)
			So(len(cohort), ShouldEqual, 1)
			So(cohort[0].Name, ShouldEqual, "Same")
		})
	})
}

func TestRanker_Recommend(t *testing.T) {
	Convey("Given a Winger cohort valued 1M to 5M and a reference at 3M", t, func() {
		ref := athlete("Ref", "Winger", 3e6, 1, nil)
		ds := dataset(t,
			ref,
			athlete("A1", "Winger", 1e6, 1.5, nil),
			athlete("A2", "Winger", 2e6, 1.1, nil),
			athlete("A3", "Winger", 3e6, 2.0, nil),
			athlete("A4", "Winger", 4e6, 1.2, nil),
			athlete("A5", "Winger", 5e6, 1.05, nil),
		)
		r := ranking.NewRanker()

		res, err := r.Recommend(ds, ref, "")

		Convey("Then one candidate per bucket is returned in bucket order", func() {
			So(err, ShouldBeNil)
			So(res.Metric, ShouldEqual, model.MetricEuclidean)
			So(res.CohortSize, ShouldEqual, 5)
			So(len(res.Candidates), ShouldEqual, 3)
			So(res.Candidates[0].Bucket, ShouldEqual, model.BucketCheaper)
			So(res.Candidates[1].Bucket, ShouldEqual, model.BucketSimilar)
			So(res.Candidates[2].Bucket, ShouldEqual, model.BucketPricier)
		})

		Convey("Then each bucket takes its closest athlete", func() {
			So(names(res.Candidates), ShouldResemble, []string{"A2", "A3", "A5"})
		})

		Convey("Then every candidate satisfies its bucket predicate", func() {
			refValue := ref.MarketValue.Decimal
			lo := decimal.NewFromFloat(2.25e6)
			hi := decimal.NewFromFloat(3.75e6)
			for _, c := range res.Candidates {
				v := c.Athlete.MarketValue.Decimal
				switch c.Bucket {
				case model.BucketCheaper:
					So(v.LessThan(refValue), ShouldBeTrue)
				case model.BucketSimilar:
					So(v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi), ShouldBeTrue)
				case model.BucketPricier:
					So(v.GreaterThan(refValue), ShouldBeTrue)
				}
			}
		})
	})

	Convey("Given the similar bucket boundaries", t, func() {
		r := ranking.NewRanker()
		ref := decimal.NewFromInt(3_000_000)

		Convey("Then values at exactly 25% away are similar", func() {
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(2_250_000), ref), ShouldBeTrue)
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(3_750_000), ref), ShouldBeTrue)
		})

		Convey("Then values just outside are not", func() {
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(2_249_999), ref), ShouldBeFalse)
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(3_750_001), ref), ShouldBeFalse)
		})

		Convey("Then a zero reference requires an exact match", func() {
			So(r.InBucket(model.BucketSimilar, decimal.Zero, decimal.Zero), ShouldBeTrue)
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(1), decimal.Zero), ShouldBeFalse)
		})
	})

	Convey("Given a candidate that fits two buckets", t, func() {
		ref := athlete("Ref", "Winger", 3e6, 1, nil)
		ds := dataset(t,
			ref,
			athlete("Near", "Winger", 2.8e6, 1.01, nil),
			athlete("Far", "Winger", 1e6, 5, nil),
		)
		res, err := ranking.NewRanker().Recommend(ds, ref, "")

		Convey("Then it is selected for both without deduplication", func() {
			So(err, ShouldBeNil)
			So(names(res.Candidates), ShouldResemble, []string{"Near", "Near"})
			So(res.Candidates[0].Bucket, ShouldEqual, model.BucketCheaper)
			So(res.Candidates[1].Bucket, ShouldEqual, model.BucketSimilar)
		})
	})

	Convey("Given a reference whose role is unique", t, func() {
		ref := athlete("Lonely", "Sweeper", 1e6, 1, nil)
		ds := dataset(t, ref, athlete("Other", "Winger", 1e6, 1, nil))
		res, err := ranking.NewRanker().Recommend(ds, ref, "")

		Convey("Then the recommendation list is empty", func() {
			So(err, ShouldBeNil)
			So(res.Candidates, ShouldBeEmpty)
			So(res.CohortSize, ShouldEqual, 0)
		})
	})

	Convey("Given a reference without market value", t, func() {
		ref := athlete("Unknown", "Winger", math.NaN(), 1, nil)
		ds := dataset(t, ref, athlete("Other", "Winger", 1e6, 1, nil))
		res, err := ranking.NewRanker().Recommend(ds, ref, "")

		Convey("Then the result is empty and the error is an InvalidReferenceError", func() {
			So(res.Candidates, ShouldBeEmpty)
			So(errors.Is(err, ranking.ErrInvalidReference), ShouldBeTrue)
			var ire *ranking.InvalidReferenceError
			So(errors.As(err, &ire), ShouldBeTrue)
			So(ire.Reason, ShouldEqual, ranking.ReasonNoMarketValue)
		})
	})

	Convey("Given a reference with a missing feature", t, func() {
		ref := athlete("Partial", "Winger", 1e6, 1, map[string]float64{"xA/90": math.NaN()})
		ds := dataset(t, ref, athlete("Other", "Winger", 1e6, 1, nil))
		_, err := ranking.NewRanker().Recommend(ds, ref, "")

		Convey("Then the reason names the incomplete features", func() {
			var ire *ranking.InvalidReferenceError
			So(errors.As(err, &ire), ShouldBeTrue)
			So(ire.Reason, ShouldEqual, ranking.ReasonIncompleteFeatures)
		})
	})

	Convey("Given a priority statistic outside the feature set", t, func() {
		ref := athlete("Ref", "Winger", 1e6, 1, nil)
		ds := dataset(t, ref)
		_, err := ranking.NewRanker().Recommend(ds, ref, "Player")

		Convey("Then it is rejected", func() {
			So(errors.Is(err, ranking.ErrUnknownStat), ShouldBeTrue)
		})
	})
}

func TestRanker_Priority(t *testing.T) {
	Convey("Given candidates that all match the reference on the priority stat", t, func() {
		ref := athlete("Ref", "Winger", 3e6, 1, map[string]float64{"Gls/90": 0.4})
		ds := dataset(t,
			ref,
			athlete("C1", "Winger", 1e6, 3, map[string]float64{"Gls/90": 0.4}),
			athlete("C2", "Winger", 2e6, 1.5, map[string]float64{"Gls/90": 0.4}),
			athlete("C3", "Winger", 4e6, 2, map[string]float64{"Gls/90": 0.4}),
			athlete("C4", "Winger", 5e6, 1.2, map[string]float64{"Gls/90": 0.4}),
		)
		r := ranking.NewRanker()

		Convey("Then ranking is identical with and without the priority stat", func() {
			plain, err := r.Rank(ds, ref, "")
			So(err, ShouldBeNil)
			prio, err := r.Rank(ds, ref, "Gls/90")
			So(err, ShouldBeNil)
			So(names(prio), ShouldResemble, names(plain))
		})
	})

	Convey("Given two candidates at equal unadjusted distance", t, func() {
		ref := athlete("Ref", "Winger", 3e6, 1, map[string]float64{"Gls/90": 1})
		// Both sit at distance 1 from the reference; only their priority delta differs.
		near := athlete("Close", "Winger", 2e6, 1, map[string]float64{"Gls/90": 1, "xA/90": 2})
		far := athlete("Far", "Winger", 2e6, 1, map[string]float64{"Gls/90": 2})
		ds := dataset(t, ref, far, near)

		Convey("When the delta is subtracted", func() {
			ranked, err := ranking.NewRanker().Rank(ds, ref, "Gls/90")

			Convey("Then the larger delta yields the smaller, possibly negative, distance", func() {
				So(err, ShouldBeNil)
				So(names(ranked), ShouldResemble, []string{"Far", "Close"})
				So(ranked[0].Distance, ShouldEqual, -1)
				So(ranked[1].Distance, ShouldEqual, 1)
			})
		})

		Convey("When the delta is added", func() {
			r := ranking.NewRanker(ranking.WithPriorityMode(ranking.PriorityAdd))
			ranked, err := r.Rank(ds, ref, "Gls/90")

			Convey("Then the closer match on the priority stat ranks first", func() {
				So(err, ShouldBeNil)
				So(names(ranked), ShouldResemble, []string{"Close", "Far"})
				So(ranked[1].Distance, ShouldEqual, 3)
			})
		})
	})

	Convey("Given tied distances", t, func() {
		ref := athlete("Ref", "Winger", 3e6, 1, nil)
		ds := dataset(t,
			ref,
			athlete("First", "Winger", 1e6, 2, nil),
			athlete("Second", "Winger", 1e6, 2, nil),
		)

		Convey("Then snapshot order breaks the tie", func() {
			ranked, err := ranking.NewRanker().Rank(ds, ref, "")
			So(err, ShouldBeNil)
			So(names(ranked), ShouldResemble, []string{"First", "Second"})
		})
	})
}

func TestRanker_Options(t *testing.T) {
	Convey("Given a custom similar tolerance", t, func() {
		r := ranking.NewRanker(ranking.WithSimilarTolerance(0.5), ranking.WithPriorityWeight(-1))
		ref := decimal.NewFromInt(100)

		Convey("Then the wider band applies", func() {
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(150), ref), ShouldBeTrue)
			So(r.InBucket(model.BucketSimilar, decimal.NewFromInt(151), ref), ShouldBeFalse)
		})
	})
}
