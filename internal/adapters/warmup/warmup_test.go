package warmup_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/adapters/warmup"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeRecommender struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeRecommender) Recommend(_ context.Context, name, priority string) service.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name+"|"+priority]++
	if name == "Broken" {
		return service.Outcome{Status: service.StatusFailed, Err: errors.New("boom")}
	}
	return service.Outcome{Status: service.StatusOK}
}

func TestPool_Warm(t *testing.T) {
	Convey("Given a pool over a fake recommender", t, func() {
		deps := &fakeRecommender{}

		Convey("When warming three athletes with one extra priority", func() {
			pool := warmup.NewPool(deps, warmup.WithWorkers(2), warmup.WithPriorities("xA/90"))
			stats := pool.Warm(context.Background(), []string{"A", "B", "Broken"})

			Convey("Then every pair is computed once", func() {
				So(stats.Jobs, ShouldEqual, 6)
				So(stats.Computed, ShouldEqual, 4)
				So(stats.Failed, ShouldEqual, 2)
				So(deps.calls["A|"], ShouldEqual, 1)
				So(deps.calls["A|xA/90"], ShouldEqual, 1)
				So(deps.calls["B|"], ShouldEqual, 1)
			})
		})

		Convey("When more jobs than queue slots are warmed", func() {
			names := make([]string, 50)
			for i := range names {
				names[i] = string(rune('a' + i%26)) + string(rune('A'+i/26))
			}
			stats := warmup.NewPool(deps, warmup.WithWorkers(1)).Warm(context.Background(), names)

			Convey("Then nothing is dropped", func() {
				So(stats.Jobs, ShouldEqual, 50)
				So(stats.Computed, ShouldEqual, 50)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			stats := warmup.NewPool(deps, warmup.WithWorkers(2)).Warm(ctx, []string{"A", "B"})

			Convey("Then nothing is computed", func() {
				So(stats.Computed, ShouldEqual, 0)
			})
		})
	})
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue of capacity one", t, func() {
		q := warmup.NewInMemoryQueue(1)
		ctx := context.Background()

		Convey("Then a second enqueue is rejected while full", func() {
			So(q.Enqueue(ctx, warmup.Job{Athlete: "A"}), ShouldBeTrue)
			So(q.Enqueue(ctx, warmup.Job{Athlete: "B"}), ShouldBeFalse)
		})

		Convey("Then a closed queue drains and rejects new jobs", func() {
			So(q.Enqueue(ctx, warmup.Job{Athlete: "A"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
			So(q.Enqueue(ctx, warmup.Job{Athlete: "B"}), ShouldBeFalse)
			j, ok := <-q.Dequeue()
			So(ok, ShouldBeTrue)
			So(j.Athlete, ShouldEqual, "A")
			_, ok = <-q.Dequeue()
			So(ok, ShouldBeFalse)
		})
	})
}
