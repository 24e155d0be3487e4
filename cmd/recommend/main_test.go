package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	app "github.com/okian/scout/internal/app"
	"github.com/okian/scout/pkg/logger"
)

const snapshotCSV = `Player,PredictedRole,MarketValueEUR,npxG/90,xA/90,KeyPass/90,Touches/90,PassCmp%,DribPast/90,TklW/90
A1,Winger,3000000,0.30,0.20,1.5,45.0,78.0,0.9,0.6
A2,Winger,1000000,0.31,0.21,1.5,45.0,78.0,0.9,0.6
A3,Winger,3500000,0.35,0.25,1.6,46.0,79.0,0.9,0.6
`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	Convey("Given a configured snapshot", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "snapshot.csv")
		So(os.WriteFile(path, []byte(snapshotCSV), 0o600), ShouldBeNil)
		t.Setenv("SCOUT_SNAPSHOT_PATH", path)
		ctx := context.Background()

		Convey("When recommending for A1 with a radar file", func() {
			var out bytes.Buffer
			radar := filepath.Join(dir, "radar.svg")
			err := run(ctx, &out, "A1", app.PriorityNone, radar, false)

			Convey("Then the summary is printed and the radar written", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "Profile: A1")
				So(out.String(), ShouldContainSubstring, "Cheaper: A2 (€1,000,000)")
				So(out.String(), ShouldContainSubstring, "Pricier: A3 (€3,500,000)")
				svg, err := os.ReadFile(radar)
				So(err, ShouldBeNil)
				So(string(svg), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When listing options", func() {
			var out bytes.Buffer
			So(run(ctx, &out, "", "", "", true), ShouldBeNil)

			Convey("Then athletes and priorities are printed", func() {
				So(out.String(), ShouldContainSubstring, "A2 (Winger)")
				So(out.String(), ShouldContainSubstring, "  none\n")
				So(out.String(), ShouldContainSubstring, "  xA/90\n")
			})
		})

		Convey("When the player is unknown", func() {
			err := run(ctx, &bytes.Buffer{}, "Nobody", "", "", false)

			Convey("Then the unknown athlete error is returned", func() {
				So(errors.Is(err, app.ErrUnknownAthlete), ShouldBeTrue)
			})
		})

		Convey("When no player is given", func() {
			So(run(ctx, &bytes.Buffer{}, "", "", "", false), ShouldNotBeNil)
		})
	})

	Convey("Given a missing snapshot", t, func() {
		t.Setenv("SCOUT_SNAPSHOT_PATH", filepath.Join(t.TempDir(), "missing.csv"))

		Convey("Then run reports the load failure", func() {
			err := run(context.Background(), &bytes.Buffer{}, "A1", "", "", false)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "could not be loaded")
		})
	})
}
