package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/domain/model"
)

var radar = model.FeatureSet{"npxG/90", "xA/90", "KeyPass/90", "Touches/90", "PassCmp%", "DribPast/90", "TklW/90"}

const header = "Player,PredictedRole,MarketValueEUR,Nation,npxG/90,xA/90,KeyPass/90,Touches/90,PassCmp%,DribPast/90,TklW/90,Gls/90\n"

const sample = header +
	"Pedri,Playmaker,80000000,ESP,0.12,0.25,2.1,70.2,89.5,0.8,1.1,0.15\n" +
	"Gavi,Playmaker,60000000.50,ESP,0.10,0.18,1.4,62.0,86.0,1.2,1.5,0.08\n" +
	"Unknown,Playmaker,,ESP,0.05,NaN,1.0,50.0,80.0,1.0,1.0,\n" +
	",Winger,1000000,FRA,0.3,0.2,1.0,40.0,75.0,0.5,0.4,0.2\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	Convey("Given a CSV snapshot", t, func() {
		ds, err := ReadCSV(strings.NewReader(sample), radar)

		Convey("Then rows with a name are loaded", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 3)
			So(ds.Names(), ShouldResemble, []string{"Pedri", "Gavi", "Unknown"})
		})

		Convey("Then feature columns are derived from numeric columns", func() {
			So(err, ShouldBeNil)
			So(ds.Features(), ShouldResemble, model.FeatureSet{
				"npxG/90", "xA/90", "KeyPass/90", "Touches/90", "PassCmp%", "DribPast/90", "TklW/90", "Gls/90",
			})
		})

		Convey("Then market values are exact decimals", func() {
			So(err, ShouldBeNil)
			gavi, ok := ds.Lookup("Gavi")
			So(ok, ShouldBeTrue)
			So(gavi.MarketValue.Valid, ShouldBeTrue)
			So(gavi.MarketValue.Decimal.String(), ShouldEqual, "60000000.5")
		})

		Convey("Then empty and NaN cells are missing", func() {
			So(err, ShouldBeNil)
			u, ok := ds.Lookup("Unknown")
			So(ok, ShouldBeTrue)
			So(u.HasMarketValue(), ShouldBeFalse)
			_, present := u.Stat("xA/90")
			So(present, ShouldBeFalse)
			_, present = u.Stat("Gls/90")
			So(present, ShouldBeFalse)
			v, present := u.Stat("Touches/90")
			So(present, ShouldBeTrue)
			So(v, ShouldEqual, 50.0)
		})
	})

	Convey("Given a CSV with infinite statistics", t, func() {
		csv := header +
			"Pedri,Playmaker,80000000,ESP,inf,0.25,2.1,70.2,89.5,0.8,1.1,+Inf\n" +
			"Gavi,Playmaker,60000000,ESP,0.10,-Infinity,1.4,62.0,86.0,1.2,1.5,0.08\n"
		ds, err := ReadCSV(strings.NewReader(csv), radar)
		So(err, ShouldBeNil)

		Convey("Then the columns stay numeric", func() {
			So(ds.Features(), ShouldContain, "npxG/90")
			So(ds.Features(), ShouldContain, "Gls/90")
		})

		Convey("Then the infinite cells are missing", func() {
			pedri, _ := ds.Lookup("Pedri")
			_, present := pedri.Stat("npxG/90")
			So(present, ShouldBeFalse)
			_, present = pedri.Stat("Gls/90")
			So(present, ShouldBeFalse)
			gavi, _ := ds.Lookup("Gavi")
			_, present = gavi.Stat("xA/90")
			So(present, ShouldBeFalse)
			v, present := gavi.Stat("npxG/90")
			So(present, ShouldBeTrue)
			So(v, ShouldEqual, 0.10)
		})
	})

	Convey("Given a CSV with a byte order mark", t, func() {
		ds, err := ReadCSV(strings.NewReader("\ufeff"+sample), radar)

		Convey("Then the Player column is still found", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 3)
		})
	})

	Convey("Given malformed CSV snapshots", t, func() {
		cases := []struct {
			name    string
			content string
			want    error
		}{
			{"empty", "", ErrEmptySnapshot},
			{"missing role", "Player,MarketValueEUR\nPedri,1\n", ErrMissingColumn},
			{"duplicate column", "Player,PredictedRole,MarketValueEUR,Player\nA,B,1,C\n", ErrDuplicateColumn},
			{"ragged row", header + "Pedri,Playmaker,1\n", ErrMalformedRow},
			{"bad market value", strings.Replace(sample, "80000000", "eighty", 1), ErrMalformedRow},
			{"missing radar column", "Player,PredictedRole,MarketValueEUR,Gls/90\nA,B,1,0.1\n", model.ErrRadarNotNumeric},
		}
		for _, tc := range cases {
			Convey("When the snapshot is "+tc.name, func() {
				_, err := ReadCSV(strings.NewReader(tc.content), radar)
				So(errors.Is(err, tc.want), ShouldBeTrue)
			})
		}
	})
}

func TestReadJSON(t *testing.T) {
	Convey("Given a split layout JSON snapshot", t, func() {
		content := `{
			"columns": ["Player","PredictedRole","MarketValueEUR","Nation","npxG/90","xA/90","KeyPass/90","Touches/90","PassCmp%","DribPast/90","TklW/90"],
			"data": [
				["Pedri","Playmaker",80000000,"ESP",0.12,0.25,2.1,70.2,89.5,0.8,1.1],
				["Gavi","Playmaker",null,"ESP",0.10,null,1.4,62.0,86.0,1.2,1.5]
			]
		}`
		ds, err := ReadJSON(strings.NewReader(content), radar)

		Convey("Then columns keep their order and types", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 2)
			So(ds.Features(), ShouldResemble, radar)
		})

		Convey("Then nulls are missing values", func() {
			So(err, ShouldBeNil)
			gavi, _ := ds.Lookup("Gavi")
			So(gavi.HasMarketValue(), ShouldBeFalse)
			_, present := gavi.Stat("xA/90")
			So(present, ShouldBeFalse)
		})
	})

	Convey("Given malformed JSON snapshots", t, func() {
		_, err := ReadJSON(strings.NewReader(`{"columns": []}`), radar)
		So(errors.Is(err, ErrEmptySnapshot), ShouldBeTrue)

		_, err = ReadJSON(strings.NewReader(`{"columns": ["Player"`), radar)
		So(err, ShouldNotBeNil)

		_, err = ReadJSON(strings.NewReader(`{"columns":["Player","PredictedRole","MarketValueEUR"],"data":[["A","B",[1]]]}`), radar)
		So(errors.Is(err, ErrMalformedRow), ShouldBeTrue)
	})
}

func TestLoaders(t *testing.T) {
	ctx := context.Background()

	Convey("Given file loaders", t, func() {
		Convey("When the CSV file exists", func() {
			path := writeFile(t, "snapshot.csv", sample)
			l, err := New(Source{Format: "csv", Path: path}, radar)
			So(err, ShouldBeNil)

			ds, err := Load(ctx, l, "csv")
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 3)
		})

		Convey("When the file is missing", func() {
			l, err := New(Source{Format: "json", Path: filepath.Join(t.TempDir(), "missing.json")}, radar)
			So(err, ShouldBeNil)

			_, err = Load(ctx, l, "json")
			var dle *DataLoadError
			So(errors.As(err, &dle), ShouldBeTrue)
			So(errors.Is(err, ErrDataLoad), ShouldBeTrue)
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("When the content is malformed", func() {
			path := writeFile(t, "snapshot.csv", "Player\nA\n")
			_, err := NewCSVLoader(path, radar).Load(ctx)
			So(errors.Is(err, ErrDataLoad), ShouldBeTrue)
			So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, path)
		})

		Convey("When the format is unknown", func() {
			_, err := New(Source{Format: "parquet"}, radar)
			So(errors.Is(err, ErrDataLoad), ShouldBeTrue)
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable postgres server", t, func() {
		l, err := New(Source{
			Format: "postgres",
			DSN:    "postgres://scout@127.0.0.1:1/scout?sslmode=disable&connect_timeout=1",
			Table:  "athlete_snapshot",
		}, radar)
		So(err, ShouldBeNil)

		_, err = l.Load(ctx)

		Convey("Then the failure is a data load error", func() {
			So(errors.Is(err, ErrDataLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "postgres:athlete_snapshot")
		})
	})
}
