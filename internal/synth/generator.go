package synth

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okian/scout/pkg/logger"
)

// Columns are the statistic columns of a generated snapshot, in order.
var Columns = []string{
	"npxG/90", "xA/90", "KeyPass/90", "Touches/90", "PassCmp%", "DribPast/90", "TklW/90",
	"Gls/90", "SoT%", "Int/90",
}

// Header is the full CSV header of a generated snapshot.
var Header = append([]string{"Player", "PredictedRole", "MarketValueEUR", "Squad"}, Columns...)

// roleProfiles hold the mean of each column for a role, aligned with Columns.
var roleProfiles = map[string][]float64{
	"Winger":     {0.28, 0.22, 1.9, 48, 77, 1.1, 0.7, 0.30, 38, 0.5},
	"Playmaker":  {0.12, 0.25, 2.3, 72, 88, 1.0, 1.2, 0.10, 30, 1.0},
	"Striker":    {0.45, 0.12, 1.2, 32, 70, 0.6, 0.4, 0.50, 45, 0.3},
	"Anchor":     {0.04, 0.06, 0.6, 70, 90, 0.8, 2.0, 0.03, 22, 1.8},
	"Fullback":   {0.05, 0.15, 1.1, 60, 80, 1.2, 1.5, 0.04, 25, 1.3},
	"CentreBack": {0.05, 0.03, 0.3, 64, 89, 0.5, 1.1, 0.05, 28, 2.2},
}

var averageProfile = []float64{0.16, 0.14, 1.2, 58, 82, 0.9, 1.2, 0.17, 31, 1.2}

var squads = []string{"Alcorcon", "Benfica", "Celtic", "Dortmund", "Everton", "Feyenoord", "Girona", "Hajduk"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// Generate builds snapshot records, header first. Roles are generated
// concurrently and emitted in the order given.
func Generate(ctx context.Context, cfg *Config) ([][]string, error) {
	roles := cfg.Roles
	if len(roles) == 0 {
		roles = DefaultRoles
	}
	if cfg.PerRole <= 0 {
		return nil, fmt.Errorf("per-role count must be positive, got %d", cfg.PerRole)
	}
	if cfg.MissingRate < 0 || cfg.MissingRate >= 1 {
		return nil, fmt.Errorf("missing rate must be in [0, 1), got %v", cfg.MissingRate)
	}
	logger.Get().Info(ctx, "generating snapshot",
		logger.Strings("roles", roles),
		logger.Int("perRole", cfg.PerRole),
		logger.Float64("missingRate", cfg.MissingRate))

	type roleResult struct {
		index int
		rows  [][]string
	}
	results := make(chan roleResult, len(roles))
	for i, role := range roles {
		go func(i int, role string) {
			rows := make([][]string, 0, cfg.PerRole)
			for n := 0; n < cfg.PerRole; n++ {
				rows = append(rows, generateAthlete(role, cfg.MissingRate))
			}
			results <- roleResult{index: i, rows: rows}
		}(i, role)
	}

	byRole := make([][][]string, len(roles))
	for range roles {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case r := <-results:
			byRole[r.index] = r.rows
		}
	}

	records := make([][]string, 0, 1+len(roles)*cfg.PerRole)
	records = append(records, Header)
	for _, rows := range byRole {
		records = append(records, rows...)
	}
	return records, nil
}

// generateAthlete creates one row. Names carry a UUID suffix so they never
// collide across runs.
func generateAthlete(role string, missingRate float64) []string {
	profile, ok := roleProfiles[role]
	if !ok {
		profile = averageProfile
	}

	row := make([]string, 0, len(Header))
	row = append(row,
		fmt.Sprintf("%s-%s", role, uuid.NewString()[:8]),
		role,
		marketValue(missingRate),
		squads[getRandomInt(len(squads))],
	)
	for i, col := range Columns {
		if getRandomFloat() < missingRate {
			row = append(row, "")
			continue
		}
		v := profile[i] * (spreadMin + getRandomFloat()*spreadRange)
		if col == "PassCmp%" || col == "SoT%" {
			v = math.Min(v, 100)
		}
		row = append(row, strconv.FormatFloat(v, 'f', 2, 64))
	}
	return row
}

// marketValue draws a log-uniform value between minValue and maxValue,
// rounded to valueStep.
func marketValue(missingRate float64) string {
	if getRandomFloat() < missingRate {
		return ""
	}
	v := math.Exp(math.Log(minValue) + getRandomFloat()*(math.Log(maxValue)-math.Log(minValue)))
	steps := decimal.NewFromFloat(v / valueStep).Round(0)
	return steps.Mul(decimal.NewFromInt(valueStep)).String()
}

// WriteCSV writes records to w.
func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// GenerateFile generates a snapshot and writes it to cfg.Output, or to
// stdout when Output is empty.
func GenerateFile(ctx context.Context, cfg *Config) error {
	records, err := Generate(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return WriteCSV(os.Stdout, records)
	}

	file, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()
	if err := WriteCSV(file, records); err != nil {
		return err
	}
	logger.Get().Info(ctx, "snapshot written",
		logger.String("filename", cfg.Output),
		logger.Int("athletes", len(records)-1))
	return nil
}
