package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/scout/internal/adapters/chart"
	"github.com/okian/scout/internal/adapters/snapshot"
	app "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/pkg/logger"
)

const filePermission = 0o644

func main() {
	var (
		player   = flag.String("player", "", "Reference athlete name")
		priority = flag.String("priority", app.PriorityNone, "Priority statistic, or none")
		radar    = flag.String("radar", "", "Write the radar chart SVG to this file")
		list     = flag.Bool("list", false, "List selectable athletes and priority options")
	)
	flag.Parse()

	if err := logger.InitWithWriter(os.Stderr); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, *player, *priority, *radar, *list); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// run loads the configured snapshot and prints one recommendation summary,
// or the selector options when list is set.
func run(ctx context.Context, out io.Writer, player, priority, radarPath string, list bool) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	svc, err := app.FromConfig(ctx, cfg)
	if err != nil {
		var dle *snapshot.DataLoadError
		if errors.As(err, &dle) {
			return fmt.Errorf("the athlete snapshot could not be loaded from %s: %w", dle.Source, dle.Err)
		}
		return err
	}

	if list {
		return writeOptions(ctx, out, svc)
	}
	if player == "" {
		return errors.New("-player is required")
	}

	res := svc.Recommend(ctx, player, priority)
	if !res.OK() {
		switch res.Status {
		case app.StatusUnknownAthlete, app.StatusUnknownStat:
			return res.Err
		default:
			return fmt.Errorf("recommendation failed (id %s)", res.ID)
		}
	}
	if res.Warning != "" {
		logger.Get().Warn(ctx, res.Warning, logger.String("player", player))
	}

	if err := chart.WriteSummary(out, res.Result); err != nil {
		return err
	}
	if radarPath == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := chart.RenderRadar(&buf, res.Axes, res.Profiles); err != nil {
		return err
	}
	if err := os.WriteFile(radarPath, buf.Bytes(), filePermission); err != nil {
		return fmt.Errorf("failed to write radar: %w", err)
	}
	logger.Get().Info(ctx, "radar written", logger.String("path", radarPath))
	return nil
}

func writeOptions(ctx context.Context, out io.Writer, svc *app.Service) error {
	if _, err := fmt.Fprintln(out, "Athletes:"); err != nil {
		return err
	}
	for _, a := range svc.Athletes(ctx, true) {
		if _, err := fmt.Fprintf(out, "  %s (%s)\n", a.Name, a.Role); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(out, "Priority:"); err != nil {
		return err
	}
	for _, f := range svc.Features(ctx) {
		if _, err := fmt.Fprintf(out, "  %s\n", f); err != nil {
			return err
		}
	}
	return nil
}
