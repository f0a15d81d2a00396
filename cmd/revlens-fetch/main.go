package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/revlens/revlens/internal/cli"
	"github.com/revlens/revlens/pkg/revlens"
)

func main() {
	var (
		configPath = flag.String("config", "revlens.yaml", "Path to YAML config")
		appID      = flag.String("app", "", "App package id (default: all configured apps)")
		sweep      = flag.Bool("sweep", true, "Remove snapshots older than the retention window")
	)
	flag.Parse()

	app, err := cli.Build(*configPath)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
	defer app.Revlens.Close()

	ctx := context.Background()

	if *sweep {
		maxAge := time.Duration(app.Config.Snapshot.RetentionDays) * 24 * time.Hour
		result, err := app.Snapshots.Sweep(maxAge)
		if err != nil {
			app.Logger.Warn("snapshot sweep failed", "error", err)
		} else {
			app.Logger.Info("snapshot sweep",
				"scanned", result.Scanned, "removed", result.Removed, "errors", result.Errors)
		}
	}

	targets := resolveTargets(app, *appID)
	if len(targets) == 0 {
		log.Fatal("no apps to analyze; configure apps or pass --app")
	}

	reports := make([]revlens.AppReport, 0, len(targets))
	for _, target := range targets {
		report, err := app.Revlens.AnalyzeApp(ctx, target)
		if err != nil {
			log.Fatalf("analyze %s: %v", target.ID, err)
		}
		reports = append(reports, report)
	}

	out, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func resolveTargets(app *cli.App, appID string) []revlens.App {
	if appID != "" {
		return []revlens.App{{ID: appID, Name: app.Config.AppName(appID)}}
	}
	targets := make([]revlens.App, 0, len(app.Config.Apps))
	for _, src := range app.Config.Apps {
		targets = append(targets, revlens.App{ID: src.ID, Name: src.Name})
	}
	return targets
}
