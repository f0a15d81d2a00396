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

const dateLayout = "2006-01-02"

func main() {
	var (
		configPath = flag.String("config", "revlens.yaml", "Path to YAML config")
		appID      = flag.String("app", "", "App package id (required)")
		appBID     = flag.String("app-b", "", "Second app id for a competitor comparison")
		days       = flag.Int("days", 0, "Trailing split: last N days vs the N days before")
		startA     = flag.String("start-a", "", "Period A start date (YYYY-MM-DD)")
		endA       = flag.String("end-a", "", "Period A end date (YYYY-MM-DD)")
		startB     = flag.String("start-b", "", "Period B start date (YYYY-MM-DD)")
		endB       = flag.String("end-b", "", "Period B end date (YYYY-MM-DD)")
	)
	flag.Parse()

	if *appID == "" {
		log.Fatal("--app required")
	}

	app, err := cli.Build(*configPath)
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
	defer app.Revlens.Close()

	ctx := context.Background()
	target := revlens.App{ID: *appID, Name: app.Config.AppName(*appID)}

	var report revlens.ComparisonReport
	switch {
	case *appBID != "":
		targetB := revlens.App{ID: *appBID, Name: app.Config.AppName(*appBID)}
		report, err = app.Revlens.CompareApps(ctx, target, targetB)
	case *days > 0:
		now := time.Now().UTC().Truncate(24 * time.Hour)
		mid := now.AddDate(0, 0, -*days)
		prev := now.AddDate(0, 0, -2*(*days))
		report, err = app.Revlens.ComparePeriods(ctx, target, prev, mid.AddDate(0, 0, -1), mid, now)
	default:
		sa, ea, sb, eb, perr := parseRanges(*startA, *endA, *startB, *endB)
		if perr != nil {
			log.Fatalf("parse dates: %v", perr)
		}
		report, err = app.Revlens.ComparePeriods(ctx, target, sa, ea, sb, eb)
	}
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func parseRanges(startA, endA, startB, endB string) (sa, ea, sb, eb time.Time, err error) {
	for _, v := range []struct {
		name, value string
		dst         *time.Time
	}{
		{"--start-a", startA, &sa},
		{"--end-a", endA, &ea},
		{"--start-b", startB, &sb},
		{"--end-b", endB, &eb},
	} {
		if v.value == "" {
			err = fmt.Errorf("%s required (or use --days / --app-b)", v.name)
			return
		}
		*v.dst, err = time.Parse(dateLayout, v.value)
		if err != nil {
			err = fmt.Errorf("%s: %v", v.name, err)
			return
		}
	}
	return
}
