package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/revlens/revlens/internal/cli"
	"github.com/revlens/revlens/pkg/revlens"
	"github.com/revlens/revlens/pkg/revlens/period"
)

type versionListing struct {
	App      string                  `json:"app"`
	Timeline []period.VersionRelease `json:"timeline"`
	Groups   []versionGroup          `json:"groups"`
}

type versionGroup struct {
	Version string `json:"version"`
	Reviews int    `json:"reviews"`
}

func main() {
	var (
		configPath = flag.String("config", "revlens.yaml", "Path to YAML config")
		appID      = flag.String("app", "", "App package id (required)")
		versionA   = flag.String("a", "", "Older version to compare")
		versionB   = flag.String("b", "", "Newer version to compare")
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

	// Without a version pair, list what was detected.
	if *versionA == "" || *versionB == "" {
		listing, err := buildListing(ctx, app, target)
		if err != nil {
			log.Fatalf("list versions: %v", err)
		}
		printJSON(listing)
		return
	}

	report, err := app.Revlens.CompareVersions(ctx, target, *versionA, *versionB)
	if err != nil {
		log.Fatalf("compare versions: %v", err)
	}
	printJSON(report)
}

func buildListing(ctx context.Context, app *cli.App, target revlens.App) (versionListing, error) {
	timeline, err := app.Revlens.VersionTimeline(ctx, target)
	if err != nil {
		return versionListing{}, err
	}
	groups, labels, err := app.Revlens.VersionGroups(ctx, target)
	if err != nil {
		return versionListing{}, err
	}

	listing := versionListing{App: target.DisplayName(), Timeline: timeline}
	for _, label := range labels {
		listing.Groups = append(listing.Groups, versionGroup{
			Version: label,
			Reviews: len(groups[label].Reviews),
		})
	}
	return listing, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}
