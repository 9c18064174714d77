// Package main provides the catchmap command line interface: it reads point
// and boundary collections from GeoJSON files, runs the catchment pipeline
// against a GraphHopper instance, and writes the result as GeoJSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/catchmap/catchmap/internal/catchment"
	"github.com/catchmap/catchmap/internal/feature"
	"github.com/catchmap/catchmap/internal/graphhopper"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	var (
		url          = flag.String("url", "localhost:8989", "GraphHopper instance URL")
		apiKey       = flag.String("key", "", "API key for the routing service")
		pointsPath   = flag.String("points", "", "GeoJSON file with origin points (required)")
		boundaryPath = flag.String("boundaries", "", "GeoJSON file with containment polygons")
		profile      = flag.String("profile", "foot", "travel profile (foot, bike, car, ...)")
		distance     = flag.Int("distance", 0, "distance or time limit (required)")
		unit         = flag.String("unit", "minutes", `limit unit: "meters" or "minutes"`)
		buckets      = flag.Int("buckets", 1, "number of concentric bands per point")
		mergeField   = flag.String("merge", "", "merge isochrones sharing this attribute")
		walkingField = flag.String("walking", "", "attribute with per-point walking distance in meters")
		selected     = flag.String("selected", "", "comma-separated point ids to restrict the run to")
		outDir       = flag.String("out", ".", "directory for the result GeoJSON file")
		verbose      = flag.Bool("v", false, "verbose logging")
		version      = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("catchmap", Version)
		return
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if *pointsPath == "" || *distance <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := catchment.Options{
		URL:              *url,
		APIKey:           *apiKey,
		Profile:          catchment.Profile(*profile),
		Distance:         *distance,
		Unit:             catchment.Unit(*unit),
		Buckets:          *buckets,
		MergeField:       *mergeField,
		WalkingField:     *walkingField,
		WriteToDirectory: true,
		Directory:        *outDir,
	}

	points, err := feature.ReadFile(*pointsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("reading points")
	}
	if points.Name == "" {
		points.Name = baseName(*pointsPath)
	}
	opts.Points = points

	if *boundaryPath != "" {
		boundaries, err := feature.ReadFile(*boundaryPath)
		if err != nil {
			log.Fatal().Err(err).Msg("reading boundaries")
		}
		if boundaries.Name == "" {
			boundaries.Name = baseName(*boundaryPath)
		}
		opts.Boundaries = boundaries
	}

	if *selected != "" {
		opts.SelectedOnly = true
		opts.SelectedIDs = strings.Split(*selected, ",")
	}

	builder, err := catchment.NewBuilder(catchment.BuilderConfig{
		Options: opts,
		Logger:  log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid options")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := builder.Run(ctx)
	if err != nil {
		if graphhopper.IsUnavailable(err) {
			log.Fatal().Err(err).Msg("could not reach the routing service - check the URL and your connection")
		}
		log.Fatal().Err(err).Msg("catchment generation failed")
	}

	switch result.Outcome {
	case catchment.OutcomeEmptyInput:
		log.Warn().Msg("the point collection is empty, nothing to generate")
	case catchment.OutcomeNoIsochrones:
		log.Warn().Msg("no isochrones could be generated - is there a road network near your points?")
	default:
		log.Info().
			Str("name", result.Collection.Name).
			Int("features", result.Collection.Len()).
			Int("failed", result.FailedCount).
			Str("file", result.OutputFile).
			Msg("catchments generated")
	}
	if errors.Is(ctx.Err(), context.Canceled) && result.Collection.Len() > 0 {
		log.Warn().Msg("run was interrupted, results are partial")
	}
}

// baseName strips the directory and extension off a path, for use as a
// collection name.
func baseName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
