package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemodel/internal/app"
	"github.com/dokzlo13/huemodel/internal/config"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	snapshotLabel := flag.String("snapshot", "", "Save the current bridge state under this label")
	list := flag.Bool("list", false, "List saved snapshots")
	show := flag.String("show", "", "Print a saved snapshot (\"latest\" for the newest)")
	apply := flag.String("apply", "", "Run a Lua script and send the resulting states to the bridge")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Colors)

	registry := prometheus.NewRegistry()
	application, err := app.New(cfg, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}
	defer application.Close()

	ctx := app.SignalContext()

	switch {
	case *snapshotLabel != "":
		_, err = application.Snapshot(ctx, *snapshotLabel)
	case *list:
		err = printList(ctx, application)
	case *show != "":
		err = printSnapshot(ctx, application, *show)
	case *apply != "":
		_, err = application.Apply(ctx, *apply)
	default:
		flag.Usage()
		return
	}

	logRequestStats(registry)
	if err != nil {
		application.Close()
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func printList(ctx context.Context, a *app.App) error {
	snapshots, err := a.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tBRIDGE\tCREATED\tENTITIES")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.Label, s.Bridge, s.CreatedAt.Format(time.RFC3339), s.Entities)
	}
	return w.Flush()
}

func printSnapshot(ctx context.Context, a *app.App, id string) error {
	if id == "latest" {
		id = ""
	}
	snap, entities, err := a.Show(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s %q taken %s from %s\n", snap.ID, snap.Label, snap.CreatedAt.Format(time.RFC3339), snap.Bridge)
	for _, e := range entities {
		data, err := e.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Printf("  %s %s\n", e, data)
	}
	return nil
}

// logRequestStats reports how many bridge requests the command made.
func logRequestStats(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		return
	}
	for _, mf := range families {
		if mf.GetName() != "huesnap_bridge_requests_total" {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		log.Debug().Float64("requests", total).Msg("Bridge requests made")
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
