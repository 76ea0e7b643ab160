// Command snapshot renders the dashboard once and writes it to disk, for
// checking a deployment's configuration without the device.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/NomadCrew/school-dashboard/config"
	"github.com/NomadCrew/school-dashboard/internal/app"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/types"
)

func main() {
	logger.InitLogger()
	err := run(os.Args[1:])
	if err != nil {
		logger.GetLogger().Errorw("Snapshot failed", "error", err)
	}
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// run releases everything it opens before returning.
func run(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	out := fs.String("out", "dashboard.png", "output file")
	battery := fs.String("battery", types.DefaultBatteryLevel, "battery level shown in the footer")
	htmlOnly := fs.Bool("html", false, "write the HTML document instead of the PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// There is no server to call back into.
	cfg.Screenshot.Mode = config.ScreenshotModeInline

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Screenshot.NavigationTimeout()+30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	defer a.Close()

	var data []byte
	if *htmlOnly {
		html, err := a.Dashboard.RenderHTML(ctx, *battery)
		if err != nil {
			return fmt.Errorf("render dashboard: %w", err)
		}
		data = []byte(html)
	} else {
		data, err = a.Images.DashboardPNG(ctx, *battery)
		if err != nil {
			return fmt.Errorf("create dashboard image: %w", err)
		}
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	logger.GetLogger().Infow("Dashboard written", "file", *out, "bytes", len(data))
	return nil
}
