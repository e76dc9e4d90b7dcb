package main

import (
	"flag"
	"log"

	"github.com/dragonknightbit/air-ball/internal/capture"
	"github.com/dragonknightbit/air-ball/internal/config"
	"github.com/dragonknightbit/air-ball/internal/detector"
	"github.com/dragonknightbit/air-ball/internal/server"
	"github.com/dragonknightbit/air-ball/internal/tracker"
	"github.com/dragonknightbit/air-ball/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	camera := capture.NewCamera(cfg.Camera.DeviceID)
	camera.SetFPS(cfg.Camera.FPS)

	det, err := newDetector(cfg)
	if err != nil {
		log.Fatalf("create detector: %v", err)
	}

	srv := server.New(server.Config{
		StaticDir: cfg.Server.StaticDir,
		Camera:    camera,
	})

	ui := tray.New()

	tr := tracker.New(tracker.Config{
		Camera:   camera,
		Detector: det,
		Interval: cfg.Interval(),
		Alert: func(msg string) {
			// No dialog layer on a headless build; the tray tooltip plus
			// the log line is the user-facing surface.
			log.Printf("ALERT: %s", msg)
		},
	})

	// Fan each poll cycle out to the tray status line and the WebSocket
	// clients. Consumers of the positions (game, renderer) live behind
	// the WebSocket boundary.
	callback := func(positions []tracker.Position) {
		ui.SetHandCount(len(positions))
		srv.Positions().Publish(positions)
	}

	if err := tr.Setup(callback); err != nil {
		log.Fatalf("tracker setup: %v", err)
	}
	tr.Start()

	if cfg.Server.Addr != "" {
		go func() {
			log.Printf("server listening on %s", cfg.Server.Addr)
			if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
				log.Fatalf("server failed: %v", err)
			}
		}()
	}

	ui.OnToggle(func(enabled bool) {
		if enabled {
			tr.Start()
		} else {
			tr.Stop()
			ui.SetHandCount(0)
		}
	})
	ui.OnQuit(func() {
		tr.Close()
	})

	// Blocks until quit.
	ui.Run()
}

// newDetector builds the configured estimation backend, falling back to
// the mock when the MediaPipe service assets are not installed.
func newDetector(cfg *config.Config) (detector.Detector, error) {
	dcfg := detector.Config{
		MaxHands: cfg.Detector.MaxHands,
		Model:    cfg.Detector.Model,
		Runtime:  cfg.Detector.Runtime,
		AssetDir: cfg.Detector.AssetDir,
	}

	mp, err := detector.NewMediaPipeDetector(dcfg)
	if err == nil {
		log.Println("using MediaPipe hand estimation")
		return mp, nil
	}

	log.Printf("MediaPipe not available (%v), using mock detector", err)
	return detector.NewMockDetector(), nil
}
