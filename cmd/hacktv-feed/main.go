package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/sanslogic/hacktv-feed/internal/config"
	"github.com/sanslogic/hacktv-feed/internal/eurocrypt"
	"github.com/sanslogic/hacktv-feed/internal/mediapipe"
)

var (
	version string
	build   string
)

func main() {
	settingsPath := pflag.StringP("config", "c", "", "Path to a YAML settings file (defaults to ~/.config/hacktv-feed/settings.yml)")
	source := pflag.StringP("source", "s", "", "Input source: file path, rtsp:// URL, or device URL")
	ecmPreset := pflag.String("ecm-preset", "", "Eurocrypt-M channel preset: ctv, tvplus, tv1000, filmnet")
	logoPath := pflag.String("logo", "", "Path to a PNG logo overlay")
	debug := pflag.Bool("debug", false, "Write debug logging to stdout in addition to the log file")
	help := pflag.Bool("help", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hacktv-feed %s (build %s)\n\n", version, build)
		fmt.Fprintf(os.Stderr, "Usage: hacktv-feed -s <source> [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *debug {
		os.Setenv("HACKTV_FEED_DEBUG", "1")
	}
	appDir := config.DefaultDir()
	if err := config.InitLog(appDir); err != nil {
		log.Printf("logging to file disabled: %v", err)
	}
	log.Printf("hacktv-feed %s (build %s) starting", version, build)

	path := *settingsPath
	if path == "" {
		path = appDir + "/settings.yml"
	}
	settings, err := config.Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *source != "" {
		settings.Source = *source
	}
	if *ecmPreset != "" {
		settings.ECMPreset = *ecmPreset
	}
	if *logoPath != "" {
		settings.LogoPath = *logoPath
	}
	if settings.Source == "" {
		fmt.Fprintln(os.Stderr, "no source configured: pass -s or set \"source\" in the settings file")
		pflag.Usage()
		os.Exit(2)
	}

	var logo image.Image
	if settings.LogoPath != "" {
		logo, err = loadLogo(settings.LogoPath)
		if err != nil {
			log.Printf("logo: %v, disabling logo overlay", err)
			settings.Logo = false
		}
	}

	pipeline, err := mediapipe.Open(settings.Source, settings.MediaPipeConfig(), logo)
	if err != nil {
		log.Fatalf("pipeline open failed: %v", err)
	}
	defer pipeline.Close()

	preset := eurocrypt.PresetByName(settings.ECMPreset)
	ecmCtx := eurocrypt.NewContext(preset)
	scheduler := eurocrypt.NewScheduler(ecmCtx, eurocrypt.ParityOdd)

	period := time.Duration(settings.ECMPeriod) * time.Millisecond
	if period <= 0 {
		period = 100 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go runECMScheduler(scheduler, ticker, done)
	go consumeFeed(pipeline, done)

	<-sigCh
	log.Printf("shutting down")
	close(done)
}

// runECMScheduler switches the active control word parity once per
// tick, publishing a fresh ECM for the channel's preset on the period
// configured in settings.yml.
func runECMScheduler(s *eurocrypt.Scheduler, ticker *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.Switch()
		case <-done:
			return
		}
	}
}

// consumeFeed drains the pipeline's video and audio outputs, standing
// in for the analogue modulator this core feeds: in the absence of
// modulator hardware it simply discards frames, the same role
// ffmpeg.c's caller plays in the original when compiled without -lrf.
func consumeFeed(p *mediapipe.Pipeline, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if _, err := p.ReadVideo(); err != nil {
			log.Printf("video feed ended: %v", err)
			return
		}
		if _, err := p.ReadAudio(); err != nil {
			log.Printf("audio feed ended: %v", err)
			return
		}
	}
}

func loadLogo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
