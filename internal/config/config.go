package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/sanslogic/hacktv-feed/internal/eurocrypt"
	"github.com/sanslogic/hacktv-feed/internal/mediapipe"
)

const appName = "hacktv-feed"

var mu sync.Mutex

// File is the on-disk YAML shape for a feed's settings, layered under
// mediapipe.DefaultConfig before CLI flags are applied. Field names
// follow the option table in spec §6.2, the way the teacher's own
// AppConfig mirrors its camera option table.
type File struct {
	Source string `yaml:"source"`

	ActiveWidth  int `yaml:"active_width,omitempty"`
	ActiveLines  int `yaml:"active_lines,omitempty"`
	FrameRateNum int `yaml:"fps_num,omitempty"`
	FrameRateDen int `yaml:"fps_den,omitempty"`
	Interlace    bool `yaml:"interlace,omitempty"`

	Audio    bool    `yaml:"audio,omitempty"`
	Downmix  bool    `yaml:"downmix,omitempty"`
	Volume   float64 `yaml:"volume,omitempty"`
	Position int     `yaml:"position,omitempty"`

	Letterbox bool `yaml:"letterbox,omitempty"`
	Pillarbox bool `yaml:"pillarbox,omitempty"`

	Logo        bool   `yaml:"logo,omitempty"`
	LogoPath    string `yaml:"logo_path,omitempty"`
	Timestamp   bool   `yaml:"timestamp,omitempty"`
	Subtitles   bool   `yaml:"subtitles,omitempty"`
	TxSubtitles bool   `yaml:"tx_subtitles,omitempty"`

	ECMPreset string `yaml:"ecm_preset,omitempty"`
	ECMPeriod int    `yaml:"ecm_period_ms,omitempty"`
}

// DefaultFile returns the built-in defaults, mirroring
// mediapipe.DefaultConfig plus the CTV Eurocrypt preset on a 100ms
// ECM refresh period.
func DefaultFile() File {
	d := mediapipe.DefaultConfig()
	return File{
		ActiveWidth:  d.ActiveWidth,
		ActiveLines:  d.ActiveLines,
		FrameRateNum: d.FrameRateNum,
		FrameRateDen: d.FrameRateDen,
		Audio:        d.Audio,
		Volume:       d.Volume,
		ECMPreset:    eurocrypt.PresetCTV.Name,
		ECMPeriod:    100,
	}
}

// Load reads and parses a YAML settings file, returning DefaultFile
// unmodified if path does not exist.
func Load(path string) (File, error) {
	f := DefaultFile()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path using a write-to-temp-then-rename sequence so
// a crash mid-write never leaves a truncated settings file, the same
// pattern the teacher uses for its own settings.yml.
func Save(path string, f File) error {
	mu.Lock()
	defer mu.Unlock()

	tmp := path + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(fh)
	if err := enc.Encode(&f); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// MediaPipeConfig projects the loaded settings into the plain
// mediapipe.Config the pipeline actually consumes.
func (f File) MediaPipeConfig() mediapipe.Config {
	return mediapipe.Config{
		ActiveWidth:  f.ActiveWidth,
		ActiveLines:  f.ActiveLines,
		FrameRateNum: f.FrameRateNum,
		FrameRateDen: f.FrameRateDen,
		Interlace:    f.Interlace,
		Audio:        f.Audio,
		Position:     f.Position,
		Letterbox:    f.Letterbox,
		Pillarbox:    f.Pillarbox,
		Downmix:      f.Downmix,
		Volume:       f.Volume,
		Logo:         f.Logo,
		Timestamp:    f.Timestamp,
		Subtitles:    f.Subtitles,
		TxSubtitles:  f.TxSubtitles,
	}
}

// InitLog points the standard logger at appDir/debug.log, writing to
// stdout too when HACKTV_FEED_DEBUG is set — the teacher's own
// initlog() shape, adapted to this project's app name and env var.
func InitLog(appDir string) error {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(filepath.Join(appDir, "debug.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	if os.Getenv("HACKTV_FEED_DEBUG") != "" {
		log.SetOutput(io.MultiWriter(file, os.Stdout))
	} else {
		log.SetOutput(file)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return nil
}

// DefaultDir returns ~/.config/hacktv-feed, creating no directories.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".config", appName)
}
