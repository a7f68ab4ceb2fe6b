// Package store persists the daemon configuration as a JSON file in the
// platform config directory.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"planetrise/internal/preset"
)

type LinkConfig struct {
	Port string `json:"port"`
	Baud int    `json:"baud"`
}

// RemoteConfig describes the IR receiver module and which button codes
// mean what. Codes are hex strings as the receiver prints them.
type RemoteConfig struct {
	Port     string `json:"port,omitempty"`
	Baud     int    `json:"baud"`
	UpCode   string `json:"upCode"`
	DownCode string `json:"downCode"`
}

type HueBridge struct {
	IP     string `json:"ip"`
	AppKey string `json:"appKey"`
}

// Mirrors lists the network lamps that shadow the fixture board.
type Mirrors struct {
	LIFX        bool        `json:"lifx"`
	Elgato      bool        `json:"elgato"`
	ElgatoAddrs []string    `json:"elgatoAddrs,omitempty"`
	HueBridges  []HueBridge `json:"hueBridges,omitempty"`
}

type Settings struct {
	TickMs         int  `json:"tickMs"`
	DisplayWidth   int  `json:"displayWidth"`
	ConsoleDisplay bool `json:"consoleDisplay"`
}

type Config struct {
	Presets  []preset.Preset `json:"presets"`
	Link     LinkConfig      `json:"link"`
	Remote   RemoteConfig    `json:"remote"`
	Mirrors  Mirrors         `json:"mirrors"`
	Settings Settings        `json:"settings"`
}

type Store struct {
	mu       sync.Mutex
	config   Config
	filePath string
}

// New opens the store at path, or at the platform default when path is
// empty. A missing file yields the defaults.
func New(path string) (*Store, error) {
	if path == "" {
		p, err := configPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &Store{
		filePath: path,
		config:   defaults(),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

func defaults() Config {
	return Config{
		Presets: preset.Defaults(),
		Link:    LinkConfig{Port: "-", Baud: 9600},
		Remote: RemoteConfig{
			Baud:     9600,
			UpCode:   "FF629D",
			DownCode: "FFA25D",
		},
		Settings: Settings{
			TickMs:         25,
			DisplayWidth:   16,
			ConsoleDisplay: true,
		},
	}
}

func (s *Store) GetConfig() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.config
	cfg.Presets = append([]preset.Preset(nil), s.config.Presets...)
	cfg.Mirrors.ElgatoAddrs = append([]string(nil), s.config.Mirrors.ElgatoAddrs...)
	cfg.Mirrors.HueBridges = append([]HueBridge(nil), s.config.Mirrors.HueBridges...)
	return cfg
}

// SetElgatoAddrs persists key light addresses found by discovery so the
// next start skips the scan.
func (s *Store) SetElgatoAddrs(addrs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.Mirrors.ElgatoAddrs = append([]string(nil), addrs...)
	return s.saveLocked()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = preset.Defaults()
	}
	if cfg.Settings.TickMs <= 0 {
		cfg.Settings.TickMs = 25
	}
	s.config = cfg
	return nil
}

// saveLocked marshals config and writes atomically. Caller must hold s.mu.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

func configPath() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "planetrise", "config.json"), nil
}
