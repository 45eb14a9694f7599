// Package config loads the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is read when DUNGEON_CONFIG is unset.
const DefaultPath = "config/dungeon.toml"

type Config struct {
	Map     MapConfig     `toml:"map"`
	Game    GameConfig    `toml:"game"`
	Save    SaveConfig    `toml:"save"`
	Input   InputConfig   `toml:"input"`
	Logging LoggingConfig `toml:"logging"`
	Server  ServerConfig  `toml:"server"`
}

type MapConfig struct {
	Width       int `toml:"width"`
	Height      int `toml:"height"`
	MaxRooms    int `toml:"max_rooms"`
	MinRoomSize int `toml:"min_room_size"`
	MaxRoomSize int `toml:"max_room_size"`
}

type GameConfig struct {
	LogCapacity     int    `toml:"log_capacity"`
	MonstersPerRoom int    `toml:"monsters_per_room"`
	ItemsPerRoom    int    `toml:"items_per_room"`
	Seed            int64  `toml:"seed"`      // 0 = seed from the clock
	Templates       string `toml:"templates"` // empty = embedded templates
}

type SaveConfig struct {
	Path string `toml:"path"`
}

// InputConfig gates key repeat in frames.
type InputConfig struct {
	FrameMS           int    `toml:"frame_ms"`
	MinDelayFrames    uint64 `toml:"min_delay_frames"`
	RepeatDelayFrames uint64 `toml:"repeat_delay_frames"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type ServerConfig struct {
	Port        int    `toml:"port"`
	HostKeyPath string `toml:"host_key_path"`
}

// Path returns the config file location, honouring DUNGEON_CONFIG.
func Path() string {
	if p := os.Getenv("DUNGEON_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Map.Width < 10 || c.Map.Height < 10 {
		return fmt.Errorf("map must be at least 10x10, got %dx%d", c.Map.Width, c.Map.Height)
	}
	if c.Map.MinRoomSize < 1 || c.Map.MaxRoomSize < c.Map.MinRoomSize {
		return fmt.Errorf("bad room sizes %d..%d", c.Map.MinRoomSize, c.Map.MaxRoomSize)
	}
	if c.Game.MonstersPerRoom < 0 || c.Game.ItemsPerRoom < 0 {
		return errors.New("per-room spawn counts must not be negative")
	}
	if c.Input.FrameMS <= 0 {
		return fmt.Errorf("frame_ms must be positive, got %d", c.Input.FrameMS)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			Width:       80,
			Height:      43,
			MaxRooms:    30,
			MinRoomSize: 6,
			MaxRoomSize: 10,
		},
		Game: GameConfig{
			LogCapacity:     127,
			MonstersPerRoom: 4,
			ItemsPerRoom:    2,
		},
		Save: SaveConfig{
			Path: "savegame.json",
		},
		Input: InputConfig{
			FrameMS:           33,
			MinDelayFrames:    3,  // ~100ms at 30fps
			RepeatDelayFrames: 15, // ~500ms at 30fps
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "dungeon.log",
		},
		Server: ServerConfig{
			Port:        2222,
			HostKeyPath: "host_key",
		},
	}
}
