package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	ModelDir   string `json:"model_dir"`
	TextureDir string `json:"texture_dir"`
	OutputDir  string `json:"output_dir"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	WebPQuality int     `json:"webp_quality"`
	Workers     int     `json:"workers"`
	Yaw         float64 `json:"yaw"`
	Pitch       float64 `json:"pitch"`

	// Geometry settings
	SkipShaders   []string `json:"skip_shaders"`
	StrictNormals bool     `json:"strict_normals"`
	IndexWidth    int      `json:"index_width"`

	// Models holds per-model overrides keyed by mesh file stem.
	Models map[string]ModelOverride `json:"models"`

	yawSet, pitchSet bool
}

// ModelOverride replaces view and filter settings for one model. Nil
// fields fall back to the global value.
type ModelOverride struct {
	Yaw         *float64 `json:"yaw"`
	Pitch       *float64 `json:"pitch"`
	SkipShaders []string `json:"skip_shaders"`
}

// Model is the effective configuration for one model.
type Model struct {
	Yaw         float64
	Pitch       float64
	SkipShaders []string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Zero is a valid angle, so presence is tracked separately.
	var present struct {
		Yaw   *float64 `json:"yaw"`
		Pitch *float64 `json:"pitch"`
	}
	if err := json.Unmarshal(data, &present); err == nil {
		cfg.yawSet = present.Yaw != nil
		cfg.pitchSet = present.Pitch != nil
	}

	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.ModelDir != "" {
		c.ModelDir = flags.ModelDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Strict {
		c.StrictNormals = true
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		c.ModelDir = resolvePath(c.BaseDir, c.ModelDir, "models")
		c.TextureDir = resolvePath(c.BaseDir, c.TextureDir, "textures")
		c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, "renders")
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.WebPQuality > 100 {
		c.WebPQuality = 100
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if !c.yawSet && c.Yaw == 0 {
		c.Yaw = 30
	}
	if !c.pitchSet && c.Pitch == 0 {
		c.Pitch = -15
	}

	switch c.IndexWidth {
	case 0:
		c.IndexWidth = 16
	case 8, 16, 32:
	default:
		return fmt.Errorf("config: index_width %d: want 8, 16 or 32", c.IndexWidth)
	}
	return nil
}

// ForModel returns the settings for the model with the given stem,
// applying its override on top of the global values.
func (c *Config) ForModel(name string) Model {
	m := Model{Yaw: c.Yaw, Pitch: c.Pitch, SkipShaders: c.SkipShaders}
	o, ok := c.Models[name]
	if !ok {
		return m
	}
	if o.Yaw != nil {
		m.Yaw = *o.Yaw
	}
	if o.Pitch != nil {
		m.Pitch = *o.Pitch
	}
	if o.SkipShaders != nil {
		m.SkipShaders = o.SkipShaders
	}
	return m
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	ModelDir  string
	OutputDir string
	Quality   int
	Workers   int
	Size      int
	Strict    bool
}

func resolvePath(base, p, def string) string {
	if p == "" {
		return filepath.Join(base, def)
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(base, p)
	}
	return p
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if _, err := os.Stat(filepath.Join(base, "models")); err == nil {
				return base
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, "models")); err == nil {
		return cwd
	}
	return ""
}
