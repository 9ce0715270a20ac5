// Package config holds the display settings of the course format.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/mawang/internal/domain"
	"github.com/alexanderramin/mawang/internal/validate"
)

const (
	MinSectionDepth = 1
	MaxSectionDepth = 100
)

type Settings struct {
	Indentation          bool                      `yaml:"indentation"`
	MaxSectionDepth      int                       `yaml:"maxsectiondepth" validate:"gte=0"`
	MaxTopLevelSections  int                       `yaml:"maxtoplevelsections" validate:"gte=1"`
	CourseIndexDisplay   domain.CourseIndexDisplay `yaml:"courseindexdisplay" validate:"oneof=full sections none"`
	CMBackLink           bool                      `yaml:"cmbacklink"`
	CourseIndexAutoClose bool                      `yaml:"courseindexautoclose"`
	AutoBlockOpen        []string                  `yaml:"autoblockopen" validate:"dive,notblank"`
	DefaultSectionImage  string                    `yaml:"defaultsectionimage"`
	DurationFieldName    string                    `yaml:"durationfieldname" validate:"notblank"`
	IsVideoFieldName     string                    `yaml:"isvideofieldname" validate:"notblank"`
	VideoCacheTTL        time.Duration             `yaml:"videocachettl" validate:"gte=0"`
	Language             string                    `yaml:"language" validate:"oneof=en nl"`
	RedisAddr            string                    `yaml:"redisaddr" validate:"omitempty,hostname_port"`
	WWWRoot              string                    `yaml:"wwwroot" validate:"omitempty,url"`
}

func Default() Settings {
	return Settings{
		Indentation:          true,
		MaxSectionDepth:      2,
		MaxTopLevelSections:  52,
		CourseIndexDisplay:   domain.CourseIndexFull,
		CMBackLink:           false,
		CourseIndexAutoClose: true,
		DurationFieldName:    "duration",
		IsVideoFieldName:     "isvideo",
		VideoCacheTTL:        24 * time.Hour,
		Language:             "en",
	}
}

// EffectiveMaxDepth clamps MaxSectionDepth to the supported range.
func (s Settings) EffectiveMaxDepth() int {
	switch {
	case s.MaxSectionDepth < MinSectionDepth:
		return MinSectionDepth
	case s.MaxSectionDepth > MaxSectionDepth:
		return MaxSectionDepth
	default:
		return s.MaxSectionDepth
	}
}

// AutoOpens reports whether the module type's block opens automatically.
func (s Settings) AutoOpens(modname string) bool {
	for _, m := range s.AutoBlockOpen {
		if m == modname {
			return true
		}
	}
	return false
}

func (s Settings) Validate() error {
	return validate.Struct(s)
}

// LoadFile reads settings from a YAML file on top of the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (Settings, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is ~/.mawang/config.yaml, or MAWANG_CONFIG when set.
func DefaultPath() string {
	if v := os.Getenv("MAWANG_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".mawang", "config.yaml")
}

// LoadConfig reads the config file, applies MAWANG_* environment overrides
// and validates the result.
func LoadConfig() (Settings, error) {
	cfg, err := LoadFile(DefaultPath())
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Settings) {
	if v := os.Getenv("MAWANG_INDENTATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Indentation = b
		}
	}
	if v := os.Getenv("MAWANG_MAX_SECTION_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSectionDepth = n
		}
	}
	if v := os.Getenv("MAWANG_MAX_TOPLEVEL_SECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTopLevelSections = n
		}
	}
	if v := os.Getenv("MAWANG_COURSE_INDEX_DISPLAY"); v != "" {
		cfg.CourseIndexDisplay = domain.CourseIndexDisplay(v)
	}
	if v := os.Getenv("MAWANG_CM_BACK_LINK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CMBackLink = b
		}
	}
	if v := os.Getenv("MAWANG_COURSE_INDEX_AUTO_CLOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CourseIndexAutoClose = b
		}
	}
	if v := os.Getenv("MAWANG_AUTO_BLOCK_OPEN"); v != "" {
		cfg.AutoBlockOpen = splitList(v)
	}
	if v := os.Getenv("MAWANG_DEFAULT_SECTION_IMAGE"); v != "" {
		cfg.DefaultSectionImage = v
	}
	if v := os.Getenv("MAWANG_DURATION_FIELD"); v != "" {
		cfg.DurationFieldName = v
	}
	if v := os.Getenv("MAWANG_ISVIDEO_FIELD"); v != "" {
		cfg.IsVideoFieldName = v
	}
	if v := os.Getenv("MAWANG_VIDEO_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.VideoCacheTTL = d
		}
	}
	if v := os.Getenv("MAWANG_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("MAWANG_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("MAWANG_WWWROOT"); v != "" {
		cfg.WWWRoot = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
