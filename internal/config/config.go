package config

import (
	"fmt"
	"strings"
	"time"
)

// PointerOffset is subtracted from raw pointer coordinates before hit testing,
// accounting for padding and headers above the grid container.
type PointerOffset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Profile defines the geometry of the icon grid.
type Profile struct {
	Columns       int           `yaml:"columns"`
	Rows          int           `yaml:"rows"`
	Gutter        float64       `yaml:"gutter"`      // subtracted from the nominal cell width
	Inset         float64       `yaml:"inset"`       // icon width = cell width - inset
	IconAspect    float64       `yaml:"icon_aspect"` // icon height / icon width
	PointerOffset PointerOffset `yaml:"pointer_offset"`
}

// Timing configures the gesture and animation clocks.
type Timing struct {
	// LongPress is how long a press must be held before edit mode starts.
	LongPress Duration `yaml:"long_press"`
	// WiggleLeg is the duration of one leg of the wiggle wave.
	WiggleLeg Duration `yaml:"wiggle_leg"`
	// SnapBack is how long a released icon takes to return to its slot.
	SnapBack Duration `yaml:"snap_back"`
	// FrameRate drives animation ticks in the TUI.
	FrameRate int `yaml:"frame_rate"`
}

// Spring configures the harmonica springs used for settling icons.
type Spring struct {
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// AppEntry is one launcher icon.
type AppEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon,omitempty"`
}

// LoggingConfig configures the log sink.
type LoggingConfig struct {
	// File is the log file path (default: $XDG_STATE_HOME/termboard/termboard.log)
	File string `yaml:"file,omitempty"`
	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`
}

type Config struct {
	Profile  string             `yaml:"profile"`
	Profiles map[string]Profile `yaml:"profiles"`
	Timing   Timing             `yaml:"timing"`
	Spring   Spring             `yaml:"spring"`
	Apps     []AppEntry         `yaml:"apps"`
	LogLevel string             `yaml:"log_level"`
	Logging  LoggingConfig      `yaml:"logging,omitempty"`
}

const (
	DefaultLongPress = 300 * time.Millisecond
	DefaultWiggleLeg = 100 * time.Millisecond
	DefaultSnapBack  = 100 * time.Millisecond
	DefaultFrameRate = 60
)

func DefaultConfig() *Config {
	return &Config{
		Profile:  DefaultBuiltinProfile,
		Profiles: BuiltinProfiles(),
		Timing: Timing{
			LongPress: Duration{DefaultLongPress},
			WiggleLeg: Duration{DefaultWiggleLeg},
			SnapBack:  Duration{DefaultSnapBack},
			FrameRate: DefaultFrameRate,
		},
		Spring: Spring{
			Frequency: 7.0,
			Damping:   0.6,
		},
		Apps:     DefaultApps(),
		LogLevel: "info",
		Logging: LoggingConfig{
			Format: "text",
		},
	}
}

// DefaultApps is the app list shown when the config names none.
func DefaultApps() []AppEntry {
	return []AppEntry{
		{ID: "calendar", Name: "Calendar", Icon: "C"},
		{ID: "mail", Name: "Mail", Icon: "M"},
		{ID: "notes", Name: "Notes", Icon: "N"},
		{ID: "music", Name: "Music", Icon: "♪"},
		{ID: "terminal", Name: "Terminal", Icon: ">"},
		{ID: "weather", Name: "Weather", Icon: "☀"},
		{ID: "clock", Name: "Clock", Icon: "◷"},
	}
}

// GetProfile retrieves a profile by name with validation.
func (c *Config) GetProfile(name string) (*Profile, error) {
	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}

	if err := validateProfile(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", name, err)
	}

	return &profile, nil
}

// GetActiveProfile retrieves the profile selected by the profile key.
func (c *Config) GetActiveProfile() (*Profile, error) {
	return c.GetProfile(c.Profile)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if len(c.Profiles) == 0 {
		return &ValidationError{Path: "profiles", Err: fmt.Errorf("profiles must not be empty")}
	}
	if c.Profile == "" {
		return &ValidationError{Path: "profile", Err: fmt.Errorf("profile is required")}
	}
	if _, ok := c.Profiles[c.Profile]; !ok {
		return &ValidationError{Path: "profile", Err: fmt.Errorf("profile %q not found in profiles", c.Profile)}
	}
	for name, profile := range c.Profiles {
		profile := profile
		if err := validateProfile(&profile); err != nil {
			return &ValidationError{Path: "profiles." + name, Err: err}
		}
	}

	if c.Timing.LongPress.Duration <= 0 {
		return &ValidationError{Path: "timing.long_press", Err: fmt.Errorf("long_press must be > 0")}
	}
	if c.Timing.WiggleLeg.Duration <= 0 {
		return &ValidationError{Path: "timing.wiggle_leg", Err: fmt.Errorf("wiggle_leg must be > 0")}
	}
	if c.Timing.SnapBack.Duration < 0 {
		return &ValidationError{Path: "timing.snap_back", Err: fmt.Errorf("snap_back must be >= 0")}
	}
	if c.Timing.FrameRate < 1 || c.Timing.FrameRate > 240 {
		return &ValidationError{Path: "timing.frame_rate", Err: fmt.Errorf("frame_rate must be between 1 and 240")}
	}
	if c.Spring.Frequency <= 0 {
		return &ValidationError{Path: "spring.frequency", Err: fmt.Errorf("frequency must be > 0")}
	}
	if c.Spring.Damping <= 0 {
		return &ValidationError{Path: "spring.damping", Err: fmt.Errorf("damping must be > 0")}
	}

	seen := make(map[string]struct{}, len(c.Apps))
	for i, app := range c.Apps {
		path := fmt.Sprintf("apps.%d", i)
		if strings.TrimSpace(app.ID) == "" {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("id is required")}
		}
		if _, dup := seen[app.ID]; dup {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate app id %q", app.ID)}
		}
		seen[app.ID] = struct{}{}
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}

	return nil
}

// Warnings lists non-fatal problems with an otherwise valid config.
func (c *Config) Warnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string

	// The drawn grid holds rows x items-per-line, which depends on the
	// container width. Only the nominal count is known here.
	if profile, ok := c.Profiles[c.Profile]; ok {
		slots := profile.Columns * profile.Rows
		if len(c.Apps) > slots {
			warnings = append(warnings, fmt.Sprintf("%d apps exceed the %d nominal slots (columns x rows) of profile %q; icons past the drawn grid continue below it", len(c.Apps), slots, c.Profile))
		}
	}
	return warnings
}

// validateProfile checks if a profile configuration is valid.
func validateProfile(profile *Profile) error {
	if profile.Columns <= 0 || profile.Rows <= 0 {
		return fmt.Errorf("columns and rows must be positive")
	}
	if profile.Gutter < 0 {
		return fmt.Errorf("gutter must be >= 0")
	}
	if profile.Inset < 0 {
		return fmt.Errorf("inset must be >= 0")
	}
	if profile.IconAspect <= 0 {
		return fmt.Errorf("icon_aspect must be > 0")
	}
	return nil
}
