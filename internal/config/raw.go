package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "apps.yaml"
//	  - "/path/to/file.yaml"
//
// Relative paths resolve against the including file.
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawPointerOffset struct {
	X *float64 `yaml:"x"`
	Y *float64 `yaml:"y"`
}

type RawProfile struct {
	Inherits      *string           `yaml:"inherits"`
	Columns       *int              `yaml:"columns"`
	Rows          *int              `yaml:"rows"`
	Gutter        *float64          `yaml:"gutter"`
	Inset         *float64          `yaml:"inset"`
	IconAspect    *float64          `yaml:"icon_aspect"`
	PointerOffset *RawPointerOffset `yaml:"pointer_offset"`
}

type RawTiming struct {
	LongPress *Duration `yaml:"long_press"`
	WiggleLeg *Duration `yaml:"wiggle_leg"`
	SnapBack  *Duration `yaml:"snap_back"`
	FrameRate *int      `yaml:"frame_rate"`
}

type RawSpring struct {
	Frequency *float64 `yaml:"frequency"`
	Damping   *float64 `yaml:"damping"`
}

type RawLoggingConfig struct {
	File   *string `yaml:"file"`
	Format *string `yaml:"format"`
}

type RawConfig struct {
	Include  IncludeList           `yaml:"include"`
	Profile  *string               `yaml:"profile"`
	Profiles map[string]RawProfile `yaml:"profiles"`
	Timing   *RawTiming            `yaml:"timing"`
	Spring   *RawSpring            `yaml:"spring"`
	// Apps replaces the whole list; later files win.
	Apps     []AppEntry        `yaml:"apps"`
	LogLevel *string           `yaml:"log_level"`
	Logging  *RawLoggingConfig `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Profile != nil {
		out.Profile = overlay.Profile
	}
	if overlay.Profiles != nil {
		if out.Profiles == nil {
			out.Profiles = make(map[string]RawProfile)
		} else {
			cloned := make(map[string]RawProfile, len(out.Profiles))
			for k, v := range out.Profiles {
				cloned[k] = v
			}
			out.Profiles = cloned
		}
		for name, profile := range overlay.Profiles {
			out.Profiles[name] = mergeRawProfile(out.Profiles[name], profile)
		}
	}
	if overlay.Timing != nil {
		if out.Timing == nil {
			out.Timing = &RawTiming{}
		}
		merged := mergeRawTiming(*out.Timing, *overlay.Timing)
		out.Timing = &merged
	}
	if overlay.Spring != nil {
		if out.Spring == nil {
			out.Spring = &RawSpring{}
		}
		merged := mergeRawSpring(*out.Spring, *overlay.Spring)
		out.Spring = &merged
	}
	if overlay.Apps != nil {
		out.Apps = append([]AppEntry(nil), overlay.Apps...)
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		if overlay.Logging.Format != nil {
			merged.Format = overlay.Logging.Format
		}
		out.Logging = &merged
	}

	return out
}

func mergeRawProfile(base RawProfile, overlay RawProfile) RawProfile {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Columns != nil {
		out.Columns = overlay.Columns
	}
	if overlay.Rows != nil {
		out.Rows = overlay.Rows
	}
	if overlay.Gutter != nil {
		out.Gutter = overlay.Gutter
	}
	if overlay.Inset != nil {
		out.Inset = overlay.Inset
	}
	if overlay.IconAspect != nil {
		out.IconAspect = overlay.IconAspect
	}
	if overlay.PointerOffset != nil {
		merged := RawPointerOffset{}
		if out.PointerOffset != nil {
			merged = *out.PointerOffset
		}
		if overlay.PointerOffset.X != nil {
			merged.X = overlay.PointerOffset.X
		}
		if overlay.PointerOffset.Y != nil {
			merged.Y = overlay.PointerOffset.Y
		}
		out.PointerOffset = &merged
	}
	return out
}

func mergeRawTiming(base RawTiming, overlay RawTiming) RawTiming {
	out := base
	if overlay.LongPress != nil {
		out.LongPress = overlay.LongPress
	}
	if overlay.WiggleLeg != nil {
		out.WiggleLeg = overlay.WiggleLeg
	}
	if overlay.SnapBack != nil {
		out.SnapBack = overlay.SnapBack
	}
	if overlay.FrameRate != nil {
		out.FrameRate = overlay.FrameRate
	}
	return out
}

func mergeRawSpring(base RawSpring, overlay RawSpring) RawSpring {
	out := base
	if overlay.Frequency != nil {
		out.Frequency = overlay.Frequency
	}
	if overlay.Damping != nil {
		out.Damping = overlay.Damping
	}
	return out
}
