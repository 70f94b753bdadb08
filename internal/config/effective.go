package config

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultBuiltinProfile = ProfileTerminal
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.Profile != nil {
		cfg.Profile = *raw.Profile
	}
	if raw.Timing != nil {
		if raw.Timing.LongPress != nil {
			cfg.Timing.LongPress = *raw.Timing.LongPress
		}
		if raw.Timing.WiggleLeg != nil {
			cfg.Timing.WiggleLeg = *raw.Timing.WiggleLeg
		}
		if raw.Timing.SnapBack != nil {
			cfg.Timing.SnapBack = *raw.Timing.SnapBack
		}
		if raw.Timing.FrameRate != nil {
			cfg.Timing.FrameRate = *raw.Timing.FrameRate
		}
	}
	if raw.Spring != nil {
		if raw.Spring.Frequency != nil {
			cfg.Spring.Frequency = *raw.Spring.Frequency
		}
		if raw.Spring.Damping != nil {
			cfg.Spring.Damping = *raw.Spring.Damping
		}
	}
	if raw.Apps != nil {
		cfg.Apps = make([]AppEntry, 0, len(raw.Apps))
		for _, app := range raw.Apps {
			app.ID = strings.TrimSpace(app.ID)
			if strings.TrimSpace(app.Name) == "" {
				app.Name = app.ID
			}
			cfg.Apps = append(cfg.Apps, app)
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Logging != nil {
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		if raw.Logging.Format != nil {
			cfg.Logging.Format = *raw.Logging.Format
		}
	}

	profileBases, err := applyProfiles(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	return cfg, profileBases, nil
}

func applyProfiles(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinProfiles()

	// Start with built-ins.
	cfg.Profiles = make(map[string]Profile, len(builtin))
	for name, profile := range builtin {
		cfg.Profiles[name] = profile
	}

	profileBases := make(map[string]string)
	for name := range cfg.Profiles {
		profileBases[name] = name
	}

	// Apply user profile patches in a stable order so errors are reproducible.
	for _, name := range sortedKeys(raw.Profiles) {
		patch := raw.Profiles[name]
		baseName, baseProfile, err := selectProfileBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}

		merged := mergeProfilePatch(baseProfile, patch)
		if err := validateProfile(&merged); err != nil {
			return nil, &ValidationError{Path: "profiles." + name, Err: err}
		}

		cfg.Profiles[name] = merged
		profileBases[name] = baseName
	}

	return profileBases, nil
}

func selectProfileBase(name string, patch RawProfile, builtin map[string]Profile) (string, Profile, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinProfile
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Profile{}, &ValidationError{
				Path: "profiles." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	baseProfile, ok := builtin[baseName]
	if !ok {
		return "", Profile{}, &ValidationError{
			Path: "profiles." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin profile %q", baseName),
		}
	}

	return baseName, baseProfile, nil
}

func mergeProfilePatch(base Profile, patch RawProfile) Profile {
	out := base

	if patch.Columns != nil {
		out.Columns = *patch.Columns
	}
	if patch.Rows != nil {
		out.Rows = *patch.Rows
	}
	if patch.Gutter != nil {
		out.Gutter = *patch.Gutter
	}
	if patch.Inset != nil {
		out.Inset = *patch.Inset
	}
	if patch.IconAspect != nil {
		out.IconAspect = *patch.IconAspect
	}
	if patch.PointerOffset != nil {
		out.PointerOffset.X = derefFloat(patch.PointerOffset.X, out.PointerOffset.X)
		out.PointerOffset.Y = derefFloat(patch.PointerOffset.Y, out.PointerOffset.Y)
	}

	return out
}

func derefFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
