package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	profile
//	profiles.<name>.columns
//	profiles.<name>.pointer_offset.y
//	timing.long_press
//	timing.frame_rate
//	spring.frequency
//	apps
//	apps.<index>.id
//	log_level
//	logging.format
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// A list element inherits the source of the list.
	if strings.HasPrefix(path, "apps.") {
		if src, ok := res.Sources["apps"]; ok {
			return value, src, nil
		}
	}

	if strings.HasPrefix(path, "profiles.") {
		name := profileNameFromPath(path)
		base := ""
		if name != "" {
			base = res.ProfileBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func profileNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "profiles" {
		return ""
	}
	return parts[1]
}

func unknownPath(path string) error {
	return fmt.Errorf("unknown path: %s", path)
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "profile":
		if len(parts) != 1 {
			return nil, unknownPath(path)
		}
		return cfg.Profile, nil
	case "log_level":
		if len(parts) != 1 {
			return nil, unknownPath(path)
		}
		return cfg.LogLevel, nil
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) != 2 {
			return nil, unknownPath(path)
		}
		switch parts[1] {
		case "file":
			return cfg.Logging.File, nil
		case "format":
			return cfg.Logging.Format, nil
		default:
			return nil, unknownPath(path)
		}
	case "timing":
		if len(parts) == 1 {
			return cfg.Timing, nil
		}
		if len(parts) != 2 {
			return nil, unknownPath(path)
		}
		switch parts[1] {
		case "long_press":
			return cfg.Timing.LongPress.String(), nil
		case "wiggle_leg":
			return cfg.Timing.WiggleLeg.String(), nil
		case "snap_back":
			return cfg.Timing.SnapBack.String(), nil
		case "frame_rate":
			return cfg.Timing.FrameRate, nil
		default:
			return nil, unknownPath(path)
		}
	case "spring":
		if len(parts) == 1 {
			return cfg.Spring, nil
		}
		if len(parts) != 2 {
			return nil, unknownPath(path)
		}
		switch parts[1] {
		case "frequency":
			return cfg.Spring.Frequency, nil
		case "damping":
			return cfg.Spring.Damping, nil
		default:
			return nil, unknownPath(path)
		}
	case "apps":
		if len(parts) == 1 {
			return cfg.Apps, nil
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx >= len(cfg.Apps) {
			return nil, fmt.Errorf("unknown apps entry %q", parts[1])
		}
		app := cfg.Apps[idx]
		if len(parts) == 2 {
			return app, nil
		}
		if len(parts) != 3 {
			return nil, unknownPath(path)
		}
		switch parts[2] {
		case "id":
			return app.ID, nil
		case "name":
			return app.Name, nil
		case "icon":
			return app.Icon, nil
		default:
			return nil, unknownPath(path)
		}
	case "profiles":
		if len(parts) < 2 {
			return cfg.Profiles, nil
		}
		name := parts[1]
		profile, ok := cfg.Profiles[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", name)
		}
		if len(parts) == 2 {
			return profile, nil
		}
		switch parts[2] {
		case "columns", "rows", "gutter", "inset", "icon_aspect":
			if len(parts) != 3 {
				return nil, unknownPath(path)
			}
			return profileScalar(profile, parts[2]), nil
		case "pointer_offset":
			if len(parts) == 3 {
				return profile.PointerOffset, nil
			}
			if len(parts) != 4 {
				return nil, unknownPath(path)
			}
			switch parts[3] {
			case "x":
				return profile.PointerOffset.X, nil
			case "y":
				return profile.PointerOffset.Y, nil
			default:
				return nil, unknownPath(path)
			}
		default:
			return nil, unknownPath(path)
		}
	default:
		return nil, unknownPath(path)
	}
}

func profileScalar(p Profile, key string) any {
	switch key {
	case "columns":
		return p.Columns
	case "rows":
		return p.Rows
	case "gutter":
		return p.Gutter
	case "inset":
		return p.Inset
	default:
		return p.IconAspect
	}
}
