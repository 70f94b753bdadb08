package config

const (
	// ProfileTerminal sizes the grid in terminal cells.
	ProfileTerminal = "terminal"
	// ProfileSpringboard reproduces the classic phone springboard in pixels.
	ProfileSpringboard = "springboard"
)

// BuiltinProfiles returns the built-in profile library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional custom profiles in their config file.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		ProfileTerminal: {
			Columns:    4,
			Rows:       4,
			Gutter:     2,
			Inset:      4,
			IconAspect: 0.25,
		},
		ProfileSpringboard: {
			Columns:    4,
			Rows:       6,
			Gutter:     10,
			Inset:      20,
			IconAspect: 1,
			PointerOffset: PointerOffset{
				X: 10,
				Y: 30,
			},
		},
	}
}
