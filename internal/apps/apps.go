// Package apps holds the launcher's app records and the shell that owns
// their order.
package apps

import (
	"strings"

	"github.com/1broseidon/termboard/internal/config"
)

// App is one launcher icon. ID is the only key used to track an icon across
// reorders.
type App struct {
	ID   string
	Icon string
	Name string
}

// FromConfig converts configured entries into apps.
func FromConfig(entries []config.AppEntry) []App {
	out := make([]App, 0, len(entries))
	for _, e := range entries {
		out = append(out, App{ID: e.ID, Icon: e.Icon, Name: e.Name})
	}
	return out
}

// IDs returns the ids of list in order.
func IDs(list []App) []string {
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return ids
}

// Index returns the position of id in list, or -1.
func Index(list []App, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// SameMembers reports whether a and b hold the same ids, ignoring order.
func SameMembers(a, b []App) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, app := range a {
		counts[app.ID]++
	}
	for _, app := range b {
		counts[app.ID]--
		if counts[app.ID] < 0 {
			return false
		}
	}
	return true
}

// Label is the short glyph drawn inside an icon.
func (a App) Label() string {
	if a.Icon != "" {
		return a.Icon
	}
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = a.ID
	}
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[:1]))
}
