// Package plugin runs external executables in response to game events,
// e.g. to speak a cheer or raise a desktop notification when a child
// completes a target.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/handplay/internal/game"
)

// Manifest describes a plugin. It lives in plugin.json next to the executable.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Events lists the event kinds the plugin wants. Empty means none.
	Events []game.EventKind `json:"events"`
	// Modules restricts delivery to these modules. Empty means all.
	Modules []string `json:"modules,omitempty"`
	// Config is passed through to every request.
	Config json.RawMessage `json:"config,omitempty"`
}

// Request is written to the plugin's stdin.
type Request struct {
	Event  game.Event      `json:"event"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin and where it lives.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Wants reports whether the plugin subscribes to ev.
func (p *Plugin) Wants(ev game.Event) bool {
	kindOK := false
	for _, k := range p.Manifest.Events {
		if k == ev.Kind {
			kindOK = true
			break
		}
	}
	if !kindOK {
		return false
	}

	if len(p.Manifest.Modules) == 0 {
		return true
	}
	for _, m := range p.Manifest.Modules {
		if m == ev.Module {
			return true
		}
	}
	return false
}
