// Package main provides a plugin that speaks a short cheer when the child
// reaches a target. It uses say on macOS and espeak elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event  Event           `json:"event"`
	Config json.RawMessage `json:"config"`
}

// Event is the subset of the game event the plugin reads.
type Event struct {
	Kind   string `json:"kind"`
	Module string `json:"module"`
	Target string `json:"target"`
	Level  int    `json:"level"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config holds the plugin settings from plugin.json.
type Config struct {
	Voice string `json:"voice"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	phrase := cheerFor(req.Event)
	if phrase == "" {
		writeErrorResponse(fmt.Sprintf("nothing to say for %s", req.Event.Kind))
		return
	}

	if err := speak(phrase, cfg.Voice); err != nil {
		writeErrorResponse(fmt.Sprintf("speak failed: %v", err))
		return
	}

	data, _ := json.Marshal(map[string]string{"spoken": phrase})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// cheerFor picks the phrase for an event. It returns "" for events the
// plugin does not speak.
func cheerFor(e Event) string {
	switch e.Kind {
	case "target_achieved":
		switch e.Module {
		case "counting":
			return fmt.Sprintf("Great job! That's %s!", e.Target)
		case "social_skills":
			return fmt.Sprintf("Wonderful %s!", e.Target)
		case "shapes":
			return fmt.Sprintf("You made a %s!", e.Target)
		}
		return "Well done!"
	case "level_advanced":
		return fmt.Sprintf("Bridge fixed! On to level %d.", e.Level)
	case "module_complete":
		return "You finished them all. Amazing!"
	}
	return ""
}

// speak says phrase aloud with the platform speech tool.
func speak(phrase, voice string) error {
	bin := "espeak"
	if runtime.GOOS == "darwin" {
		bin = "say"
	}

	var args []string
	if voice != "" {
		args = append(args, "-v", voice)
	}
	cmd := exec.Command(bin, append(args, phrase)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}
