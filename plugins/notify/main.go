// Package main provides a plugin that raises a desktop notification when a
// module is finished. It uses AppleScript on macOS and notify-send elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
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
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

var moduleTitles = map[string]string{
	"counting":       "Counting",
	"social_skills":  "Social Skills",
	"shapes":         "Shapes",
	"bridge_builder": "Bridge Builder",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	if req.Event.Kind != "module_complete" {
		writeResponse(fmt.Errorf("unsupported event: %s", req.Event.Kind))
		return
	}

	writeResponse(notify("HandPlay", message(req.Event.Module)))
}

// message is the notification body for a finished module.
func message(module string) string {
	title, ok := moduleTitles[module]
	if !ok {
		title = module
	}
	return title + " complete!"
}

// notify shows a desktop notification.
func notify(title, body string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf(`display notification %s with title %s`, quote(body), quote(title))
		cmd = exec.Command("osascript", "-e", script)
	} else {
		cmd = exec.Command("notify-send", title, body)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// quote makes s an AppleScript string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
