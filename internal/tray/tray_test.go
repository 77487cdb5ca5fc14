package tray

import (
	"testing"

	"github.com/ayusman/handplay/internal/game"
)

func TestModuleTitle(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{game.ModuleCounting, "Counting"},
		{game.ModuleSocial, "Social Skills"},
		{game.ModuleShapes, "Shapes"},
		{game.ModuleBridgeBuilder, "Bridge Builder"},
		{"free_draw", "Free Draw"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ModuleTitle(tt.module); got != tt.want {
			t.Errorf("ModuleTitle(%q) = %q, want %q", tt.module, got, tt.want)
		}
	}
}

func TestTray_Emit(t *testing.T) {
	tr := New(game.ModuleCounting, game.ModuleSocial)

	if target, last := tr.Titles(); target != "No module running" || last != "Last: none" {
		t.Fatalf("initial titles = %q, %q", target, last)
	}

	steps := []struct {
		ev         game.Event
		wantTarget string
		wantLast   string
	}{
		{game.Event{Kind: game.EventTargetPresented, Module: game.ModuleCounting, Target: "3"}, "Counting: show 3", "Last: none"},
		{game.Event{Kind: game.EventGestureDetected, Module: game.ModuleCounting, Label: "2"}, "Counting: show 3", "Last: 2"},
		{game.Event{Kind: game.EventTargetAchieved, Module: game.ModuleCounting, Target: "3"}, "Counting: show 3", "Last: 2"},
		{game.Event{Kind: game.EventModuleComplete, Module: game.ModuleCounting}, "Counting: all done!", "Last: 2"},
	}
	for i, step := range steps {
		tr.Emit(step.ev)
		target, last := tr.Titles()
		if target != step.wantTarget || last != step.wantLast {
			t.Errorf("step %d: titles = %q, %q; want %q, %q", i, target, last, step.wantTarget, step.wantLast)
		}
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New(game.ModuleShapes)

	var toggled []bool
	tr.OnToggle(func(enabled bool) { toggled = append(toggled, enabled) })
	var modules []string
	tr.OnModule(func(module string) { modules = append(modules, module) })
	opened := 0
	tr.OnOpen(func() { opened++ })

	tr.handleToggle()
	tr.handleToggle()
	if len(toggled) != 2 || !toggled[0] || toggled[1] {
		t.Errorf("toggles = %v, want [true false]", toggled)
	}

	tr.SetEnabled(true)
	if !tr.IsEnabled() || len(toggled) != 2 {
		t.Error("SetEnabled should update state without calling OnToggle")
	}

	tr.SetLastGesture("square")
	tr.handleModule(game.ModuleShapes)
	if target, last := tr.Titles(); target != "Shapes" || last != "Last: none" {
		t.Errorf("titles after start = %q, %q", target, last)
	}
	tr.handleModule("")
	if len(modules) != 2 || modules[0] != game.ModuleShapes || modules[1] != "" {
		t.Errorf("modules = %v", modules)
	}

	tr.handleOpen()
	if opened != 1 {
		t.Errorf("opened = %d, want 1", opened)
	}
}
