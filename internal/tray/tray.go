// Package tray provides the desktop system tray for handplay: camera toggle,
// module picker and a live view of the current target.
package tray

import (
	"strings"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handplay/internal/game"
)

// Tray represents the system tray application. It is a game.Sink: events
// from the running module update the status lines.
type Tray struct {
	onToggle func(enabled bool)
	onModule func(module string)
	onOpen   func()
	onQuit   func()
	modules  []string
	mu       sync.RWMutex

	enabled bool
	module  string
	target  string
	done    bool
	last    string

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuTarget      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray offering the given modules. The camera starts disabled.
func New(modules ...string) *Tray {
	return &Tray{modules: modules}
}

// OnToggle sets the callback function to be called when the camera is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnModule sets the callback for the module menu. An empty module means stop.
func (t *Tray) OnModule(fn func(module string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onModule = fn
}

// OnOpen sets the callback function to be called when the open menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Handplay")
	systray.SetTooltip("Handplay hand gesture games")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Turn the camera on or off")
	systray.AddSeparator()

	t.menuTarget = systray.AddMenuItem(targetTitle(t.module, t.target, t.done), "Current target")
	t.menuTarget.Disable()
	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Last detected gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	for _, m := range t.modules {
		item := systray.AddMenuItem("Play "+ModuleTitle(m), "Start "+ModuleTitle(m))
		go func(module string) {
			for range item.ClickedCh {
				t.handleModule(module)
			}
		}(m)
	}
	menuStop := systray.AddMenuItem("Stop", "Stop the running module")
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open in Browser...", "Open handplay in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Handplay")
	menuToggle := t.menuToggle
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuStop.ClickedCh:
				t.handleModule("")
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleModule handles a module or stop menu item click.
func (t *Tray) handleModule(module string) {
	t.mu.Lock()
	t.module, t.target, t.done, t.last = module, "", false, ""
	t.refreshLocked()
	callback := t.onModule
	t.mu.Unlock()

	if callback != nil {
		callback(module)
	}
}

// handleOpen handles the open menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Emit updates the status lines from a game event.
func (t *Tray) Emit(ev game.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case game.EventGestureDetected:
		t.last = ev.Label
	case game.EventTargetPresented:
		t.module, t.target, t.done = ev.Module, ev.Target, false
	case game.EventModuleComplete:
		t.module, t.target, t.done = ev.Module, "", true
	default:
		return
	}
	t.refreshLocked()
}

// SetEnabled sets the camera state shown in the menu without calling OnToggle.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = name
	t.refreshLocked()
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Titles returns the status lines as they appear in the menu.
func (t *Tray) Titles() (target, last string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return targetTitle(t.module, t.target, t.done), lastTitle(t.last)
}

// refreshLocked pushes the status lines to the menu. Caller holds mu.
func (t *Tray) refreshLocked() {
	if t.menuTarget != nil {
		t.menuTarget.SetTitle(targetTitle(t.module, t.target, t.done))
	}
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(t.last))
	}
}

// ModuleTitle returns the menu name of a module.
func ModuleTitle(module string) string {
	switch module {
	case game.ModuleCounting:
		return "Counting"
	case game.ModuleSocial:
		return "Social Skills"
	case game.ModuleShapes:
		return "Shapes"
	case game.ModuleBridgeBuilder:
		return "Bridge Builder"
	}
	words := strings.Fields(strings.ReplaceAll(module, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Camera On"
	}
	return "○ Camera Off"
}

func targetTitle(module, target string, done bool) string {
	switch {
	case module == "":
		return "No module running"
	case done:
		return ModuleTitle(module) + ": all done!"
	case target == "":
		return ModuleTitle(module)
	default:
		return ModuleTitle(module) + ": show " + target
	}
}

func lastTitle(label string) string {
	if label == "" {
		return "Last: none"
	}
	return "Last: " + label
}
