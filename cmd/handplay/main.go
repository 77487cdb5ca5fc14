package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/ayusman/handplay/internal/app"
	"github.com/ayusman/handplay/internal/config"
	"github.com/ayusman/handplay/internal/server"
	"github.com/ayusman/handplay/internal/store"
	"github.com/ayusman/handplay/internal/tray"
)

func main() {
	fmt.Println("Handplay - Hand Gesture Learning Games")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()
	fmt.Printf("Using %s database\n", st.Dialect().Name())

	srvCfg := server.Config{
		StaticDir: cfg.WebDir,
		Store:     st,
	}
	if cfg.WebDir != "" {
		fmt.Printf("Serving static files from: %s\n", cfg.WebDir)
	}

	var application *app.App
	if cfg.Camera {
		application = app.New(app.Config{
			Store:          st,
			PluginDir:      cfg.PluginDir,
			CameraID:       cfg.CameraID,
			MirrorCamera:   cfg.MirrorCamera,
			MotionThresh:   cfg.MotionThreshold,
			DetectorScript: cfg.DetectorScript,
		})
		defer application.Close()

		if err := application.DiscoverPlugins(); err != nil {
			log.Printf("Failed to discover plugins: %v", err)
		}
		restoreCamera(st, application)
		if err := application.Start(); err != nil {
			log.Printf("Failed to start camera pipeline: %v", err)
		}
		srvCfg.App = application
	}

	srv := server.New(srvCfg)
	defer srv.Close()

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if cfg.Tray && application != nil {
		runTray(cfg, st, application)
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down")
}

// restoreCamera applies the saved camera setting.
func restoreCamera(st *store.Store, a *app.App) {
	value, err := st.Settings().GetDefault(context.Background(), store.SettingCameraEnabled, "true")
	if err != nil {
		log.Printf("Failed to read camera setting: %v", err)
		value = "true"
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		enabled = true
	}
	a.SetEnabled(enabled)
}

// runTray blocks running the system tray until Quit is chosen.
func runTray(cfg *config.Config, st *store.Store, a *app.App) {
	t := tray.New(app.FrameModules...)
	t.SetEnabled(a.IsEnabled())
	a.AddSink(t)

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if err := st.Settings().Set(context.Background(), store.SettingCameraEnabled, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to save camera setting: %v", err)
		}
	})
	t.OnModule(func(module string) {
		ctx := context.Background()
		if module == "" {
			a.StopModule(ctx)
			return
		}
		if _, err := a.StartModule(ctx, module); err != nil {
			log.Printf("Failed to start %s: %v", module, err)
		}
	})
	t.OnOpen(func() {
		if err := openBrowser(browserURL(cfg.Addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})
	t.OnQuit(func() {
		fmt.Println("Shutting down")
	})

	t.Run()
}

func browserURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
