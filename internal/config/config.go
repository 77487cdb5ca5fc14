// Package config reads handplay's settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ayusman/handplay/internal/store"
)

// Config holds application configuration.
type Config struct {
	Addr      string
	DataDir   string
	Database  store.Config
	WebDir    string
	PluginDir string

	// Camera enables the desktop webcam pipeline. Browser clients can play
	// without it by streaming landmarks over WebSocket.
	Camera          bool
	CameraID        int
	MirrorCamera    bool
	MotionThreshold float64
	DetectorScript  string

	Tray bool
}

// Load reads configuration from environment variables with defaults.
// Files default to ~/.handplay.
func Load() (*Config, error) {
	dataDir := getEnv("HANDPLAY_DATA_DIR", defaultDataDir())

	cameraID, err := getEnvInt("HANDPLAY_CAMERA_ID", 0)
	if err != nil {
		return nil, err
	}
	threshold, err := getEnvFloat("HANDPLAY_MOTION_THRESHOLD", 1.0)
	if err != nil {
		return nil, err
	}
	camera, err := getEnvBool("HANDPLAY_CAMERA", false)
	if err != nil {
		return nil, err
	}
	mirror, err := getEnvBool("HANDPLAY_MIRROR", true)
	if err != nil {
		return nil, err
	}
	tray, err := getEnvBool("HANDPLAY_TRAY", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:    getEnv("HANDPLAY_ADDR", ":8080"),
		DataDir: dataDir,
		Database: store.Config{
			Type: getEnv("DB_TYPE", "sqlite"),
			Path: getEnv("DB_PATH", filepath.Join(dataDir, "handplay.db")),
			URL:  os.Getenv("DATABASE_URL"),
		},
		WebDir:          getEnv("HANDPLAY_WEB_DIR", findDir("web", dataDir)),
		PluginDir:       getEnv("HANDPLAY_PLUGIN_DIR", filepath.Join(dataDir, "plugins")),
		Camera:          camera,
		CameraID:        cameraID,
		MirrorCamera:    mirror,
		MotionThreshold: threshold,
		DetectorScript:  os.Getenv("HANDPLAY_DETECTOR_SCRIPT"),
		Tray:            tray,
	}, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".handplay"
	}
	return filepath.Join(home, ".handplay")
}

// findDir looks for name in the working directory, its parents and dataDir.
// It returns "" when none exists.
func findDir(name, dataDir string) string {
	for _, p := range []string{name, filepath.Join("..", name), filepath.Join("..", "..", name), filepath.Join(dataDir, name)} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
