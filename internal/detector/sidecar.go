package detector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// sidecarIdleTimeout is how long the landmark process may sit unused before it is stopped.
const sidecarIdleTimeout = 30 * time.Second

// SidecarDetector runs the landmark model in a helper process.
// Each request is a 4-byte big-endian length followed by a JPEG frame; each
// reply is one JSON line in the DecodeFrame format.
type SidecarDetector struct {
	config    Config
	script    string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewSidecarDetector locates the landmark script. The process itself is
// started lazily on the first Detect call.
func NewSidecarDetector(config Config) (*SidecarDetector, error) {
	script := config.ScriptPath
	if script == "" {
		script = findScript("landmarks_service.py")
	}
	if script == "" {
		return nil, fmt.Errorf("landmarks_service.py not found")
	}

	return &SidecarDetector{config: config, script: script}, nil
}

// Detect sends one frame to the sidecar and returns the hands it reports.
func (d *SidecarDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	if _, err := d.stdin.Write(header); err != nil {
		d.shutdown()
		return nil, fmt.Errorf("write frame header: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		d.shutdown()
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		d.shutdown()
		return nil, fmt.Errorf("read landmarks: %w", err)
	}

	parsed, err := DecodeFrame(line, time.Now())
	if err != nil {
		return nil, err
	}

	d.resetIdleTimer()
	return parsed.Hands, nil
}

// Close stops the sidecar process if it is running.
func (d *SidecarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *SidecarDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	python := findScript("venv/bin/python")
	if python == "" {
		python = "python3"
	}

	cmd := exec.Command(python, d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection", strconv.FormatFloat(d.config.MinDetection, 'f', 2, 64),
		"--min-tracking", strconv.FormatFloat(d.config.MinTracking, 'f', 2, 64),
	)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start landmark sidecar: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	return nil
}

func (d *SidecarDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	d.stdin.Close()
	err := d.cmd.Wait()

	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	return err
}

func (d *SidecarDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(sidecarIdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// findScript looks for a helper file next to the working directory, the
// executable, and under ~/.handplay.
func findScript(name string) string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", name),
		filepath.Join("..", "scripts", name),
		name,
		filepath.Join("..", name),
	}
	if execDir != "" {
		candidates = append(candidates,
			filepath.Join(execDir, "scripts", name),
			filepath.Join(execDir, name),
		)
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".handplay", "scripts", name),
			filepath.Join(home, ".handplay", name),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
