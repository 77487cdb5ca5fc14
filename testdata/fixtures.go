package testdata

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ayusman/handplay/internal/detector"
)

//go:embed hands/*.json
var handsFS embed.FS

// LoadFrame loads a recorded landmark frame by name, without the .json suffix.
func LoadFrame(name string) (detector.Frame, error) {
	data, err := handsFS.ReadFile(path.Join("hands", name+".json"))
	if err != nil {
		return detector.Frame{}, fmt.Errorf("load frame %s: %w", name, err)
	}

	frame, err := detector.DecodeFrame(data, time.Time{})
	if err != nil {
		return detector.Frame{}, fmt.Errorf("decode frame %s: %w", name, err)
	}
	return frame, nil
}

// LoadHands loads the hands of a recorded frame.
func LoadHands(name string) ([]detector.Hand, error) {
	frame, err := LoadFrame(name)
	if err != nil {
		return nil, err
	}
	return frame.Hands, nil
}

// Names lists every recorded frame in sorted order.
func Names() ([]string, error) {
	entries, err := handsFS.ReadDir("hands")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
