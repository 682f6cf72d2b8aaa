package localstate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const markerFile = "last_reminder"

// ResolveStateDir returns the directory used for device-local state.
// Order: JARVIS_STATE_DIR env override, then OS-specific default.
func ResolveStateDir() (string, error) {
	if custom := os.Getenv("JARVIS_STATE_DIR"); custom != "" {
		return custom, nil
	}

	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, "jarvis"), nil
		}
		return "", errors.New("APPDATA not set")
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, "Library", "Application Support", "jarvis"), nil
		}
		return "", errors.New("home directory not found")
	default: // linux and others
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, ".local", "share", "jarvis"), nil
		}
		return "", errors.New("home directory not found")
	}
}

// Marker persists the reminder's last-shown date in one small file.
type Marker struct {
	path string
}

// NewMarker creates a marker rooted at dir, creating it if needed.
func NewMarker(dir string) (*Marker, error) {
	if dir == "" {
		return nil, errors.New("empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Marker{path: filepath.Join(dir, markerFile)}, nil
}

// NewDefaultMarker resolves the default state dir and returns a marker.
func NewDefaultMarker() (*Marker, error) {
	dir, err := ResolveStateDir()
	if err != nil {
		return nil, err
	}
	return NewMarker(dir)
}

// LastShown returns the recorded date, or "" when nothing was recorded.
func (m *Marker) LastShown() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SetLastShown records date, replacing any previous value.
func (m *Marker) SetLastShown(date string) error {
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(date+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
