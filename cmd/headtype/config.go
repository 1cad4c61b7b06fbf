package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// UI modes selected with HEADTYPE_UI.
const (
	uiTray = "tray"
	uiTUI  = "tui"
	uiNone = "none"
)

// options is the process configuration read from the environment.
type options struct {
	Addr      string
	DataDir   string
	CameraID  int
	PluginDir string
	UI        string
	PowerSave bool
}

// loadOptions reads HEADTYPE_* variables through getenv and fills in the
// defaults.
func loadOptions(getenv func(string) string) (options, error) {
	opts := options{
		Addr: getenv("HEADTYPE_ADDR"),
		UI:   strings.ToLower(strings.TrimSpace(getenv("HEADTYPE_UI"))),
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	opts.DataDir = getenv("HEADTYPE_DATA_DIR")
	if opts.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return opts, fmt.Errorf("get home directory: %w", err)
		}
		opts.DataDir = filepath.Join(homeDir, ".headtype")
	}

	if v := getenv("HEADTYPE_CAMERA"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 0 {
			return opts, fmt.Errorf("HEADTYPE_CAMERA must be a device number, got %q", v)
		}
		opts.CameraID = id
	}

	opts.PluginDir = getenv("HEADTYPE_PLUGIN_DIR")
	if opts.PluginDir == "" {
		opts.PluginDir = findDir([]string{"plugins", "../plugins", filepath.Join(opts.DataDir, "plugins")})
	}

	if v := getenv("HEADTYPE_POWER_SAVE"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("HEADTYPE_POWER_SAVE must be a boolean, got %q", v)
		}
		opts.PowerSave = on
	}

	switch opts.UI {
	case "":
		opts.UI = uiTray
	case uiTray, uiTUI, uiNone:
	default:
		return opts, fmt.Errorf("HEADTYPE_UI must be %s, %s or %s, got %q", uiTray, uiTUI, uiNone, opts.UI)
	}

	return opts, nil
}

// settingsURL is the browser address of the settings page for a listen
// address such as ":8080".
func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

// findDir returns the first existing directory as an absolute path, or ""
// when none exists.
func findDir(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
