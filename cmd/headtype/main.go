package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/ime"
	"github.com/ayusman/headtype/internal/server"
	"github.com/ayusman/headtype/internal/store"
	"github.com/ayusman/headtype/internal/tray"
	"github.com/ayusman/headtype/internal/tui"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	opts, err := loadOptions(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// The terminal UI owns the screen, so logs go to a file.
	if opts.UI == uiTUI {
		logFile, err := os.OpenFile(filepath.Join(opts.DataDir, "headtype.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		fmt.Println("headtype - type with head movements")
	}

	st, err := store.New(filepath.Join(opts.DataDir, "headtype.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if n, err := st.Dictionary().Seed(ime.DefaultEntries()); err != nil {
		log.Fatalf("Failed to seed dictionary: %v", err)
	} else if n > 0 {
		log.Printf("Seeded dictionary with %d entries", n)
	}

	cfg := app.DefaultConfig()
	cfg.Store = st
	cfg.PluginDir = opts.PluginDir
	cfg.CameraID = opts.CameraID
	cfg.PowerSave = opts.PowerSave

	a := app.New(cfg)
	defer a.Close()

	if opts.PluginDir != "" {
		if err := a.DiscoverPlugins(); err != nil {
			log.Printf("Failed to discover plugins: %v", err)
		}
	}

	webDir := findDir([]string{"web", "../web", filepath.Join(opts.DataDir, "web")})
	if webDir != "" {
		log.Printf("Serving static files from: %s", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})
	defer srv.Close()

	go func() {
		log.Printf("Starting server on %s", opts.Addr)
		if err := srv.ListenAndServe(opts.Addr); err != nil {
			log.Printf("Server failed: %v", err)
		}
	}()

	// A failed start is reported in the status; Restart recovers.
	if err := a.Start(); err != nil {
		log.Printf("Detection pipeline not started: %v", err)
	}

	switch opts.UI {
	case uiTray:
		runTray(a, opts)
	case uiTUI:
		if err := runTUI(a); err != nil {
			log.Printf("Terminal UI failed: %v", err)
		}
	default:
		waitForSignal()
	}
}

func runTray(a *app.App, opts options) {
	tr := tray.New()
	a.AddRenderer(tr)

	tr.OnToggle(a.SetEnabled)
	tr.OnRestart(func() {
		if err := a.Restart(); err != nil {
			log.Printf("Restart failed: %v", err)
		}
		tr.SetStatus(a.Status())
	})
	tr.OnSettings(func() {
		if err := openBrowser(settingsURL(opts.Addr)); err != nil {
			log.Printf("Failed to open settings: %v", err)
		}
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				tr.SetStatus(a.Status())
			}
		}
	}()

	go func() {
		waitForSignal()
		tr.Quit()
	}()

	tr.Run()
}

func runTUI(a *app.App) error {
	bridge := tui.NewBridge(tui.DefaultBridgeSize)
	a.AddRenderer(bridge)
	defer bridge.Close()

	p := tea.NewProgram(tui.New(a, bridge.Events()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
