package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/capsicain-go/capsicain/internal/capture"
	"github.com/capsicain-go/capsicain/internal/clipboard"
	"github.com/capsicain-go/capsicain/internal/config"
	"github.com/capsicain-go/capsicain/internal/console"
	"github.com/capsicain-go/capsicain/internal/device"
	"github.com/capsicain-go/capsicain/internal/engine"
	"github.com/capsicain-go/capsicain/internal/inject"
	"github.com/capsicain-go/capsicain/internal/priority"
	"github.com/capsicain-go/capsicain/internal/singleinstance"
)

func lockPath() string {
	return filepath.Join(os.TempDir(), "capsicain.lock")
}

func run() error {
	devicePath := flag.String("device", "", "keyboard device path (auto-detect if empty)")
	debug := flag.Bool("debug", false, "enable debug logging to stderr")
	debugBuild := flag.Bool("debug-build", false, "enable the ESC+Q debug-build exit command")
	showConsole := flag.Bool("console", false, "open the diagnostic console window")
	flag.Parse()

	lock, err := singleinstance.Acquire(lockPath())
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer lock.Close()

	var dbg *log.Logger
	if *debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	if err := priority.Raise(); err != nil {
		dbg.Printf("priority: %v", err)
	}

	capDev, err := capture.Open(*devicePath)
	if err != nil {
		return fmt.Errorf("open capture device: %w", err)
	}
	defer capDev.Close()

	kb, err := device.NewUinput()
	if err != nil {
		return fmt.Errorf("create virtual keyboard: %w", err)
	}
	defer kb.Close()

	loader := func(n uint8) (*config.Config, error) {
		return config.Load(config.PathForNumber(n))
	}

	startupConfig := uint8(1)
	if cfg, err := loader(1); err == nil {
		startupConfig = cfg.Globals.ActiveConfigOnStartup
	}

	tracker := &inject.Tracker{Device: kb, Log: dbg.Printf}

	e, err := engine.New(capDev, tracker, loader, dbg, startupConfig)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	tracker.Macros = &e.Macros
	e.Debug = *debug
	e.DebugBuild = *debugBuild
	e.Clipboard = clipboard.Writer{}

	e.RefreshDeviceIdentity(capDev.HardwareID())

	if *showConsole {
		c := console.Start()
		e.Console = c
	}

	dbg.Printf("capsicain started: device=%s config=%d", capDev.HardwareID(), startupConfig)

	return e.Run()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
