package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"vibeloop/catalog"
	"vibeloop/config"
	"vibeloop/debug"
	"vibeloop/midi"
	"vibeloop/theme"
	"vibeloop/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Debug || debug.Requested() {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := debug.Enable(dir); err != nil {
			return err
		}
		defer debug.Disable()
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return err
		}
	}

	th := theme.Default()
	if cfg.PalettePath != "" {
		palette, err := theme.LoadGPL(cfg.PalettePath)
		if err != nil {
			return err
		}
		th = theme.New(palette)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Controllers hot-plug in the background; the app works without one
	var deviceMgr *midi.DeviceManager
	if cfg.UseMIDI() {
		var ports []string
		for _, c := range cfg.AutoConnectControllers() {
			ports = append(ports, c.PortName)
		}
		deviceMgr = midi.NewDeviceManager(midi.MatchPorts(ports))
		go deviceMgr.Run(ctx)
	}

	debug.Log("config", "%d loops, %d instruments, midi=%v", len(cat.Loops), len(cat.Instruments), cfg.UseMIDI())

	m, err := tui.NewModel(cat, cfg, th, deviceMgr)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
