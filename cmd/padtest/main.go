package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"vibeloop/catalog"
	"vibeloop/config"
	"vibeloop/midi"
	"vibeloop/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "detect":
		err = detect()
	case "leds":
		err = testLEDs()
	case "watch":
		watch()
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Grid controller checks")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  detect  - Find controllers the app would use")
	fmt.Println("  leds    - Light the grid in each loop's colours")
	fmt.Println("  watch   - Print connects and pad presses")
}

type ports struct {
	ins  []drivers.In
	outs []drivers.Out
}

// scanPorts lists ports with a timeout (CoreMIDI can hang)
func scanPorts() (ports, error) {
	ch := make(chan ports, 1)
	go func() {
		ch <- ports{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(3 * time.Second):
		return ports{}, fmt.Errorf("port scan timed out (try: sudo killall coreaudiod midiserver)")
	}
}

func listPorts() error {
	p, err := scanPorts()
	if err != nil {
		return err
	}
	fmt.Println("=== MIDI Input Ports ===")
	for i, in := range p.ins {
		fmt.Printf("  %d: %s\n", i, in.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, out := range p.outs {
		fmt.Printf("  %d: %s\n", i, out.String())
	}
	return nil
}

// matcher accepts the same ports the app connects to
func matcher() (func(string) bool, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	var names []string
	for _, c := range cfg.AutoConnectControllers() {
		names = append(names, c.PortName)
	}
	return midi.MatchPorts(names), cfg, nil
}

func detect() error {
	match, cfg, err := matcher()
	if err != nil {
		return err
	}
	p, err := scanPorts()
	if err != nil {
		return err
	}

	found := 0
	for _, in := range p.ins {
		name := in.String()
		if !match(name) {
			continue
		}
		found++
		kind := "auto-detected"
		if c := cfg.FindController(name); c != nil {
			kind = fmt.Sprintf("configured as %s", c.Type)
		}
		fmt.Printf("Found input: %s (%s)\n", name, kind)
	}

	if found == 0 {
		fmt.Println("No controller found")
	}
	return nil
}

func firstController() (*midi.LaunchpadController, error) {
	match, _, err := matcher()
	if err != nil {
		return nil, err
	}
	p, err := scanPorts()
	if err != nil {
		return nil, err
	}
	for _, in := range p.ins {
		if !match(in.String()) {
			continue
		}
		var out drivers.Out
		for _, o := range p.outs {
			if o.String() == in.String() {
				out = o
			}
		}
		fmt.Printf("Using %s\n", in.String())
		return midi.NewLaunchpadController(in.String(), in, out)
	}
	return nil, fmt.Errorf("no controller found")
}

func testLEDs() error {
	lp, err := firstController()
	if err != nil {
		return err
	}
	defer lp.Close()

	th := theme.Default()
	for _, loop := range catalog.Default().Loops {
		fmt.Printf("Lighting %s...\n", loop.Name)
		grad := th.LoopGradient(loop)
		var updates []midi.LEDUpdate
		for row := 0; row < midi.GridSize; row++ {
			for col := 0; col < midi.GridSize; col++ {
				c := grad.Lookup(float64(col) / float64(midi.GridSize-1))
				updates = append(updates, midi.LEDUpdate{
					Row:   row,
					Col:   col,
					Color: c.Scale(float64(row+1) / midi.GridSize),
				})
			}
		}
		if err := lp.SetLEDBatch(updates); err != nil {
			return err
		}
		time.Sleep(time.Second)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	return nil
}

func watch() {
	fmt.Println("Watching for controllers. Ctrl+C to exit.")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	match, _, err := matcher()
	if err != nil {
		match = midi.IsLaunchpad
	}
	dm := midi.NewDeviceManager(match)
	go dm.Run(ctx)

	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected %s\n", time.Now().Format("15:04:05"), ev.ID)
			go func(c midi.Controller) {
				for p := range c.PadEvents() {
					fmt.Printf("  %s: row=%d col=%d vel=%d\n", c.ID(), p.Row, p.Col, p.Velocity)
				}
			}(ev.Controller)
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected %s\n", time.Now().Format("15:04:05"), ev.ID)
		}
	}
}
