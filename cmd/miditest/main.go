package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// factory template 1
const template = 8

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect()
	case "sysex":
		testSysEx()
	case "leds":
		testLEDs()
	case "monitor":
		monitor()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find Launch Control XL")
	fmt.Println("  sysex    - Select factory template 1")
	fmt.Println("  leds     - Test LED control")
	fmt.Println("  monitor  - Print incoming messages")
	fmt.Println("  poll     - Poll for device changes")
}

func isXL(name string) bool {
	return strings.Contains(strings.ToLower(name), "launch control xl")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI driver is hung.")
	}
}

func detect() {
	fmt.Println("Looking for Launch Control XL...")

	var in, out bool
	for i, p := range midi.GetInPorts() {
		if isXL(p.String()) {
			fmt.Printf("Found input: %d: %s\n", i, p.String())
			in = true
		}
	}
	for i, p := range midi.GetOutPorts() {
		if isXL(p.String()) {
			fmt.Printf("Found output: %d: %s\n", i, p.String())
			out = true
		}
	}

	if in && out {
		fmt.Println("\nLaunch Control XL detected!")
	} else {
		fmt.Println("\nLaunch Control XL not found")
	}
}

func openOut() func(midi.Message) error {
	for _, p := range midi.GetOutPorts() {
		if isXL(p.String()) {
			fmt.Printf("Using output: %s\n", p.String())
			send, err := midi.SendTo(p)
			if err != nil {
				fmt.Printf("Error opening port: %v\n", err)
				return nil
			}
			return send
		}
	}
	fmt.Println("No Launch Control XL found")
	return nil
}

func testSysEx() {
	send := openOut()
	if send == nil {
		return
	}

	// Select template: F0 00 20 29 02 11 77 <template> F7
	fmt.Printf("Sending: select template %d\n", template)
	if err := send(midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x11, 0x77, template})); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Done! Move a knob; messages should arrive on channel 9")
}

func testLEDs() {
	send := openOut()
	if send == nil {
		return
	}

	send(midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x11, 0x77, template}))
	time.Sleep(100 * time.Millisecond)

	fmt.Println("Lighting knob LEDs (green)...")

	// Set LED: F0 00 20 29 02 11 78 <template> <led> <color> F7
	// 0-23 are the knobs, 0x0C sets both buffers
	for led := uint8(0); led < 24; led++ {
		send(midi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x11, 0x78, template, led, 0x30 | 0x0C}))
		time.Sleep(30 * time.Millisecond)
	}

	fmt.Println("Lighting track focus buttons (amber)...")
	for _, note := range []uint8{41, 42, 43, 44, 57, 58, 59, 60} {
		send(midi.NoteOn(template, note, 0x33|0x0C))
		time.Sleep(30 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()

	// CC 0 value 0 resets the template
	send(midi.ControlChange(template, 0, 0))

	fmt.Println("Done!")
}

func monitor() {
	var inPort drivers.In
	for _, p := range midi.GetInPorts() {
		if isXL(p.String()) {
			inPort = p
			break
		}
	}
	if inPort == nil {
		fmt.Println("No Launch Control XL found")
		return
	}

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", inPort.String())
	stop, err := midi.ListenTo(inPort, func(msg midi.Message, ts int32) {
		fmt.Printf("[%6d] %s\n", ts, msg)
	}, midi.UseSysEx())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer stop()

	select {}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect Launch Control XL to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if isXL(name) {
					fmt.Println("  -> Launch Control XL detected!")
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
