package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go-lcxl/config"
	"go-lcxl/debug"
	"go-lcxl/midi"
	"go-lcxl/session"
	"go-lcxl/surface"
	"go-lcxl/theme"
	"go-lcxl/tui"
)

var (
	flags struct {
		config     string
		debug      bool
		palette    string
		demoTracks int
		noTUI      bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "go-lcxl",
	Short: "Novation Launch Control XL control surface",
	Long: `go-lcxl drives a mixer session from a Novation Launch Control XL.

Knobs set trim, width and pan, faders set gain, the track buttons
select strips and toggle mute, solo or record. LEDs follow the session.
Devices can be plugged in and out at any time.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSurface,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, outs, err := midi.Ports(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("=== MIDI Input Ports ===")
		for i, p := range ins {
			fmt.Printf("  %d: %s\n", i, p)
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p)
		}
		return nil
	},
}

var ledsCmd = &cobra.Command{
	Use:   "leds",
	Short: "Cycle the LED colors on a connected device",
	RunE:  runLEDTest,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, err := writeDefaultConfig(flags.config, force)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "",
		"Config file (default ~/.config/go-lcxl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false,
		"Write debug.log to the config directory")
	rootCmd.Flags().StringVar(&flags.palette, "palette", "",
		"GIMP palette (.gpl) for the monitor")
	rootCmd.Flags().IntVarP(&flags.demoTracks, "demo-tracks", "n", -1,
		"Number of demo tracks (overrides config)")
	rootCmd.Flags().BoolVar(&flags.noTUI, "no-tui", false,
		"Run without the monitor, until interrupted")

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(portsCmd, ledsCmd, configCmd)
}

var cfg *config.Config

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if flags.config != "" {
		cfg, err = config.LoadFile(flags.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if flags.debug || cfg.Debug {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := debug.Enable(dir); err != nil {
			return errors.Wrap(err, "enable debug log")
		}
	}
	return nil
}

func runSurface(cmd *cobra.Command, args []string) error {
	defer debug.Disable()

	tracks := cfg.DemoTracks
	if flags.demoTracks >= 0 {
		tracks = flags.demoTracks
	}

	th := theme.New(nil)
	if flags.palette != "" {
		palette, err := theme.LoadGPL(flags.palette)
		if err != nil {
			return err
		}
		th = theme.New(palette)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := NewApp(cfg, session.NewDemo(tracks))
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	if flags.noTUI {
		fmt.Printf("go-lcxl: waiting for %q, ctrl+c to quit\n", cfg.Port)
		<-ctx.Done()
	} else {
		m := tui.NewModel(app.Session, app.Surface, app.Loop, app.Mirror, app.Output, th, app.Status())
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			cancel()
			<-done
			return errors.Wrap(err, "tui")
		}
		cancel()
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// writeDefaultConfig saves the defaults to path, or to the default location
// when path is empty. An existing file is kept unless force is set.
func writeDefaultConfig(path string, force bool) (string, error) {
	save := config.DefaultConfig().Save
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return "", err
		}
		path = p
	} else {
		save = func() error { return config.DefaultConfig().SaveFile(path) }
	}

	if _, err := os.Stat(path); err == nil && !force {
		return path, errors.Errorf("%s exists, use --force to overwrite", path)
	}
	return path, save()
}

// runLEDTest lights every knob LED in each color in turn
func runLEDTest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	dm := midi.NewDeviceManager(cfg.Port)
	go dm.Run(ctx)

	var c midi.Controller
	select {
	case ev := <-dm.Events():
		c = ev.Controller
	case <-time.After(5 * time.Second):
		return errors.Errorf("no device matching %q", cfg.Port)
	}
	fmt.Printf("Using %s, template %d\n", c.ID(), cfg.Template)

	colors := []surface.Color{
		surface.RedLow, surface.RedFull,
		surface.AmberLow, surface.AmberFull,
		surface.YellowFull,
		surface.GreenLow, surface.GreenFull,
	}
	for _, col := range colors {
		fmt.Printf("  %s\n", col)
		for led := 0; led < 24; led++ {
			if err := c.Write(surface.KnobLEDMessage(cfg.Template, led, col)); err != nil {
				return err
			}
		}
		time.Sleep(400 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	return c.Write(surface.ResetMessage(cfg.Template))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
