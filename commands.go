package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"reelbox/hal"
	"reelbox/hal/emu"
	"reelbox/internal/app"
	"reelbox/internal/buildinfo"
	"reelbox/internal/config"
	"reelbox/internal/logging"

	"github.com/spf13/cobra"
)

type runOptions struct {
	configFile string
	mode       string
	root       string
	logLevel   string
	scale      int
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:           "reelbox",
		Short:         "Browse a directory tree and play raw RGB565 video on a small framebuffer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/reelbox/config.toml)")

	root.AddCommand(newRunCmd(&cfgFile), newVersionCmd(), newConfigCmd(&cfgFile))
	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func newRunCmd(cfgFile *string) *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the appliance controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.configFile = *cfgFile
			return runController(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.mode, "mode", "device", "hardware backend: device, window or headless")
	cmd.Flags().StringVar(&o.root, "root", "", "browse root (overrides the config file)")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "log level (overrides the config file)")
	cmd.Flags().IntVar(&o.scale, "scale", 2, "window mode pixel scale")
	return cmd
}

func runController(ctx context.Context, o runOptions) error {
	cfg, err := loadConfig(o.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.root != "" {
		cfg.Root = o.root
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log.WithField("version", buildinfo.Short()).WithField("mode", o.mode).Info("starting reelbox")

	geo := hal.Geometry{
		Width:        cfg.Display.Width,
		Height:       cfg.Display.Height,
		StatusWidth:  cfg.Status.Width,
		StatusHeight: cfg.Status.Height,
	}
	run := func(ctx context.Context, h hal.HAL) error {
		return app.Run(ctx, h, cfg, log)
	}

	switch strings.ToLower(o.mode) {
	case "device":
		return hal.RunDevice(ctx, run, hal.DeviceConfig{
			Geometry:    geo,
			Framebuffer: cfg.Display.Device,
			StatusBuses: cfg.Status.Buses,
			Pins: hal.PinNames{
				Select: cfg.Buttons.Select,
				Escape: cfg.Buttons.Escape,
				Up:     cfg.Buttons.Up,
				Down:   cfg.Buttons.Down,
			},
		})
	case "window":
		return emu.RunWindow(ctx, run, emu.Config{Geometry: geo, Scale: o.scale})
	case "headless":
		return hal.RunHeadless(ctx, run, hal.HeadlessConfig{
			Geometry: geo,
			Input:    os.Stdin,
			Unknown: func(line string) {
				log.WithField("line", line).Warn("unknown console command; want up, down, select or escape")
			},
		})
	default:
		return fmt.Errorf("unknown mode %q: want device, window or headless", o.mode)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

func newConfigCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}
}
