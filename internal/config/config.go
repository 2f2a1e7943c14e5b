package config

import (
	"fmt"
	"time"
)

// Config is the full reelbox configuration.
type Config struct {
	// Root is the browse root; Escape never leaves it.
	Root    string        `toml:"root" yaml:"root"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Status  StatusConfig  `toml:"status" yaml:"status"`
	Buttons ButtonsConfig `toml:"buttons" yaml:"buttons"`
	Media   MediaConfig   `toml:"media" yaml:"media"`
	Clock   ClockConfig   `toml:"clock" yaml:"clock"`
	Queue   QueueConfig   `toml:"queue" yaml:"queue"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// DisplayConfig describes the primary RGB565 framebuffer.
type DisplayConfig struct {
	Device string `toml:"device" yaml:"device"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	FPS    int    `toml:"fps" yaml:"fps"`
	// BGR is set for panels that take BGR565 rather than RGB565.
	BGR bool `toml:"bgr" yaml:"bgr"`
}

// FrameBytes is the size of one raw frame record.
func (d DisplayConfig) FrameBytes() int64 {
	return int64(d.Width) * int64(d.Height) * 2
}

// FrameInterval is the delay between two frames at FPS.
func (d DisplayConfig) FrameInterval() time.Duration {
	if d.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(d.FPS)
}

// StatusConfig describes the two monochrome status panels.
type StatusConfig struct {
	Buses  []string `toml:"buses" yaml:"buses"`
	Width  int      `toml:"width" yaml:"width"`
	Height int      `toml:"height" yaml:"height"`
}

// ButtonsConfig maps the four buttons to GPIO names.
type ButtonsConfig struct {
	Select          string   `toml:"select" yaml:"select"`
	Escape          string   `toml:"escape" yaml:"escape"`
	Up              string   `toml:"up" yaml:"up"`
	Down            string   `toml:"down" yaml:"down"`
	SampleInterval  Duration `toml:"sample_interval" yaml:"sample_interval"`
	DebounceSamples int      `toml:"debounce_samples" yaml:"debounce_samples"`
}

// MediaConfig holds the glob patterns used to classify directory entries.
type MediaConfig struct {
	Text     []string `toml:"text" yaml:"text"`
	Video    []string `toml:"video" yaml:"video"`
	Playable []string `toml:"playable" yaml:"playable"`
}

type ClockConfig struct {
	Interval Duration `toml:"interval" yaml:"interval"`
}

// QueueConfig sizes the event bus and the render queue.
type QueueConfig struct {
	Events int `toml:"events" yaml:"events"`
	Render int `toml:"render" yaml:"render"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Validate reports the first setting that would leave the appliance unusable.
func (c *Config) Validate() error {
	switch {
	case c.Root == "":
		return fmt.Errorf("config: root is empty")
	case c.Display.Width <= 0 || c.Display.Height <= 0:
		return fmt.Errorf("config: display geometry %dx%d is invalid", c.Display.Width, c.Display.Height)
	case c.Display.FPS <= 0:
		return fmt.Errorf("config: display fps %d is invalid", c.Display.FPS)
	case c.Buttons.SampleInterval.Duration <= 0:
		return fmt.Errorf("config: buttons.sample_interval must be positive")
	case c.Buttons.DebounceSamples < 1 || c.Buttons.DebounceSamples > 8:
		return fmt.Errorf("config: buttons.debounce_samples must be within 1..8")
	case c.Clock.Interval.Duration <= 0:
		return fmt.Errorf("config: clock.interval must be positive")
	case c.Queue.Events <= 0 || c.Queue.Render <= 0:
		return fmt.Errorf("config: queue capacities must be positive")
	case len(c.Media.Playable) == 0:
		return fmt.Errorf("config: media.playable is empty")
	}
	return nil
}
