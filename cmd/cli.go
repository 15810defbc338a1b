// SPDX-License-Identifier: MIT

// Package cmd parses the command line into run options. One-off
// commands (skin listing, device listing, the browser) are reported
// back to main rather than executed here.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"vumeter/internal/build"
	"vumeter/internal/config"
)

// Options is the parsed command line.
type Options struct {
	ConfigPath string
	SkinsDir   string
	SkinName   string
	Command    string // "", "list", "devices", "browse"

	// Overrides applied on top of the loaded configuration. Negative
	// or zero values mean "not set".
	DeviceID  int
	FrameRate int
	Verbose   bool
}

// ParseArgs builds the cobra command tree and executes it against
// os.Args.
func ParseArgs() (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{DeviceID: config.DefaultDeviceID}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List installed skins",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio input devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "devices"
		},
	}
	rootCmd.AddCommand(devicesCmd)

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse installed skins interactively",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "browse"
		},
	}
	rootCmd.AddCommand(browseCmd)

	rootCmd.PersistentFlags().StringVarP(&options.ConfigPath, "config", "c", "",
		"Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&options.SkinsDir, "skins-dir", "skins",
		"Directory containing skin subdirectories")
	rootCmd.PersistentFlags().StringVarP(&options.SkinName, "skin", "s", "",
		"Skin to render (default: first installed skin)")
	rootCmd.PersistentFlags().IntVarP(&options.DeviceID, "device", "d", config.DefaultDeviceID,
		"Input device ID. Use 'devices' to see what is available.")
	rootCmd.PersistentFlags().IntVarP(&options.FrameRate, "fps", "f", 0,
		"Target frame rate, overrides the configuration")
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}
	return options, nil
}

// Apply folds the command line overrides into a loaded configuration.
func (o *Options) Apply(cfg *config.Config) {
	if o.DeviceID != config.DefaultDeviceID {
		cfg.Capture.InputDevice = o.DeviceID
	}
	if o.FrameRate > 0 {
		cfg.Render.FrameRate = o.FrameRate
	}
	if o.Verbose {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
}
