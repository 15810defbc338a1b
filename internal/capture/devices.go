// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
)

// Initialize initializes the PortAudio subsystem. Must be called once
// before any stream or device operation; pair with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return nil
}

// Terminate releases the PortAudio subsystem.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// InputDevice resolves a device index to its info. -1 selects the system
// default input device.
func InputDevice(deviceID int) (*portaudio.DeviceInfo, error) {
	if deviceID == -1 {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	if deviceID < 0 || deviceID >= len(devices) {
		return nil, fmt.Errorf("device ID %d out of range (0-%d)", deviceID, len(devices)-1)
	}
	return devices[deviceID], nil
}

// ListDevices writes every PortAudio device with its capabilities, one
// per line, marking the defaults.
func ListDevices(w io.Writer) error {
	devices, err := portaudio.Devices()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	defIn, _ := portaudio.DefaultInputDevice()
	defOut, _ := portaudio.DefaultOutputDevice()

	for i, d := range devices {
		mark := " "
		if defIn != nil && d.Name == defIn.Name && d.HostApi == defIn.HostApi {
			mark = "*"
		} else if defOut != nil && d.Name == defOut.Name && d.HostApi == defOut.HostApi {
			mark = ">"
		}
		fmt.Fprintf(w, "%s [%2d] %-40s in:%-2d out:%-2d %8.0f Hz (%s)\n",
			mark, i, d.Name, d.MaxInputChannels, d.MaxOutputChannels,
			d.DefaultSampleRate, d.HostApi.Name)
	}
	fmt.Fprintln(w, "  * default input, > default output")
	return nil
}
