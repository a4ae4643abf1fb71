// Package config provides configuration helpers for arrow-rover commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the rover binary.
const (
	DefaultBaud    = 9600
	DefaultCamera  = 0
	DefaultSpeaker = "espeak"
)

// LogLevel returns the log level from LOG_LEVEL ("debug", "info", "warn",
// "error"). Empty means the logger's default.
func LogLevel() string {
	return os.Getenv("LOG_LEVEL")
}

// PortName returns the serial port path from ROVER_PORT.
// Empty means prompt the user to pick one.
func PortName() string {
	return os.Getenv("ROVER_PORT")
}

// Baud returns the serial baud rate from ROVER_BAUD or the default.
func Baud() int {
	if v := os.Getenv("ROVER_BAUD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultBaud
}

// CameraIndex returns the capture device index from ROVER_CAMERA or the
// default.
func CameraIndex() int {
	if v := os.Getenv("ROVER_CAMERA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return DefaultCamera
}

// DashboardAddr returns the telemetry dashboard listen address from
// ROVER_DASHBOARD_ADDR. Empty disables the dashboard.
func DashboardAddr() string {
	return os.Getenv("ROVER_DASHBOARD_ADDR")
}

// SpeakerCommand returns the external speech synthesizer command from
// ROVER_SPEAKER or the default.
func SpeakerCommand() string {
	if cmd := os.Getenv("ROVER_SPEAKER"); cmd != "" {
		return cmd
	}
	return DefaultSpeaker
}

// Headless reports whether the overlay window is disabled (ROVER_HEADLESS=1).
func Headless() bool {
	return os.Getenv("ROVER_HEADLESS") == "1"
}

// DryRun reports whether to run against an in-memory port instead of real
// hardware (ROVER_DRY_RUN=1).
func DryRun() bool {
	return os.Getenv("ROVER_DRY_RUN") == "1"
}
