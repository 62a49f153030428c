// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Polling flags
	pollTimeoutMs int
)

var rootCmd = &cobra.Command{
	Use:   "pixyctl",
	Short: "Pixy2 Smart Camera Control",
	Long: `Pixyctl - A CLI tool for querying and controlling the Pixy2 smart camera.

Provides commands for reading detection results (color blocks, line-tracking
features, pixel colors), configuring the camera (brightness, servos, LED,
lamp, line-tracking modes), and diagnosing the serial link (frame monitor,
capture and replay).

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 19200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the PIXYCTL_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 19200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Polling flags
	rootCmd.PersistentFlags().IntVar(&pollTimeoutMs, "timeout", 2000, "Per-command response timeout (milliseconds)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
