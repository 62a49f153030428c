// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var frameTestTimeout int

var frameTestCmd = &cobra.Command{
	Use:   "frame_test",
	Short: "Test connection by requesting a version frame",
	Long: `Request the camera version and wait for a valid reply frame until timeout.

This command transmits a version request and waits for a complete reply
that passes checksum validation. It ignores line noise and retries the
request once a second.

Exit codes:
  0 - Valid reply received before timeout
  1 - Timeout reached without a valid reply
  2 - Connection error

Useful for testing connectivity to a camera or a WebSocket serial bridge.`,
	RunE: runFrameTest,
}

func init() {
	rootCmd.AddCommand(frameTestCmd)
	frameTestCmd.Flags().IntVar(&frameTestTimeout, "timeout-seconds", 10, "Timeout in seconds to wait for a reply")
}

func runFrameTest(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	s, connInfo, err := openSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()

	fmt.Printf("Pixyctl - Frame Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", frameTestTimeout)
	fmt.Printf("Waiting for valid reply frame...\n\n")

	deadline := time.Now().Add(time.Duration(frameTestTimeout) * time.Second)
	attempt := 0

	for time.Now().Before(deadline) {
		attempt++

		var v pixy.Version
		err := s.poll(func() error {
			var e error
			v, e = s.drv.GetVersion()
			return e
		})
		if err == nil {
			fmt.Printf("SUCCESS: Received valid reply (attempt %d)\n", attempt)
			fmt.Printf("  Hardware: 0x%04X\n", v.Hardware())
			fmt.Printf("  Firmware: %d.%d build %d\n", v.FirmwareMajor(), v.FirmwareMinor(), v.FirmwareBuild())
			os.Exit(0)
		}

		fmt.Printf("attempt %d: %v\n", attempt, err)
		time.Sleep(time.Second)
	}

	fmt.Fprintf(os.Stderr, "TIMEOUT: No valid reply within %d seconds\n", frameTestTimeout)
	os.Exit(1)
	return nil
}
