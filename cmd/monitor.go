// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var monitorShowPayload bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display camera reply frames in human-readable format",
	Long: `Continuously assemble and display reply frames as they arrive.

This command is purely passive: it transmits nothing and decodes whatever
the camera sends, for example while another host is driving it. Each frame
is shown with timestamp, reply type, payload length and checksum verdict.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorShowPayload, "payload", false, "Hex-dump each frame payload")
}

// printFrame prints one assembled frame.
func printFrame(rx *pixy.Receiver) {
	timestamp := time.Now().Format("15:04:05.000")
	verdict := "no checksum"
	if rx.HasChecksum() {
		if rx.ValidateChecksum() {
			verdict = "checksum OK"
		} else {
			verdict = "CHECKSUM MISMATCH"
		}
	}

	fmt.Printf("[%s] %s (0x%02X) len=%d %s\n",
		timestamp, pixy.FormatReplyType(rx.TypeID()), rx.TypeID(), rx.DataSize(), verdict)

	if monitorShowPayload && rx.DataSize() > 0 {
		fmt.Printf("  % X\n", rx.Payload())
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Pixyctl - Frame Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	var rx pixy.Receiver
	rx.Arm()
	buf := make([]byte, 128)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// For WebSocket connections, a read error usually means
			// the connection is permanently closed - exit gracefully
			if err == ErrConnectionClosed {
				log.Printf("Connection closed")
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		for i := 0; i < n; i++ {
			rx.Feed(buf[i])

			switch rx.State() {
			case pixy.StateFrameReady:
				printFrame(&rx)
				rx.Consume()
				rx.Arm()
			case pixy.StateIdle:
				// A header-only frame looped straight back to idle.
				fmt.Printf("[%s] %s (0x%02X) len=0 header only\n",
					time.Now().Format("15:04:05.000"), pixy.FormatReplyType(rx.TypeID()), rx.TypeID())
				rx.Arm()
			}
		}
	}
}
