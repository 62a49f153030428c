// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var (
	recordOutput  string
	recordSeconds int

	replayPayload bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture reply frames to a file",
	Long: `Passively capture reply frames into a CBOR stream file.

Like the monitor command, record transmits nothing; it assembles whatever
arrives on the link and appends one timestamped record per frame. The
resulting file can be inspected offline with 'pixyctl replay'.`,
	RunE: runRecord,
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Display a capture file",
	Long: `Display the frames stored in a capture file, one per line, with the
original capture timestamps.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "pixy-capture.cbor", "Capture file to write")
	recordCmd.Flags().IntVar(&recordSeconds, "seconds", 0, "Stop after this many seconds (0 = until Ctrl+C)")

	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayPayload, "payload", false, "Hex-dump each record payload")
}

func runRecord(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	out, err := os.Create(recordOutput)
	if err != nil {
		return fmt.Errorf("failed to create capture file: %v", err)
	}
	defer out.Close()

	fmt.Printf("Pixyctl - Frame Capture\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Writing to: %s\n", recordOutput)
	if recordSeconds > 0 {
		fmt.Printf("Duration: %d seconds\n", recordSeconds)
	}
	fmt.Printf("Press Ctrl+C to stop\n\n")

	writer := pixy.NewCaptureWriter(out)
	var rx pixy.Receiver
	rx.Arm()

	var deadline time.Time
	if recordSeconds > 0 {
		deadline = time.Now().Add(time.Duration(recordSeconds) * time.Second)
	}

	buf := make([]byte, 128)
	frames := 0

	for {
		if recordSeconds > 0 && time.Now().After(deadline) {
			break
		}

		n, err := conn.Read(buf)
		if err != nil {
			if err == ErrConnectionClosed {
				break
			}
			log.Printf("Read error: %v", err)
			continue
		}

		for i := 0; i < n; i++ {
			rx.Feed(buf[i])

			switch rx.State() {
			case pixy.StateFrameReady:
				if err := writer.Record(pixy.DirReply, rx.TypeID(), rx.Payload()); err != nil {
					return err
				}
				frames++
				rx.Consume()
				rx.Arm()
			case pixy.StateIdle:
				if err := writer.Record(pixy.DirReply, rx.TypeID(), nil); err != nil {
					return err
				}
				frames++
				rx.Arm()
			}
		}
	}

	fmt.Printf("Captured %d frame(s) to %s\n", frames, recordOutput)
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture file: %v", err)
	}
	defer in.Close()

	reader := pixy.NewCaptureReader(in)
	records := 0

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		fmt.Println(rec)
		if replayPayload && len(rec.Payload) > 0 {
			fmt.Printf("  % X\n", rec.Payload)
		}
		records++
	}

	fmt.Printf("%d record(s)\n", records)
	return nil
}
