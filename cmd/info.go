// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Query camera hardware and firmware version",
	RunE:  runVersion,
}

var resolutionCmd = &cobra.Command{
	Use:   "resolution",
	Short: "Query the frame dimensions of the current program",
	RunE:  runResolution,
}

var fpsCmd = &cobra.Command{
	Use:   "fps",
	Short: "Query the current framerate",
	Long: `Query the camera's current framerate in frames per second.

The framerate depends on exposure: a low value usually means a dim
environment, which degrades detection quality.`,
	RunE: runFPS,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolutionCmd)
	rootCmd.AddCommand(fpsCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var v pixy.Version
	err = s.poll(func() error {
		var e error
		v, e = s.drv.GetVersion()
		return e
	})
	if err != nil {
		return err
	}

	fmt.Printf("Hardware:  0x%04X\n", v.Hardware())
	fmt.Printf("Firmware:  %d.%d build %d\n", v.FirmwareMajor(), v.FirmwareMinor(), v.FirmwareBuild())
	if t := v.FirmwareType(); t != "" {
		fmt.Printf("Type:      %s\n", t)
	}
	return nil
}

func runResolution(cmd *cobra.Command, args []string) error {
	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var r pixy.Resolution
	err = s.poll(func() error {
		var e error
		r, e = s.drv.GetResolution()
		return e
	})
	if err != nil {
		return err
	}

	fmt.Printf("Resolution: %s\n", r)
	return nil
}

func runFPS(cmd *cobra.Command, args []string) error {
	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var fps uint32
	err = s.poll(func() error {
		var e error
		fps, e = s.drv.GetFPS()
		return e
	})
	if err != nil {
		return err
	}

	fmt.Printf("Framerate: %d fps\n", fps)
	return nil
}
