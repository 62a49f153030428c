// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Configure camera outputs and exposure",
}

var setBrightnessCmd = &cobra.Command{
	Use:   "brightness <0-255>",
	Short: "Set relative exposure level",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetBrightness,
}

var setLEDCmd = &cobra.Command{
	Use:   "led <red> <green> <blue>",
	Short: "Override the RGB LED color",
	Long: `Override the camera's RGB LED with explicit component values (0-255 each).

The override lasts until the camera's own LED logic next takes over.`,
	Args: cobra.ExactArgs(3),
	RunE: runSetLED,
}

var setLampCmd = &cobra.Command{
	Use:   "lamp <upper> <lower>",
	Short: "Switch the integrated light sources on or off",
	Long: `Switch the camera's light sources: upper drives the two white LEDs along
the top edge of the board, lower drives the RGB LED at full white.
Zero is off, non-zero is on.`,
	Args: cobra.ExactArgs(2),
	RunE: runSetLamp,
}

var setServosCmd = &cobra.Command{
	Use:   "servos <s0> <s1>",
	Short: "Set the RC servo output positions (0-511 each)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSetServos,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.AddCommand(setBrightnessCmd)
	setCmd.AddCommand(setLEDCmd)
	setCmd.AddCommand(setLampCmd)
	setCmd.AddCommand(setServosCmd)
}

// parseByteArg parses a numeric CLI argument into a byte.
func parseByteArg(name, arg string) (byte, error) {
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected 0-255", name, arg)
	}
	return byte(v), nil
}

func runSetBrightness(cmd *cobra.Command, args []string) error {
	brightness, err := parseByteArg("brightness", args[0])
	if err != nil {
		return err
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(func() error { return s.drv.SetBrightness(brightness) }); err != nil {
		return err
	}
	fmt.Printf("Brightness set to %d\n", brightness)
	return nil
}

func runSetLED(cmd *cobra.Command, args []string) error {
	var rgb [3]byte
	for i, name := range []string{"red", "green", "blue"} {
		v, err := parseByteArg(name, args[i])
		if err != nil {
			return err
		}
		rgb[i] = v
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(func() error { return s.drv.SetLED(rgb[0], rgb[1], rgb[2]) }); err != nil {
		return err
	}
	fmt.Printf("LED set to #%02X%02X%02X\n", rgb[0], rgb[1], rgb[2])
	return nil
}

func runSetLamp(cmd *cobra.Command, args []string) error {
	upper, err := parseByteArg("upper", args[0])
	if err != nil {
		return err
	}
	lower, err := parseByteArg("lower", args[1])
	if err != nil {
		return err
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(func() error { return s.drv.SetLamp(upper, lower) }); err != nil {
		return err
	}
	fmt.Printf("Lamp: upper=%s lower=%s\n", onOff(upper), onOff(lower))
	return nil
}

func onOff(v byte) string {
	if v != 0 {
		return "on"
	}
	return "off"
}

func runSetServos(cmd *cobra.Command, args []string) error {
	var pos [2]uint16
	for i, name := range []string{"s0", "s1"} {
		v, err := strconv.ParseUint(args[i], 0, 16)
		if err != nil || v > 511 {
			return fmt.Errorf("invalid %s %q: expected 0-511", name, args[i])
		}
		pos[i] = uint16(v)
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(func() error { return s.drv.SetServos(pos[0], pos[1]) }); err != nil {
		return err
	}
	fmt.Printf("Servos set to %d / %d\n", pos[0], pos[1])
	return nil
}
