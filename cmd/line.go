// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var (
	featuresAll      bool
	featuresVectors  bool
	featuresCrossing bool
	featuresBarcodes bool

	modeTurnDelayed  bool
	modeManualVector bool
	modeWhiteLine    bool

	turnDefault bool
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Query line-tracking features",
	Long: `Query the vectors, intersections and barcodes found by the line engine.

By default only the features most relevant for single-line following are
returned; --all reports every feature in the frame. The type flags filter
the result; with none given, all three types are requested.`,
	RunE: runFeatures,
}

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Set line-tracking algorithm modes",
	Long: `Set the line engine's operating modes.

  --delayed  wait for a turn decision before committing to a branch
  --manual   the vector to follow is selected with 'pixyctl vector'
  --white    track light lines on a dark background

Flags that are not given are switched off: the camera always receives the
complete mode word.`,
	RunE: runMode,
}

var turnCmd = &cobra.Command{
	Use:   "turn <angle>",
	Short: "Set the path to take at the next intersection",
	Long: `Set the turn angle for intersections, in degrees: 0 is straight ahead,
90 is left, -90 is right.

Without --default the angle applies to the next intersection only, after
which the camera falls back to the default turn angle.`,
	Args: cobra.ExactArgs(1),
	RunE: runTurn,
}

var vectorCmd = &cobra.Command{
	Use:   "vector <index>",
	Short: "Select the vector to follow by index",
	Long: `Select the vector to follow by index, as reported by 'pixyctl features'.

Only effective in manual vector mode (see 'pixyctl mode --manual').`,
	Args: cobra.ExactArgs(1),
	RunE: runVector,
}

var reverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Invert the head and tail of the tracked vector",
	RunE:  runReverse,
}

func init() {
	rootCmd.AddCommand(featuresCmd)
	featuresCmd.Flags().BoolVar(&featuresAll, "all", false, "Report every feature, not just the main ones")
	featuresCmd.Flags().BoolVar(&featuresVectors, "vectors", false, "Request vectors")
	featuresCmd.Flags().BoolVar(&featuresCrossing, "intersections", false, "Request intersections")
	featuresCmd.Flags().BoolVar(&featuresBarcodes, "barcodes", false, "Request barcodes")

	rootCmd.AddCommand(modeCmd)
	modeCmd.Flags().BoolVar(&modeTurnDelayed, "delayed", false, "Delayed turn decisions")
	modeCmd.Flags().BoolVar(&modeManualVector, "manual", false, "Manual vector selection")
	modeCmd.Flags().BoolVar(&modeWhiteLine, "white", false, "Track white lines on dark background")

	rootCmd.AddCommand(turnCmd)
	turnCmd.Flags().BoolVar(&turnDefault, "default", false, "Set the default turn angle instead of the next one")

	rootCmd.AddCommand(vectorCmd)
	rootCmd.AddCommand(reverseCmd)
}

func featureFilter() byte {
	var filter byte
	if featuresVectors {
		filter |= pixy.FeatureVector
	}
	if featuresCrossing {
		filter |= pixy.FeatureIntersection
	}
	if featuresBarcodes {
		filter |= pixy.FeatureBarcode
	}
	if filter == 0 {
		filter = pixy.FeatureAll
	}
	return filter
}

func runFeatures(cmd *cobra.Command, args []string) error {
	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	filter := featureFilter()
	var set *pixy.FeatureSet
	err = s.poll(func() error {
		var e error
		if featuresAll {
			set, e = s.drv.GetAllFeatures(filter)
		} else {
			set, e = s.drv.GetMainFeatures(filter)
		}
		return e
	})
	if err != nil {
		return err
	}

	fmt.Print(pixy.FormatFeatures(set))
	for _, a := range pixy.ValidateFeatures(set) {
		fmt.Printf("  !! %s\n", a)
	}
	return nil
}

func runMode(cmd *cobra.Command, args []string) error {
	var mode byte
	if modeTurnDelayed {
		mode |= pixy.ModeTurnDelayed
	}
	if modeManualVector {
		mode |= pixy.ModeManualSelectVector
	}
	if modeWhiteLine {
		mode |= pixy.ModeWhiteLine
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(func() error { return s.drv.SetMode(mode) }); err != nil {
		return err
	}
	fmt.Printf("Mode set to 0x%02X\n", mode)
	return nil
}

func runTurn(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseInt(args[0], 10, 16)
	if err != nil || v < -180 || v > 180 {
		return fmt.Errorf("invalid angle %q: expected -180 to 180 degrees", args[0])
	}
	angle := int16(v)

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.poll(func() error {
		if turnDefault {
			return s.drv.SetDefaultTurn(angle)
		}
		return s.drv.SetNextTurn(angle)
	})
	if err != nil {
		return err
	}

	which := "next"
	if turnDefault {
		which = "default"
	}
	fmt.Printf("Turn (%s) set to %d degrees\n", which, angle)
	return nil
}

func runVector(cmd *cobra.Command, args []string) error {
	index, err := parseByteArg("index", args[0])
	if err != nil {
		return err
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(func() error { return s.drv.SetVector(index) }); err != nil {
		return err
	}
	fmt.Printf("Following vector %d\n", index)
	return nil
}

func runReverse(cmd *cobra.Command, args []string) error {
	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.poll(s.drv.ReverseVector); err != nil {
		return err
	}
	fmt.Println("Vector reversed")
	return nil
}
