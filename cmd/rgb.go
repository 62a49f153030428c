// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var rgbSaturate bool

var rgbCmd = &cobra.Command{
	Use:   "rgb <x> <y>",
	Short: "Query the average color around a pixel",
	Long: `Query the average color of the 5x5 pixel square centered on (x, y).

With --saturate the components are scaled so the largest one reads 255,
which makes hue comparisons independent of scene brightness.`,
	Args: cobra.ExactArgs(2),
	RunE: runRGB,
}

func init() {
	rootCmd.AddCommand(rgbCmd)
	rgbCmd.Flags().BoolVar(&rgbSaturate, "saturate", false, "Scale components to full range")
}

func runRGB(cmd *cobra.Command, args []string) error {
	var coords [2]uint16
	for i, name := range []string{"x", "y"} {
		v, err := strconv.ParseUint(args[i], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid %s %q: expected pixel coordinate", name, args[i])
		}
		coords[i] = uint16(v)
	}

	saturate := byte(0)
	if rgbSaturate {
		saturate = 1
	}

	s, _, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var px pixy.Pixel
	err = s.poll(func() error {
		var e error
		px, e = s.drv.GetRGB(coords[0], coords[1], saturate)
		return e
	})
	if err != nil {
		return err
	}

	fmt.Printf("Pixel (%d,%d): %s (r=%d g=%d b=%d)\n", coords[0], coords[1], px, px.Red(), px.Green(), px.Blue())
	return nil
}
