// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Camtools

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/camtools/pixyctl/pkg/pixy"
)

var (
	blocksSigmap   uint8
	blocksMax      uint8
	blocksCount    int
	blocksInterval int
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Query color blocks detected by the color engine",
	Long: `Query the color blocks detected in the most recent camera frame.

The signature map selects which color signatures to report: bits 0-6 enable
signatures 1-7, bit 7 enables color codes, 255 enables everything.

With --count the query repeats at the given interval, one result set per
line group, which is useful for watching a tracked object settle.`,
	RunE: runBlocks,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().Uint8Var(&blocksSigmap, "sigmap", 255, "Signature bitmap (1-255)")
	blocksCmd.Flags().Uint8Var(&blocksMax, "max", 255, "Maximum number of blocks to return")
	blocksCmd.Flags().IntVar(&blocksCount, "count", 1, "Number of queries to run")
	blocksCmd.Flags().IntVar(&blocksInterval, "interval", 200, "Interval between queries (milliseconds)")
}

func runBlocks(cmd *cobra.Command, args []string) error {
	s, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("Connection: %s\n\n", connInfo)

	for i := 0; i < blocksCount; i++ {
		if i > 0 {
			time.Sleep(time.Duration(blocksInterval) * time.Millisecond)
		}

		var blocks pixy.Blocks
		err := s.poll(func() error {
			var e error
			blocks, e = s.drv.GetBlocks(blocksSigmap, blocksMax)
			return e
		})
		if err != nil {
			return err
		}

		fmt.Printf("[%s] %d block(s)\n", time.Now().Format("15:04:05.000"), blocks.Len())
		fmt.Print(pixy.FormatBlocks(blocks))

		for _, a := range pixy.ValidateBlocks(blocks) {
			fmt.Printf("  !! %s\n", a)
		}
	}
	return nil
}
