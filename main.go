// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools
//
// Pixyctl - Pixy2 Smart Camera Control
//
// A CLI tool for querying and controlling the Pixy2 smart camera over a
// serial link or a WebSocket serial bridge.

package main

import (
	"os"

	"github.com/camtools/pixyctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
