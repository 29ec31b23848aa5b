// clause - A festive terminal chat client for the Anthropic API.
//
// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/frostbitlabs/clause/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
