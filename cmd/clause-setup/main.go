// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main provides clause-setup, a guided full-screen setup wizard.
// It configures the same three things as "clause setup" (API key, project
// folder, theme) with a friendlier first-run experience.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

const version = "1.0.0"

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--help", "-h":
			printHelp()
			return
		case "--version", "-v":
			fmt.Printf("clause-setup v%s\n", version)
			return
		}
	}

	if !isTerminal() {
		fmt.Println("clause-setup requires an interactive terminal.")
		fmt.Println("Run 'clause setup' for a plain prompt-based setup.")
		os.Exit(1)
	}

	p := tea.NewProgram(NewWizard(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running setup: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`clause-setup v` + version + `

Usage: clause-setup [OPTIONS]

Options:
  --help, -h     Show this help
  --version, -v  Show version

Walks through API key, project folder, and theme configuration.
The same settings can be changed later with 'clause config' or the
/setkey, /project, and /theme commands in chat.`)
}

// isTerminal checks if we're running in an interactive terminal
func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
