// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - lipgloss palettes for the clause themes.
//
// Color handling (profile selection, NO_COLOR, TTY detection) is configured
// once by the cli layer; these styles only name colors.
package theme

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTES
// =============================================================================

// festivePalette leans on holiday reds and greens.
func festivePalette() Palette {
	return Palette{
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82")), // Bright green

		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")), // Blue

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Yellow/Orange

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")), // Green

		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")), // Dim gray
	}
}

// grinchPalette is monochrome apart from status colors.
func grinchPalette() Palette {
	return Palette{
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")), // Off-white

		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")), // White

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),

		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")),
	}
}
