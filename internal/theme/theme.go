// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme holds the festive string tables and styling for clause.
package theme

import (
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME DEFINITION
// =============================================================================

// Theme is a bundle of seasonal strings and styles. Themes are pure data;
// rendering and printing belong to the CLI layer.
type Theme struct {
	// Name is the config value that selects this theme.
	Name string

	// Emoji is the prompt badge shown before user input.
	Emoji string

	// PromptLabel is the text of the input prompt.
	PromptLabel string

	// Thinking holds the wait messages shown while a response streams.
	Thinking []string

	// Success holds the messages shown after a completed response.
	Success []string

	// Error holds the messages shown when a request fails.
	Error []string

	// Analysis holds the messages shown when code is being inspected.
	Analysis []string

	// Farewells holds the goodbye lines for session exit.
	Farewells []string

	// Banner is the multi-line welcome banner.
	Banner string

	// Tree is the ASCII art shown on first run.
	Tree string

	// Styles is the lipgloss palette for this theme.
	Styles Palette
}

// Palette groups the lipgloss styles a theme uses.
type Palette struct {
	Prompt  lipgloss.Style
	Banner  lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Dim     lipgloss.Style
}

// =============================================================================
// FESTIVE THEME
// =============================================================================

const festiveBanner = `
🎄 Welcome to Clause! 🎅
═══════════════════════════════
     *    🎄    *
   *  🎁  *  🎁  *
 🎄  Ho Ho Ho!  🎄
═══════════════════════════════
`

const festiveTree = `
           🌟
          /|\
         /*|*\
        /🎁|🎁\
       /*🎄|🎄*\
      /🎁🎄|🎄🎁\
     /*🎄🎁|🎁🎄*\
    /🎄🎁🎄|🎄🎁🎄\
          |||
          |||
`

// Festive returns the full holiday theme.
func Festive() *Theme {
	return &Theme{
		Name:        "festive",
		Emoji:       "🎅",
		PromptLabel: "🎄 You",
		Thinking: []string{
			"🎅 Sleighing...",
			"🎄 Jingling...",
			"⛷️ Snowboarding...",
			"🎁 Unwrapping...",
			"❄️ Crystallizing...",
			"🦌 Dashing...",
			"🎵 Caroling...",
			"🍪 Baking...",
			"⭐ Twinkling...",
			"🔔 Ringing...",
			"🛷 Sledding...",
			"❄️ Frosting...",
			"🎿 Skiing...",
			"☃️ Snowballing...",
			"🕯️ Glowing...",
		},
		Success: []string{
			"🎁 Ho ho ho! Your code is ready!",
			"✨ Sprinkled some magic dust on your solution!",
			"🌟 Guided by the North Star to the answer!",
			"🎄 Delivered faster than Santa's sleigh!",
			"🎅 Perfect! Added to the nice list!",
			"❄️ Fresh code, like newly fallen snow!",
		},
		Error: []string{
			"🎅 Uh oh! Looks like we're on the naughty list...",
			"❄️ Hit an icy patch! Let me try a different route...",
			"🦌 Rudolph can't light the way through this fog...",
			"🎁 This present needs more wrapping!",
		},
		Analysis: []string{
			"🎅 Making a list, checking it twice...",
			"🔍 Looking for who's been naughty or nice in this codebase...",
			"📋 Checking the nice list for best practices...",
			"🎄 Inspecting the code under the tree...",
		},
		Farewells: []string{
			"🎅 Merry coding! See you soon!",
			"🎄 May your builds be merry and bright!",
			"❄️ Stay frosty out there!",
			"🛷 Off into the snowy night!",
		},
		Banner: strings.TrimLeft(festiveBanner, "\n"),
		Tree:   festiveTree,
		Styles: festivePalette(),
	}
}

// =============================================================================
// GRINCH THEME
// =============================================================================

const grinchBanner = `
Clause
══════
`

// Grinch returns the minimal theme for those who prefer less festivity.
func Grinch() *Theme {
	return &Theme{
		Name:        "grinch",
		Emoji:       "⚙️",
		PromptLabel: "You",
		Thinking:    []string{"⚙️ Processing..."},
		Success:     []string{"✓ Done"},
		Error:       []string{"✗ Error occurred"},
		Analysis:    []string{"⚙️ Analyzing..."},
		Farewells:   []string{"Goodbye."},
		Banner:      strings.TrimLeft(grinchBanner, "\n"),
		Tree:        "",
		Styles:      grinchPalette(),
	}
}

// =============================================================================
// LOOKUP AND RANDOM PICKERS
// =============================================================================

// ForName returns the theme for a config value. Unknown names fall back to
// festive, matching the config default.
func ForName(name string) *Theme {
	if strings.EqualFold(name, "grinch") {
		return Grinch()
	}
	return Festive()
}

// Names returns the selectable theme names.
func Names() []string {
	return []string{"festive", "grinch"}
}

// pick returns a random entry, or "" for an empty table.
func pick(table []string) string {
	if len(table) == 0 {
		return ""
	}
	return table[rand.Intn(len(table))]
}

// RandomThinking returns a random thinking message.
func (t *Theme) RandomThinking() string { return pick(t.Thinking) }

// RandomSuccess returns a random success message.
func (t *Theme) RandomSuccess() string { return pick(t.Success) }

// RandomError returns a random error message.
func (t *Theme) RandomError() string { return pick(t.Error) }

// RandomAnalysis returns a random analysis message.
func (t *Theme) RandomAnalysis() string { return pick(t.Analysis) }

// RandomFarewell returns a random farewell line.
func (t *Theme) RandomFarewell() string { return pick(t.Farewells) }
