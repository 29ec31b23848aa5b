// Copyright (c) 2025-2026 Frostbit Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme holds the festive string tables and lipgloss palettes for
// clause. A Theme is pure data: the CLI layer picks one by name and decides
// when and how its strings are rendered.
package theme
