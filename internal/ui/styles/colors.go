// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the aurora TUI.
package styles

import (
	"regexp"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// BASE COLORS
// =============================================================================

// Purple - Assistant text, header background
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - User text, cursor
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Rose - Failed turns
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Transient notices
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// TextPrimary - Input line
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Status row
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Separators, key help
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on the header background
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// pick returns the variant of c for the given background.
func pick(c lipgloss.AdaptiveColor, dark bool) string {
	if dark {
		return c.Dark
	}
	return c.Light
}

// =============================================================================
// COLOR SPEC VALIDATION
// =============================================================================

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether spec is empty, a #RGB/#RRGGBB hex color or an
// ANSI index between 0 and 255.
func ValidColor(spec string) bool {
	if spec == "" || hexColor.MatchString(spec) {
		return true
	}
	n, err := strconv.Atoi(spec)
	return err == nil && n >= 0 && n <= 255
}
