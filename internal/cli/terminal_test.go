// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/muesli/termenv"
)

func TestForceColorsEnabled(t *testing.T) {
	ForceColorsEnabled(false)
	if ColorsEnabled() {
		t.Error("ColorsEnabled() should be false after ForceColorsEnabled(false)")
	}
	if GetColorProfile() != termenv.Ascii {
		t.Error("GetColorProfile() should be Ascii when colors are disabled")
	}

	ForceColorsEnabled(true)
	if !ColorsEnabled() {
		t.Error("ColorsEnabled() should be true after ForceColorsEnabled(true)")
	}
}

func TestSetColorEnabled_False(t *testing.T) {
	// Restore detection state for later tests
	defer ForceColorsEnabled(true)

	ForceColorsEnabled(true)
	SetColorEnabled(false)
	if ColorsEnabled() {
		t.Error("ColorsEnabled() should be false after SetColorEnabled(false)")
	}
	if GetColorProfile() != termenv.Ascii {
		t.Error("GetColorProfile() should be Ascii after SetColorEnabled(false)")
	}
}

func TestSetColorEnabled_TrueKeepsDetection(t *testing.T) {
	defer ForceColorsEnabled(true)

	ForceColorsEnabled(true)
	SetColorEnabled(true)
	if !ColorsEnabled() {
		t.Error("SetColorEnabled(true) must not override enabled detection")
	}
}

func TestGetTerminalWidth_Fallback(t *testing.T) {
	// Test runners don't attach a TTY to stdout, so detection falls back.
	width := GetTerminalWidth()
	if width < MinTerminalWidth {
		t.Errorf("GetTerminalWidth() = %d, want >= %d", width, MinTerminalWidth)
	}
}
