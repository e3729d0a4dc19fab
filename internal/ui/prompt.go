package ui

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/project-tktt/gradconnection-crawler/internal/module"
)

// AskMode asks whether to clear the previous checkpoints or continue from them
func AskMode() (module.Mode, error) {
	reset, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show("Clear existing checkpoint files and start over? (No resumes)")
	if err != nil {
		return module.ModeResume, err
	}
	if reset {
		return module.ModeReset, nil
	}
	return module.ModeResume, nil
}

// AskURL offers to replace the listing URL; an empty answer keeps current
func AskURL(current string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Search URL (enter keeps " + current + ")").
		Show()
	if err != nil {
		return current, err
	}
	return ResolveURL(answer, current), nil
}

// ResolveURL picks the override when one was typed
func ResolveURL(answer, current string) string {
	if answer = strings.TrimSpace(answer); answer != "" {
		return answer
	}
	return current
}
