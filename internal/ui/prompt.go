package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || r < 32 {
			return -1
		}
		return r
	}, s)
}

// Confirm shows a yes/no prompt; yes is preselected
func Confirm(title, description string) (bool, error) {
	confirmed := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return confirmed, nil
}

// PromptForAPIKey asks for the EVDS API key without echoing it
func PromptForAPIKey() (string, error) {
	var key string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("EVDS API Key").
				Description("Create one under your profile at evds2.tcmb.gov.tr").
				EchoMode(huh.EchoModePassword).
				Value(&key).
				Validate(func(s string) error {
					if strings.TrimSpace(sanitizeInput(s)) == "" {
						return fmt.Errorf("API key cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(sanitizeInput(key)), nil
}
