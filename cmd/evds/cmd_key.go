package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thesavant42/evds-ng/internal/config"
	"github.com/thesavant42/evds-ng/internal/ui"
	"github.com/zalando/go-keyring"
)

// promptForAPIKey is replaced in tests
var promptForAPIKey = ui.PromptForAPIKey

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the EVDS API key stored in the system keyring",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [key]",
			Short: "Save the API key (prompts when no key is given)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var key string
				if len(args) == 1 {
					key = args[0]
				} else {
					var err error
					if key, err = promptForAPIKey(); err != nil {
						return err
					}
				}
				if err := config.SaveAPIKey(key); err != nil {
					return fmt.Errorf("failed to save API key: %w", err)
				}
				ui.PrintSuccess("Saved EVDS API key to system keyring")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the API key in use, masked, and where it came from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.cfg.APIKey == "" {
					return errors.New("no API key configured, set one with: evds key set")
				}
				ui.PrintKeyValues([][2]string{
					{"key", config.MaskSecret(a.cfg.APIKey)},
					{"source", a.cfg.KeySource},
				})
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the API key from the system keyring",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.DeleteAPIKey(); err != nil {
					if errors.Is(err, keyring.ErrNotFound) {
						ui.PrintInfo("No API key stored in the keyring")
						return nil
					}
					return fmt.Errorf("failed to delete API key: %w", err)
				}
				ui.PrintSuccess("Deleted EVDS API key from system keyring")
				return nil
			},
		},
	)
	return cmd
}
