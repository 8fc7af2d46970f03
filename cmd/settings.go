package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/model"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Set the theme, or toggle it when no value is given",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			t, err := eng.ToggleTheme()
			if err != nil {
				return err
			}
			fmt.Printf("Theme: %s\n", t)
			return nil
		}
		if err := eng.SetTheme(model.Theme(args[0])); err != nil {
			return err
		}
		fmt.Printf("Theme: %s\n", args[0])
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:       "notifications [on|off]",
	Short:     "Show or set due-today notifications",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			var on bool
			switch args[0] {
			case "on":
				on = true
			case "off":
			default:
				return fmt.Errorf("%w: want on or off, got %q", model.ErrValidation, args[0])
			}
			if err := eng.SetNotifications(on); err != nil {
				return err
			}
		}
		state := "off"
		if eng.Settings().Notifications {
			state = "on"
		}
		fmt.Printf("Notifications: %s\n", state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(notificationsCmd)
}
