package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/markdown"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List default and custom categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(markdown.RenderCategoryTable(eng.Categories(), eng.CategoryUsage))
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		c, err := eng.AddCategory(args[0], color)
		if err != nil {
			return err
		}
		fmt.Printf("Added category %s (%s)\n", markdown.RenderCategory(c.Name, c.DisplayColor()), c.Name)
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a custom category, moving its tasks to Personal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, n, err := eng.RemoveCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("removal cancelled")
		}
		if n > 0 {
			fmt.Printf("Removed category %s and moved %d task(s) to Personal\n", args[0], n)
			return nil
		}
		fmt.Printf("Removed category %s\n", args[0])
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().String("color", "", "display color as #RRGGBB (default #4CAF50)")
	categoryRemoveCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)
	rootCmd.AddCommand(categoryCmd)
}
