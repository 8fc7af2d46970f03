package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/repofile"
)

var linkCmd = &cobra.Command{
	Use:   "link [data-dir]",
	Short: "Point the current directory tree at a task list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := dataDir
		if len(args) == 1 {
			target = args[0]
		}
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(abs, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", abs, err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := repofile.Write(cwd, abs); err != nil {
			return err
		}
		fmt.Printf("Linked %s to %s\n", repofile.FileName, abs)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the task list link from the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		removed, err := repofile.Remove(cwd)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("No %s in current directory\n", repofile.FileName)
			return nil
		}
		fmt.Printf("Removed %s\n", repofile.FileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
}
