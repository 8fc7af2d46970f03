package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks and settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatStr, _ := cmd.Flags().GetString("format")
		format, err := store.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		data, err := eng.Export(format)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if info, err := os.Stat(out); err == nil && info.IsDir() {
			out = filepath.Join(out, store.ExportFilename(time.Now(), format))
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("Exported %d task(s) to %s\n", len(eng.Tasks()), out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all tasks with an exported backup (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		res, err := eng.Import(data)
		if err != nil {
			return err
		}
		if res.HasTasks {
			fmt.Printf("Imported %d task(s)", len(res.Tasks))
			if res.Dropped > 0 {
				fmt.Printf(", skipped %d invalid", res.Dropped)
			}
			fmt.Println()
		}
		if res.HasSettings {
			fmt.Println("Imported settings")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "file or directory to write to (default stdout)")
	exportCmd.Flags().String("format", "json", "output format (json, yaml)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
