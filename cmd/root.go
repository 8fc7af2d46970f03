package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/config"
	"github.com/rogersnm/todo/internal/engine"
	"github.com/rogersnm/todo/internal/repofile"
	"github.com/rogersnm/todo/internal/store"
)

var (
	version   = "dev"
	dataDir   string
	ephemeral bool
	verbose   bool
	cfg       *config.Config
	eng       *engine.Engine

	// newConfirmer builds the prompt used for destructive commands run without --force.
	newConfirmer = func() engine.Confirmer { return huhConfirmer{} }
	notifier     engine.Notifier = termNotifier{w: os.Stderr}
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todo")
	}
	return filepath.Join(home, ".todo")
}

var rootCmd = &cobra.Command{
	Use:     "todo",
	Short:   "Personal task tracking with categories, due dates and reordering",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveDataDir(cmd); err != nil {
			return err
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		lvl, _ := cfg.Level()
		if verbose {
			lvl = log.DebugLevel
		}
		log.SetOutput(os.Stderr)
		log.SetLevel(lvl)

		// Link commands only touch the link file.
		if cmd.Name() == "link" || cmd.Name() == "unlink" {
			return nil
		}
		return openEngine(cmd)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep data in memory only (nothing is saved)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"add": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Task text when no argument is given",
				},
				Examples: []mtp.Example{
					{Description: "Add a task", Command: "todo add \"Buy milk\" --category shopping"},
					{Description: "Add a task due on a date", Command: "todo add \"File taxes\" --due 2026-04-15"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of visible tasks with short ID, checkbox, text, category and due date, followed by progress stats",
				},
				Examples: []mtp.Example{
					{Description: "List open work tasks", Command: "todo list --category work --status active"},
					{Description: "List overdue tasks", Command: "todo list --status overdue"},
					{Description: "Search tasks", Command: "todo list --search milk"},
				},
			},
			"show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Task as YAML frontmatter (category, due, completed) followed by the task text",
				},
			},
			"done": {
				Examples: []mtp.Example{
					{Description: "Toggle a task's completion", Command: "todo done 1a2b3c4d"},
				},
			},
			"update": {
				Stdin: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "New task text",
				},
				Examples: []mtp.Example{
					{Description: "Move a task to another category", Command: "todo update 1a2b3c4d --category school"},
					{Description: "Clear a due date", Command: "todo update 1a2b3c4d --clear-due"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete a task (interactive confirm)", Command: "todo delete 1a2b3c4d"},
					{Description: "Delete a task (skip confirm)", Command: "todo delete 1a2b3c4d --force"},
				},
			},
			"clear": {
				Examples: []mtp.Example{
					{Description: "Delete every task (skip confirm)", Command: "todo clear --force"},
				},
			},
			"move": {
				Examples: []mtp.Example{
					{Description: "Put two work tasks first, in this order", Command: "todo move 9f8e7d6c 1a2b3c4d --category work"},
				},
			},
			"category add": {
				Examples: []mtp.Example{
					{Description: "Add a custom category", Command: "todo category add gym --color \"#E91E63\""},
				},
			},
			"category remove": {
				Examples: []mtp.Example{
					{Description: "Remove a custom category, moving its tasks to Personal", Command: "todo category remove gym --force"},
				},
			},
			"export": {
				Stdout: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "Backup document with tasks, settings, version and exportDate when no --output is given",
				},
				Examples: []mtp.Example{
					{Description: "Write a dated backup into a directory", Command: "todo export --output ~/backups"},
					{Description: "Export as YAML", Command: "todo export --format yaml"},
				},
			},
			"import": {
				Stdin: &mtp.IODescriptor{
					ContentType: "application/json",
					Description: "Backup document when the file argument is -",
				},
				Examples: []mtp.Example{
					{Description: "Restore a backup (replaces all tasks)", Command: "todo import todo-app-backup-2026-01-31.json"},
				},
			},
			"watch": {
				Examples: []mtp.Example{
					{Description: "Alert for tasks due today every five minutes", Command: "todo watch --interval 5m"},
				},
			},
			"link": {
				Examples: []mtp.Example{
					{Description: "Use a shared list for this directory tree", Command: "todo link ~/lists/household"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveDataDir picks the --data-dir flag, then a .todo-list link above the
// working directory, then the default.
func resolveDataDir(cmd *cobra.Command) error {
	if cmd.Flags().Changed("data-dir") {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	linked, _, err := repofile.Find(cwd)
	if err != nil {
		return fmt.Errorf("reading %s: %w", repofile.FileName, err)
	}
	if linked != "" {
		log.WithField("data_dir", linked).Debug("using linked task list")
		dataDir = linked
	}
	return nil
}

func openEngine(cmd *cobra.Command) error {
	var backend store.Backend
	if ephemeral {
		backend = store.NewMemory(int(cfg.QuotaBytes))
	} else {
		fb, err := store.NewFile(dataDir, cfg.QuotaBytes)
		if err != nil {
			return err
		}
		backend = fb
	}

	var confirmer engine.Confirmer = engine.AutoConfirm{}
	if force, err := cmd.Flags().GetBool("force"); err != nil || !force {
		confirmer = newConfirmer()
	}
	opts := []engine.Option{
		engine.WithConfirmer(confirmer),
		engine.WithNotifier(notifier),
	}
	if cfg.DefaultCategory != "" {
		opts = append(opts, engine.WithDefaultCategory(cfg.DefaultCategory))
	}

	var err error
	eng, err = engine.Open(store.New(backend), opts...)
	if err != nil {
		return fmt.Errorf("opening task list: %w", err)
	}
	return nil
}

type huhConfirmer struct{}

func (huhConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Description(message).Value(&ok),
	)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

var alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

type termNotifier struct {
	w io.Writer
}

func (n termNotifier) Notify(title, body string) error {
	_, err := fmt.Fprintf(n.w, "%s %s\n", alertStyle.Render(title), body)
	return err
}

func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	// Only read if stdin is explicitly a pipe (not a terminal, not a socket)
	if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return string(data)
}
