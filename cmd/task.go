package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/editor"
	"github.com/rogersnm/todo/internal/filter"
	"github.com/rogersnm/todo/internal/id"
	"github.com/rogersnm/todo/internal/markdown"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/tasks"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			text = strings.TrimSpace(readStdin())
		}
		category, _ := cmd.Flags().GetString("category")
		due, err := dueFlag(cmd)
		if err != nil {
			return err
		}

		t, err := eng.AddTask(text, category, due)
		if err != nil {
			return err
		}
		fmt.Printf("Added task %s (%s)\n", t.Text, id.Short(t.ID))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFilterFlags(cmd); err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := sonic.ConfigStd.MarshalIndent(eng.Visible(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		eng.Subscribe(func(visible []model.Task, stats filter.Stats) {
			fmt.Println(markdown.RenderTaskTable(visible, eng.CategoryColor, eng.Today()))
			fmt.Println(markdown.RenderStats(stats))
		})
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTask(args[0])
		if err != nil {
			return err
		}

		pretty, _ := cmd.Flags().GetBool("pretty")
		if !pretty {
			data, err := markdown.MarshalTask(t)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		}

		status := "open"
		if t.Completed {
			status = "completed"
		} else if t.IsOverdue(eng.Today()) {
			status = "overdue"
		}
		fields := []string{
			markdown.RenderField("ID", t.ID),
			markdown.RenderField("Category", markdown.RenderCategory(t.Category, eng.CategoryColor(t.Category))),
			markdown.RenderField("Status", status),
		}
		if t.DueDate != nil {
			fields = append(fields, markdown.RenderField("Due", t.DueDate.String()+" ("+markdown.RenderDue(t, eng.Today())+")"))
		}
		fields = append(fields,
			markdown.RenderField("Created", t.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			markdown.RenderField("Updated", t.UpdatedAt.Local().Format("2006-01-02 15:04:05")),
		)

		fmt.Print(markdown.RenderTaskHeader("Task", fields))
		rendered, err := markdown.RenderMarkdown(t.Text)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task between open and completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		if err := eng.ToggleTask(t.ID); err != nil {
			return err
		}
		if t.Completed {
			fmt.Printf("Reopened task %s\n", id.Short(t.ID))
		} else {
			fmt.Printf("Completed task %s\n", id.Short(t.ID))
		}
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTask(args[0])
		if err != nil {
			return err
		}

		upd := tasks.Update{}
		if cmd.Flags().Changed("text") {
			text, _ := cmd.Flags().GetString("text")
			upd.Text = &text
		} else if text := strings.TrimSpace(readStdin()); text != "" {
			upd.Text = &text
		}
		if cmd.Flags().Changed("category") {
			c, _ := cmd.Flags().GetString("category")
			upd.Category = &c
		}
		if clearDue, _ := cmd.Flags().GetBool("clear-due"); clearDue {
			var none *model.Date
			upd.DueDate = &none
		} else if cmd.Flags().Changed("due") {
			due, err := dueFlag(cmd)
			if err != nil {
				return err
			}
			upd.DueDate = &due
		}

		if upd.IsEmpty() {
			return fmt.Errorf("at least one update flag or piped text is required (--text, --category, --due, --clear-due, stdin)")
		}
		if err := eng.UpdateTask(t.ID, upd); err != nil {
			return err
		}
		fmt.Printf("Updated task %s\n", id.Short(t.ID))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		data, err := markdown.MarshalTask(t)
		if err != nil {
			return err
		}
		edited, err := editor.Edit(data, "todo-"+id.Short(t.ID)+"-*.md")
		if err != nil {
			return err
		}
		if bytes.Equal(edited, data) {
			fmt.Println("No changes.")
			return nil
		}

		upd, err := editUpdate(t, edited)
		if err != nil {
			return err
		}
		if upd.IsEmpty() {
			fmt.Println("No changes.")
			return nil
		}
		if err := eng.UpdateTask(t.ID, upd); err != nil {
			return err
		}
		fmt.Printf("Updated task %s\n", id.Short(t.ID))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Task: %s (%s)\n", t.Text, id.Short(t.ID))
		removed, err := eng.DeleteTask(cmd.Context(), t.ID)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("deletion cancelled")
		}
		fmt.Printf("Deleted task %s\n", id.Short(t.ID))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n := len(eng.Tasks())
		if n == 0 {
			fmt.Println("No tasks to clear.")
			return nil
		}
		cleared, err := eng.ClearAll(cmd.Context())
		if err != nil {
			return err
		}
		if !cleared {
			return fmt.Errorf("clear cancelled")
		}
		fmt.Printf("Deleted %d task(s)\n", n)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id>...",
	Short: "Reorder the tasks visible under the given filter",
	Long: "Puts the given tasks first, in the given order, among the tasks visible under the filter flags. " +
		"Visible tasks not named keep their relative order after them; tasks hidden by the filter move to the end.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFilterFlags(cmd); err != nil {
			return err
		}
		order := make([]string, 0, len(args))
		for _, a := range args {
			full, err := eng.Resolve(a)
			if err != nil {
				return err
			}
			order = append(order, full)
		}
		if err := eng.Reorder(order); err != nil {
			return err
		}
		fmt.Println(markdown.RenderTaskTable(eng.Visible(), eng.CategoryColor, eng.Today()))
		return nil
	},
}

func resolveTask(prefix string) (model.Task, error) {
	full, err := eng.Resolve(prefix)
	if err != nil {
		return model.Task{}, err
	}
	t, _ := eng.Get(full)
	return t, nil
}

func dueFlag(cmd *cobra.Command) (*model.Date, error) {
	s, _ := cmd.Flags().GetString("due")
	if s == "" {
		return nil, nil
	}
	switch strings.ToLower(s) {
	case "today":
		d := eng.Today()
		return &d, nil
	case "tomorrow":
		d := eng.Today().AddDays(1)
		return &d, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func applyFilterFlags(cmd *cobra.Command) error {
	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	search, _ := cmd.Flags().GetString("search")
	return eng.SetFilter(model.FilterSpec{
		Category: category,
		Status:   model.Status(status),
		Search:   search,
	})
}

// editUpdate diffs an edited task file against t.
func editUpdate(t model.Task, edited []byte) (tasks.Update, error) {
	meta, text, err := markdown.ParseTask(bytes.NewReader(edited))
	if err != nil {
		return tasks.Update{}, err
	}
	due, err := meta.DueDate()
	if err != nil {
		return tasks.Update{}, err
	}

	upd := tasks.Update{}
	if text != t.Text {
		upd.Text = &text
	}
	if meta.Category != t.Category {
		upd.Category = &meta.Category
	}
	if meta.Completed != t.Completed {
		upd.Completed = &meta.Completed
	}
	if !sameDate(due, t.DueDate) {
		upd.DueDate = &due
	}
	return upd, nil
}

func sameDate(a, b *model.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", model.AllCategories, "filter by category")
	cmd.Flags().StringP("status", "s", string(model.StatusAll), "filter by status (all, active, completed, overdue)")
	cmd.Flags().StringP("search", "q", "", "filter by text (case-insensitive)")
}

func init() {
	addCmd.Flags().StringP("category", "c", "", "category (defaults to personal or default_category)")
	addCmd.Flags().StringP("due", "d", "", "due date (YYYY-MM-DD, today, tomorrow)")

	addFilterFlags(listCmd)
	listCmd.Flags().Bool("json", false, "print the visible tasks as JSON")

	showCmd.Flags().Bool("pretty", false, "render with ANSI styling")

	updateCmd.Flags().String("text", "", "new text")
	updateCmd.Flags().StringP("category", "c", "", "new category")
	updateCmd.Flags().StringP("due", "d", "", "new due date (YYYY-MM-DD, today, tomorrow)")
	updateCmd.Flags().Bool("clear-due", false, "remove the due date")

	deleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	clearCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	addFilterFlags(moveCmd)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(moveCmd)
}
