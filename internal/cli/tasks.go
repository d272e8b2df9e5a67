package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kidtodo/internal/model"
	"kidtodo/internal/reminder"
	"kidtodo/internal/store"
	"kidtodo/internal/view"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().StringP("project", "p", "", "project to list (default: first project)")
	cmd.Flags().StringP("filter", "f", "all", "all, active or done")
	cmd.Flags().StringP("search", "s", "", "only tasks whose text contains this")
	cmd.Flags().String("sort", "newest", "newest, due or priority")
	cmd.Flags().Bool("json", false, "print the tasks as JSON")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	filter, _ := cmd.Flags().GetString("filter")
	search, _ := cmd.Flags().GetString("search")
	order, _ := cmd.Flags().GetString("sort")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, _, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := projectOrActive(a, project); err != nil {
		return err
	}
	a.SetFilter(view.ParseFilter(filter))
	a.SetSearch(search)
	a.SetSort(view.ParseSort(order))
	frame := a.Frame()

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(frame.VisibleTasks)
	}

	fmt.Fprintf(out, "%s  (%d%% done, %d tasks, %d done)\n\n",
		frame.ActiveProject, frame.Stats.Percent, frame.Stats.Total, frame.Stats.Done)
	if len(frame.VisibleTasks) == 0 {
		fmt.Fprintln(out, "  No tasks.")
		return nil
	}
	for _, t := range frame.VisibleTasks {
		fmt.Fprintln(out, "  "+formatTask(t))
	}
	return nil
}

func formatTask(t model.Task) string {
	check := "[ ]"
	if t.Done {
		check = "[x]"
	}
	var meta []string
	meta = append(meta, "priority: "+t.Priority.Label())
	if t.DueDate() != "" {
		meta = append(meta, "due: "+strings.TrimSpace(t.DueDate()+" "+t.DueClock()))
	}
	switch reminder.StateOf(t) {
	case reminder.Armed:
		meta = append(meta, fmt.Sprintf("remind: %dm before", t.RemindBeforeMin))
	case reminder.Fired:
		meta = append(meta, "reminded")
	}
	return fmt.Sprintf("%s %s  (%s)  %s", check, t.Text, strings.Join(meta, ", "), t.ID)
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAdd,
	}
	cmd.Flags().StringP("project", "p", "", "project (default: first project)")
	cmd.Flags().String("due", "", "due date, YYYY-MM-DD")
	cmd.Flags().String("time", "", "due time, HH:MM")
	cmd.Flags().Int("remind", 0, "minutes before the due time to remind, 0 for none")
	cmd.Flags().String("priority", string(model.DefaultPriority), "low, med or high")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	due, _ := cmd.Flags().GetString("due")
	dueTime, _ := cmd.Flags().GetString("time")
	lead, _ := cmd.Flags().GetInt("remind")
	priority, _ := cmd.Flags().GetString("priority")

	a, _, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()
	a.SetListener(printer{w: cmd.OutOrStdout()})

	project, err = projectOrActive(a, project)
	if err != nil {
		return err
	}
	t, res := a.SubmitTask(store.NewTask{
		Text:            strings.Join(args, " "),
		Project:         project,
		Due:             due,
		DueTime:         dueTime,
		RemindBeforeMin: lead,
		Priority:        priority,
	})
	if err := resultErr(res, ""); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", t.ID, t.Project)
	return nil
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a task; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE:  runEdit,
	}
	cmd.Flags().String("text", "", "new text")
	cmd.Flags().String("due", "", "new due date, YYYY-MM-DD")
	cmd.Flags().String("time", "", "new due time, HH:MM")
	cmd.Flags().Int("remind", 0, "new reminder lead in minutes")
	cmd.Flags().String("priority", "", "low, med or high")
	cmd.Flags().Bool("clear-due", false, "remove the due date")
	cmd.Flags().Bool("clear-time", false, "remove the due time")
	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	var e store.Edit
	flags := cmd.Flags()
	if flags.Changed("text") {
		v, _ := flags.GetString("text")
		e.Text = &v
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		e.Due = &v
	}
	if flags.Changed("time") {
		v, _ := flags.GetString("time")
		e.DueTime = &v
	}
	if flags.Changed("remind") {
		v, _ := flags.GetInt("remind")
		e.RemindBeforeMin = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		e.Priority = &v
	}
	e.ClearDue, _ = flags.GetBool("clear-due")
	e.ClearDueTime, _ = flags.GetBool("clear-time")

	a, _, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()
	a.SetListener(printer{w: cmd.OutOrStdout()})

	id := args[0]
	if _, ok := a.Store().Task(id); !ok {
		return fmt.Errorf("no task with id %q", id)
	}
	res := a.Edit(id, e)
	if res.Rejected() || (res.Changed && !res.Saved) {
		return resultErr(res, id)
	}
	if !res.Changed {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id)
	return nil
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := resultErr(a.Toggle(args[0]), args[0]); err != nil {
				return err
			}
			t, _ := a.Store().Task(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), formatTask(t))
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := resultErr(a.Delete(args[0]), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove done tasks of a project, or every task with --all",
		Args:  cobra.NoArgs,
		RunE:  runClear,
	}
	cmd.Flags().StringP("project", "p", "", "project whose done tasks are removed (default: first project)")
	cmd.Flags().Bool("all", false, "remove ALL tasks in ALL projects")
	cmd.Flags().Bool("yes", false, "confirm --all")
	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	all, _ := cmd.Flags().GetBool("all")
	yes, _ := cmd.Flags().GetBool("yes")
	if all && !yes {
		return fmt.Errorf("--all removes every task in every project; pass --yes to confirm")
	}

	a, _, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()

	if all {
		if err := resultErr(a.ClearAll(), ""); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all tasks")
		return nil
	}

	project, err = projectOrActive(a, project)
	if err != nil {
		return err
	}
	if err := resultErr(a.ClearDone(), ""); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared done tasks in %s\n", project)
	return nil
}
