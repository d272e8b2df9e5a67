package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kidtodo/internal/app"
	"kidtodo/internal/config"
	"kidtodo/internal/persist"
	"kidtodo/internal/reminder"
	"kidtodo/internal/store"
	"kidtodo/internal/tui"
)

var (
	configPath string
	dataDir    string
	backend    string
	exportPath string
)

// NewRootCmd builds the command tree. Execute uses it; tests build their own.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "kidtodo",
		Short: "kidtodo - projects, tasks and reminders in your terminal",
		Long: `kidtodo keeps tasks in named projects, lets you filter, search and sort
them, and reminds you before they are due while it is running.

Run without a subcommand to open the dashboard.`,
		RunE:          runDashboard,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the task record (overrides config)")
	root.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: file, sqlite or memory (overrides config)")
	root.Flags().StringVar(&exportPath, "export-path", persist.ExportFileName, "where the x key writes a backup")

	root.AddCommand(newListCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newDoneCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newProjectCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads config and the stored collection. The returned func closes
// the storage backend.
func openApp() (*app.App, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := persist.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	codec := persist.NewCodec(b, persist.WithKey(cfg.StorageKey))
	a := app.New(codec, app.Options{Reminder: cfg.ReminderConfig()})
	return a, cfg, func() { b.Close() }, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, cfg, closeFn, err := openApp()
	if err != nil {
		return err
	}
	defer closeFn()

	logPath := ""
	if os.Getenv("KIDTODO_DEBUG") != "" {
		logPath = filepath.Join(cfg.DataDir, "debug.log")
	}
	return tui.Run(a, exportPath, logPath)
}

// resultErr turns a store result into a command error. A missing id is an
// error on the command line even though the core ignores it.
func resultErr(res store.Result, id string) error {
	switch {
	case res.Rejected():
		return res.Reason
	case res.Changed && !res.Saved:
		return fmt.Errorf("change not saved: %w", res.Reason)
	case !res.Changed && id != "":
		return fmt.Errorf("no task with id %q", id)
	}
	return nil
}

// printer writes reminder notifications as plain lines.
type printer struct {
	w io.Writer
}

func (p printer) Render(app.Frame) {}

func (p printer) Notify(n reminder.Notification) {
	fmt.Fprintf(p.w, "%s  %s  [%s]\n", n.Title, n.Body, n.TaskID)
}

// projectOrActive switches to project when given and returns the active one.
func projectOrActive(a *app.App, project string) (string, error) {
	if project == "" {
		return a.ActiveProject(), nil
	}
	if !a.Store().HasProject(project) {
		return "", fmt.Errorf("project %q does not exist", project)
	}
	a.SwitchProject(project)
	return project, nil
}
