package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kidtodo/internal/config"
	"kidtodo/internal/persist"
)

func newProjectCmd() *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	projectCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects in tab order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()
			for _, p := range a.Store().Projects() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	})

	projectCmd.AddCommand(&cobra.Command{
		Use:   "add [name]",
		Short: "Add a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()
			if err := resultErr(a.AddProject(args[0]), ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added project %s\n", a.ActiveProject())
			return nil
		},
	})
	return projectCmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write a JSON backup of all projects and tasks (\"-\" for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := persist.ExportFileName
			if len(args) == 1 {
				path = args[0]
			}

			a, _, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()

			if path == "-" {
				return persist.Export(cmd.OutOrStdout(), a.Export())
			}
			if err := a.ExportFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print reminders as they come due, without the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, closeFn, err := openApp()
			if err != nil {
				return err
			}
			defer closeFn()
			a.SetListener(printer{w: cmd.OutOrStdout()})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching for reminders every %s (ctrl+c to stop)\n", cfg.Reminders.Interval)
			if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	return configCmd
}
