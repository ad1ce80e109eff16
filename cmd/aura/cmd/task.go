package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura-platform/aura-cli/pkg/api"
	"github.com/aura-platform/aura-cli/pkg/task"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Inspect asynchronous backend tasks",
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id]",
	Short: "Show the current status of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		if err := requireLogin(client); err != nil {
			return err
		}

		status, err := client.GetTaskStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printTaskStatus(status)

		return nil
	},
}

var taskWatchCmd = &cobra.Command{
	Use:   "watch [task-id]",
	Short: "Poll a task until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}

		if err := requireLogin(client); err != nil {
			return err
		}

		status, err := task.Await(cmd.Context(), client.GetTaskStatus, args[0], task.Options{
			Interval:    cfg.Poll.Interval,
			MaxAttempts: cfg.Poll.MaxAttempts,
			Log:         log,
			OnProgress:  printTaskStatus,
		})
		if err != nil {
			return err
		}

		if status.Status == api.TaskStateFailed {
			return fmt.Errorf("task failed: %s", status.Error)
		}

		return nil
	},
}

func printTaskStatus(status *api.TaskStatus) {
	if status.Progress > 0 && !status.Status.Terminal() {
		fmt.Printf("%s  %s (%.0f%%)\n", status.TaskID, status.Status, status.Progress*100)

		return
	}

	fmt.Printf("%s  %s\n", status.TaskID, status.Status)
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskWatchCmd)
}
