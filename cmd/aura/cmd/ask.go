package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aura-platform/aura-cli/pkg/api"
	"github.com/aura-platform/aura-cli/pkg/task"
)

var askCourse string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and wait for the answer",
	Long: `Submit a question to the chat pipeline and poll until it is answered.

Examples:
  aura ask "What is tail recursion?"
  aura ask --course cs101 "When is assignment 3 due?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askCourse, "course", "", "course to scope the question to")
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	if err := requireLogin(client); err != nil {
		return err
	}

	question := strings.Join(args, " ")

	ref, err := client.Ask(cmd.Context(), askCourse, question)
	if err != nil {
		return err
	}

	status, err := task.Await(cmd.Context(), client.GetTaskStatus, ref.TaskID, task.Options{
		Interval:    cfg.Poll.Interval,
		MaxAttempts: cfg.Poll.MaxAttempts,
		Log:         log,
		OnProgress: func(st *api.TaskStatus) {
			if !st.Status.Terminal() {
				log.WithField("status", st.Status).Debug("Waiting for answer")
			}
		},
	})
	if err != nil {
		var timeoutErr *task.TimeoutError
		if errors.As(err, &timeoutErr) {
			return fmt.Errorf("the backend did not answer in time: %w", err)
		}

		return err
	}

	if status.Status == api.TaskStateFailed {
		return fmt.Errorf("the backend could not answer: %s", status.Error)
	}

	answer, err := api.DecodeAnswer(status)
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)

	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")

		for _, src := range answer.Sources {
			fmt.Printf("  - %s (%s)\n", src.Title, src.DocumentID)
		}
	}

	return nil
}
