package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics [course-id]",
	Short: "Show course activity analytics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		if err := requireLogin(client); err != nil {
			return err
		}

		analytics, err := client.CourseAnalytics(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Course:          %s\n", analytics.CourseID)
		fmt.Printf("Questions:       %d\n", analytics.QuestionCount)
		fmt.Printf("Active students: %d\n", analytics.ActiveStudents)
		fmt.Printf("Avg response:    %.1fs\n", analytics.AvgResponseSecs)

		if len(analytics.TopTopics) > 0 {
			fmt.Println("Top topics:")

			for _, topic := range analytics.TopTopics {
				fmt.Printf("  %-20s %d\n", topic.Name, topic.Count)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}
