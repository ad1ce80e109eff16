package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var kbLimit int

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Query the knowledge base",
}

var kbSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search knowledge base documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		if err := requireLogin(client); err != nil {
			return err
		}

		results, err := client.SearchKB(cmd.Context(), strings.Join(args, " "), kbLimit)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results")

			return nil
		}

		for _, res := range results {
			fmt.Printf("%.2f  %s  %s\n", res.Score, res.Document.ID, res.Document.Title)

			if res.Snippet != "" {
				fmt.Printf("      %s\n", res.Snippet)
			}
		}

		return nil
	},
}

var kbDocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List knowledge base documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		if err := requireLogin(client); err != nil {
			return err
		}

		docs, err := client.ListKBDocuments(cmd.Context())
		if err != nil {
			return err
		}

		for _, doc := range docs {
			fmt.Printf("%s  %-30s  %s\n", doc.ID, doc.Title, doc.CourseID)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbSearchCmd)
	kbCmd.AddCommand(kbDocsCmd)

	kbSearchCmd.Flags().IntVarP(&kbLimit, "limit", "n", 0, "maximum results (backend default if 0)")
}
