package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aura-platform/aura-cli/pkg/api"
	"github.com/aura-platform/aura-cli/pkg/task"
)

var (
	deckCourse string
	deckSlides int
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Generate slide decks",
}

var deckGenerateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a slide deck for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDeckGenerate,
}

func init() {
	rootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckGenerateCmd)

	deckGenerateCmd.Flags().StringVar(&deckCourse, "course", "", "course to scope the deck to")
	deckGenerateCmd.Flags().IntVar(&deckSlides, "slides", 0, "requested slide count (backend default if 0)")
}

func runDeckGenerate(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}

	if err := requireLogin(client); err != nil {
		return err
	}

	ref, err := client.GenerateDeck(cmd.Context(), api.DeckRequest{
		Topic:      strings.Join(args, " "),
		CourseID:   deckCourse,
		SlideCount: deckSlides,
	})
	if err != nil {
		return err
	}

	log.WithField("task_id", ref.TaskID).Info("Deck generation started")

	status, err := task.Await(cmd.Context(), client.GetTaskStatus, ref.TaskID, task.Options{
		Interval:    cfg.Poll.Interval,
		MaxAttempts: cfg.Poll.MaxAttempts,
		Log:         log,
	})
	if err != nil {
		return err
	}

	if status.Status == api.TaskStateFailed {
		return fmt.Errorf("deck generation failed: %s", status.Error)
	}

	var result struct {
		DeckID string `json:"deck_id"`
	}

	if err := json.Unmarshal(status.Result, &result); err != nil {
		return fmt.Errorf("decoding deck result: %w", err)
	}

	deck, err := client.GetDeck(cmd.Context(), result.DeckID)
	if err != nil {
		return err
	}

	fmt.Printf("Deck %s: %s\n", deck.ID, deck.Topic)

	for i, slide := range deck.Slides {
		fmt.Printf("\n%d. %s\n", i+1, slide.Title)

		for _, bullet := range slide.Bullets {
			fmt.Printf("   - %s\n", bullet)
		}
	}

	return nil
}
