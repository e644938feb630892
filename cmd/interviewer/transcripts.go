package main

import (
	"fmt"

	"interviewer/internal/repository"
	"interviewer/pkg/schema"

	"github.com/spf13/cobra"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Inspect exported interview transcripts",
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported transcripts",
	Args:  cobra.NoArgs,
	RunE:  runTranscriptsList,
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a transcript's conversation and feedback",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptsShow,
}

func init() {
	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)
	rootCmd.AddCommand(transcriptsCmd)
}

func transcriptStore() (*repository.TranscriptStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.TranscriptDir == "" {
		return nil, fmt.Errorf("no transcript directory: set TRANSCRIPT_DIR or --transcript-dir")
	}
	return repository.NewTranscriptStore(cfg.TranscriptDir), nil
}

func runTranscriptsList(cmd *cobra.Command, _ []string) error {
	store, err := transcriptStore()
	if err != nil {
		return err
	}

	ids, err := store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintf(out, "No transcripts in %s\n", store.Dir())
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func runTranscriptsShow(cmd *cobra.Command, args []string) error {
	store, err := transcriptStore()
	if err != nil {
		return err
	}

	t, err := store.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s, %s at %s\n", t.ID, t.Profile.Name, t.Profile.Role(), t.Profile.Company)
	fmt.Fprintf(out, "Started %s\n", t.StartedAt.Format("2006-01-02 15:04"))

	for _, m := range t.Visible() {
		speaker := "You"
		if m.Role != schema.RoleUser {
			speaker = "Interviewer"
		}
		fmt.Fprintf(out, "\n%s: %s\n", speaker, m.Content)
	}

	if t.Feedback != "" {
		fmt.Fprintf(out, "\n━━ Feedback ━━\n%s\n", t.Feedback)
	}
	return nil
}
