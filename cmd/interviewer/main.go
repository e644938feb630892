// Package main provides the entry point for the mock interview CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"interviewer/internal/core"
	"interviewer/internal/llm"
	"interviewer/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interviewer",
	Short: "Turn-limited mock job interview",
	Long:  "Interviewer runs a five-answer mock job interview against a chat model, then scores the conversation on request.",
	RunE:  runInterview,
}

var (
	interviewMaxTurns      int
	interviewTranscriptDir string
)

func init() {
	rootCmd.Flags().IntVar(&interviewMaxTurns, "max-turns", 0, "Number of candidate answers (overrides MAX_TURNS)")
	rootCmd.PersistentFlags().StringVar(&interviewTranscriptDir, "transcript-dir", "", "Directory for exported transcripts (overrides TRANSCRIPT_DIR)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInterview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := core.NewLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if sl, ok := core.Slog(logger); ok {
		slog.SetDefault(sl)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}

	generator := core.NewLLMGenerator(backend, cfg.InterviewModel, cfg.FeedbackModel)
	interviewer := core.NewInterviewer(generator, logger).WithMaxTurns(cfg.MaxTurns)

	session := core.NewCLISession(interviewer, cmd.InOrStdin(), cmd.OutOrStdout())
	if cfg.TranscriptDir != "" {
		session.Transcripts = repository.NewTranscriptStore(cfg.TranscriptDir)
	}

	logger.Info("session starting",
		"backend", cfg.Backend,
		"interview_model", cfg.InterviewModel,
		"feedback_model", cfg.FeedbackModel,
		"max_turns", cfg.MaxTurns,
	)
	return session.Run(ctx)
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig() (*core.Config, error) {
	cfg, err := core.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if interviewMaxTurns > 0 {
		cfg.MaxTurns = interviewMaxTurns
	}
	if interviewTranscriptDir != "" {
		cfg.TranscriptDir = interviewTranscriptDir
	}
	return cfg, nil
}

// newBackend builds the generation backend selected by cfg.Backend.
func newBackend(ctx context.Context, cfg *core.Config) (llm.Backend, error) {
	client, err := llm.NewClient(cfg.LLMConfig())
	if err != nil {
		return nil, fmt.Errorf("create generation client: %w", err)
	}

	if cfg.Backend == core.BackendGenkit {
		return llm.NewGenkitBackend(ctx, client), nil
	}
	return client, nil
}
