package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"interviewer/pkg/schema"
)

// errInputClosed signals that the input stream ended; the session exits quietly.
var errInputClosed = errors.New("input closed")

// TranscriptSaver persists finished interviews.
type TranscriptSaver interface {
	Save(t *schema.Transcript) (string, error)
}

// CLISession manages an interactive mock interview on a terminal.
type CLISession struct {
	State       *InterviewState
	Interviewer *Interviewer
	Transcripts TranscriptSaver       // Optional; nil disables export
	Reload      func() *InterviewState // Builds the fresh state used on restart

	in  *bufio.Reader
	out io.Writer
}

// NewCLISession creates a CLI session reading answers from in and writing to out.
func NewCLISession(interviewer *Interviewer, in io.Reader, out io.Writer) *CLISession {
	return &CLISession{
		State:       NewInterviewState(),
		Interviewer: interviewer,
		Reload:      NewInterviewState,
		in:          bufio.NewReader(in),
		out:         out,
	}
}

// Run executes interviews until the candidate declines a restart or input ends.
func (s *CLISession) Run(ctx context.Context) error {
	for {
		err := s.runInterview(ctx)
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		restart, err := s.confirm("\nRestart interview? [yes/no]: ", false)
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if !restart {
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return nil
		}

		s.State = s.Reload()
		fmt.Fprintln(s.out)
	}
}

// runInterview drives one session from setup through feedback.
func (s *CLISession) runInterview(ctx context.Context) error {
	if s.State.Phase == PhaseSetup {
		if err := s.setup(); err != nil {
			return err
		}
	}

	if s.State.Phase == PhaseInterviewing {
		if err := s.chat(ctx); err != nil {
			return err
		}
	}

	if s.State.Phase == PhaseAwaitingFeedbackRequest {
		if err := s.feedback(ctx); err != nil {
			return err
		}
	}

	s.export()
	return nil
}

// setup collects the profile and starts the interview.
func (s *CLISession) setup() error {
	profile := s.State.Profile

	s.heading("Personal information")
	fields := []struct {
		label string
		value *string
	}{
		{"Name", &profile.Name},
		{"Experience", &profile.Experience},
		{"Skills", &profile.Skills},
	}
	for _, f := range fields {
		if err := s.askText(&profile, f.label, f.value); err != nil {
			return err
		}
	}

	s.heading("Company and Position")
	levels := make([]string, len(schema.Levels))
	for i, l := range schema.Levels {
		levels[i] = string(l)
	}
	level, err := s.askChoice("Choose level", levels, string(profile.Level))
	if err != nil {
		return err
	}
	profile.Level = schema.Level(level)

	if profile.Position, err = s.askChoice("Choose a position", schema.Positions, profile.Position); err != nil {
		return err
	}
	if profile.Company, err = s.askChoice("Choose a company", schema.Companies, profile.Company); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\n**Your Name**: %s\n", profile.Name)
	fmt.Fprintf(s.out, "**Your Experience**: %s\n", profile.Experience)
	fmt.Fprintf(s.out, "**Your Skills**: %s\n", profile.Skills)
	fmt.Fprintf(s.out, "**Your Information**: %s at %s\n", profile.Role(), profile.Company)

	if _, err := s.readLine("\nPress Enter to start the interview..."); err != nil {
		return err
	}

	s.State.SetProfile(profile)
	s.State = s.Interviewer.CompleteSetup(s.State)
	fmt.Fprintln(s.out, "Setup complete. Starting interview...")
	return nil
}

// chat runs answer turns until the turn limit is reached.
func (s *CLISession) chat(ctx context.Context) error {
	fmt.Fprintln(s.out, "\n👋 Start by introducing yourself.")

	for s.State.Phase == PhaseInterviewing {
		turn := s.State.UserTurnCount + 1
		answer, err := s.readLine(fmt.Sprintf("\n[%d/%d] You: ", turn, s.Interviewer.MaxTurns()))
		if err != nil {
			return err
		}

		if err := schema.ValidateAnswer(answer); err != nil {
			s.warn(invalidInput(err))
			continue
		}

		started := false
		next, err := s.Interviewer.SubmitAnswer(ctx, s.State, answer, func(fragment string) {
			if !started {
				fmt.Fprint(s.out, "\nInterviewer: ")
				started = true
			}
			fmt.Fprint(s.out, fragment)
		})
		if started {
			fmt.Fprintln(s.out)
		}
		if err != nil {
			return fmt.Errorf("interview failed: %w", err)
		}
		s.State = next
	}

	return nil
}

// feedback asks whether to evaluate the interview and shows the result.
func (s *CLISession) feedback(ctx context.Context) error {
	want, err := s.confirm("\nInterview complete. Get feedback? [yes/no]: ", true)
	if err != nil {
		return err
	}
	if !want {
		return nil
	}

	fmt.Fprintln(s.out, "Fetching feedback...")
	next, err := s.Interviewer.RequestFeedback(ctx, s.State)
	if err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}
	s.State = next

	s.heading("Feedback")
	fmt.Fprintln(s.out, s.State.Feedback)
	return nil
}

// export saves the transcript when a store is configured. Failures are reported, not fatal.
func (s *CLISession) export() {
	if s.Transcripts == nil || s.State.Phase < PhaseAwaitingFeedbackRequest {
		return
	}

	path, err := s.Transcripts.Save(s.State.Transcript(time.Now()))
	if err != nil {
		fmt.Fprintf(s.out, "⚠️  Failed to save transcript: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "📝 Transcript saved to %s\n", path)
}

// askText reads a free-text profile field, re-asking until it passes validation.
// An empty line keeps the current value.
func (s *CLISession) askText(profile *schema.Profile, label string, value *string) error {
	for {
		prompt := label + ": "
		if *value != "" {
			prompt = fmt.Sprintf("%s [%s]: ", label, *value)
		}

		line, err := s.readLine(prompt)
		if err != nil {
			return err
		}

		previous := *value
		if line = strings.TrimSpace(line); line != "" {
			*value = line
		}

		if err := schema.ValidateProfile(profile); err != nil {
			*value = previous
			s.warn(invalidInput(err))
			continue
		}
		return nil
	}
}

// askChoice reads a numbered selection. An empty line keeps the current value.
func (s *CLISession) askChoice(label string, options []string, current string) (string, error) {
	fmt.Fprintf(s.out, "%s:\n", label)
	for i, opt := range options {
		marker := " "
		if opt == current {
			marker = "*"
		}
		fmt.Fprintf(s.out, "  %s %d) %s\n", marker, i+1, opt)
	}

	for {
		line, err := s.readLine("> ")
		if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return current, nil
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			s.warn(&ValidationError{Field: label, Message: fmt.Sprintf("enter a number between 1 and %d", len(options)), Err: err})
			continue
		}
		return options[n-1], nil
	}
}

// confirm asks a yes/no question. An empty answer selects def.
func (s *CLISession) confirm(prompt string, def bool) (bool, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
	}
}

// readLine prints prompt and returns the next input line without its line ending.
func (s *CLISession) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return "", errInputClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *CLISession) heading(title string) {
	fmt.Fprintf(s.out, "\n━━ %s ━━\n", title)
}

func (s *CLISession) warn(err error) {
	fmt.Fprintf(s.out, "⚠️  %v\n", err)
}

func invalidInput(err error) *ValidationError {
	return &ValidationError{Message: err.Error(), Err: err}
}
