package llm

import (
	"fmt"

	"interviewer/pkg/schema"
)

// interviewerTemplate seeds the interviewer persona from the candidate profile.
const interviewerTemplate = "You are an HR executive that interviews an interviewee called %s " +
	"with experience %s and skills %s. " +
	"You should interview them for the position %s %s at the company %s."

// FeedbackSystemPrompt instructs the evaluator to score the interview and give feedback.
const FeedbackSystemPrompt = `You are a helpful tool that provides feedback on an interviewee performance.
Before the Feedback give a score of 1 to 10.
Follow this format:
Overall Score: //Your score
Feedback: //Here you put your feedback
Give only the feedback do not ask any additional questions.`

// feedbackRequestPrefix precedes the conversation history in the evaluation request.
const feedbackRequestPrefix = "This is the interview you need to evaluate. " +
	"Keep in mind that you are only a tool, and shouldn't engage in conversation: "

// BuildInterviewerPrompt creates the system instruction for an interview.
func BuildInterviewerPrompt(p schema.Profile) string {
	return fmt.Sprintf(interviewerTemplate,
		p.Name,
		p.Experience,
		p.Skills,
		p.Level,
		p.Position,
		p.Company,
	)
}

// BuildFeedbackRequest wraps the conversation history for the evaluator.
func BuildFeedbackRequest(history string) string {
	return feedbackRequestPrefix + history
}
