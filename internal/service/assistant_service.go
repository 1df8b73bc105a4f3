package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"formpilot/internal/model"
	"formpilot/internal/repository"
)

var (
	// ErrAIUnavailable means no completion service is configured
	ErrAIUnavailable = errors.New("ai service is not available")
	// ErrInvalidInput means the caller supplied an empty or malformed parameter
	ErrInvalidInput = errors.New("invalid input")
	// ErrExtractionFailed means the model output yielded no usable structure
	ErrExtractionFailed = errors.New("no usable structure recovered from ai response")
)

// AssistantService runs AI-assisted tasks end to end: it builds the
// prompt, calls the completion service once, extracts a JSON object
// from the output and applies per-task validation and fallback policy.
// The completer is injected; a nil completer makes every task report
// ErrAIUnavailable without attempting a call.
type AssistantService struct {
	completer    Completer
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
}

// NewAssistantService creates a new assistant service
func NewAssistantService(completer Completer, formRepo repository.FormRepo, responseRepo repository.ResponseRepo) *AssistantService {
	return &AssistantService{
		completer:    completer,
		formRepo:     formRepo,
		responseRepo: responseRepo,
	}
}

// GenerateForm drafts a form structure from a natural-language
// description. The draft is returned unsaved so the owner can review
// and persist it through the normal create flow.
func (s *AssistantService) GenerateForm(ctx context.Context, description string) (*model.FormDraft, error) {
	if s.completer == nil {
		return nil, ErrAIUnavailable
	}

	raw, err := s.completer.Complete(ctx, buildGenerateFormPrompt(description))
	if err != nil {
		return nil, ErrExtractionFailed
	}

	var draft model.FormDraft
	if !extractInto(raw, &draft) || draft.Questions == nil {
		return nil, ErrExtractionFailed
	}
	return &draft, nil
}

// ImproveQuestion rewrites a question label for clarity and engagement
func (s *AssistantService) ImproveQuestion(ctx context.Context, label string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", ErrInvalidInput
	}
	if s.completer == nil {
		return "", ErrAIUnavailable
	}

	raw, err := s.completer.Complete(ctx, buildImproveQuestionPrompt(label))
	if err != nil {
		return "", ErrExtractionFailed
	}

	var payload struct {
		Suggestion string `json:"suggestion"`
	}
	if !extractInto(raw, &payload) || payload.Suggestion == "" {
		return "", ErrExtractionFailed
	}
	return payload.Suggestion, nil
}

// GenerateInsights analyzes a form's response set. With zero stored
// responses it returns a canned neutral result without calling the
// completion service. Anomaly annotations from the report are written
// back onto the matching responses best-effort per item; an individual
// write failure is logged and never fails the overall call.
func (s *AssistantService) GenerateInsights(ctx context.Context, formID string) (*model.Insights, error) {
	if s.completer == nil {
		return nil, ErrAIUnavailable
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	responses, err := s.responseRepo.GetByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return &model.Insights{
			Summary:     "No responses yet.",
			Sentiment:   "neutral",
			Keywords:    []string{},
			Trends:      []string{},
			Suggestions: []string{},
		}, nil
	}

	type responseSource struct {
		ResponseID string                 `json:"responseId"`
		Data       map[string]interface{} `json:"data"`
	}
	sources := make([]responseSource, 0, len(responses))
	for _, r := range responses {
		sources = append(sources, responseSource{ResponseID: r.ID, Data: r.Data})
	}
	encoded, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, buildInsightsPrompt(form.Title, string(encoded)))
	if err != nil {
		return nil, ErrExtractionFailed
	}

	var insights model.Insights
	if !extractInto(raw, &insights) {
		return nil, ErrExtractionFailed
	}

	for _, rec := range insights.AnomalyReport {
		if err := s.responseRepo.UpdateAnomalyReason(ctx, rec.ResponseID, rec.Reason); err != nil {
			log.Printf("anomaly annotation failed for response %s: %v", rec.ResponseID, err)
		}
	}

	return &insights, nil
}

// NextQuestion advances the conversational response flow: it picks the
// first question whose label is not yet answered and asks the model to
// rephrase it. The canonical label is always a safe answer, so any
// completion or extraction failure falls back to it silently.
func (s *AssistantService) NextQuestion(ctx context.Context, formID string, answers map[string]interface{}) (*model.NextQuestionResult, error) {
	if s.completer == nil {
		return nil, ErrAIUnavailable
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	var next *model.Question
	for i := range form.Questions {
		if _, answered := answers[form.Questions[i].Label]; !answered {
			next = &form.Questions[i]
			break
		}
	}
	if next == nil {
		return &model.NextQuestionResult{
			IsFinished: true,
			Message:    "Thank you for completing the form!",
		}, nil
	}

	// Rephrase a copy; the stored question is never mutated.
	question := *next

	encoded, err := json.Marshal(answers)
	if err != nil {
		encoded = []byte("{}")
	}
	raw, err := s.completer.Complete(ctx, buildNextQuestionPrompt(string(encoded), question.Label))
	if err == nil {
		var payload struct {
			ConversationalLabel string `json:"conversationalLabel"`
		}
		if extractInto(raw, &payload) && payload.ConversationalLabel != "" {
			question.Label = payload.ConversationalLabel
		}
	}

	return &model.NextQuestionResult{NextQuestion: &question}, nil
}

// DetectSpam scores a submission in [0,1]. Every failure path returns
// the safe default 0 so submissions are never blocked by an AI outage.
func (s *AssistantService) DetectSpam(ctx context.Context, data map[string]interface{}) float64 {
	if s.completer == nil {
		return 0
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return 0
	}

	raw, err := s.completer.Complete(ctx, buildSpamCheckPrompt(string(encoded)))
	if err != nil {
		log.Printf("spam detection call failed: %v", err)
		return 0
	}

	var payload struct {
		SpamScore *float64 `json:"spamScore"`
	}
	if !extractInto(raw, &payload) || payload.SpamScore == nil {
		return 0
	}
	return *payload.SpamScore
}
