package service

import "fmt"

// Prompt builders. Each produces a deterministic prompt that instructs
// the model to return only a single JSON object and embeds the exact
// schema expected back.

func buildGenerateFormPrompt(description string) string {
	return fmt.Sprintf(`Respond with nothing but a single, clean JSON object. No explanations or markdown.
Generate a form structure based on: "%s".
Infer the most appropriate question type ('text', 'mcq', 'checkbox', 'dropdown', 'file', 'rating').

IMPORTANT: Make the title unique and specific by including:
- The type of business/service (e.g., "Restaurant", "Event", "Product")
- The specific purpose (e.g., "Customer Feedback", "Registration", "Evaluation")
- Avoid generic titles like "Feedback Form" or "Survey"
- Include relevant details from the description to make it unique

Example: Instead of "Feedback Form", use "Restaurant Customer Experience Survey" or "Event Registration & Feedback Form"

The JSON output must strictly follow this format:
{
  "title": "string",
  "questions": [ { "type": "string", "label": "string", "options": ["string"], "required": boolean } ],
  "theme": { "primaryColor": "string (hex code)", "logoUrl": "string" },
  "isPublic": boolean
}`, description)
}

func buildImproveQuestionPrompt(label string) string {
	return fmt.Sprintf(`Respond with nothing but a single, clean JSON object.
Rephrase the following form question to be clearer and more engaging: "%s"
Return JSON format: {"suggestion": "string"}`, label)
}

// responsesJSON is the pre-encoded [{responseId, data}] list. The
// orchestrator never calls this with an empty response set.
func buildInsightsPrompt(formTitle, responsesJSON string) string {
	return fmt.Sprintf(`Respond with nothing but a single, clean JSON object.
Analyze these form responses for "%s": %s.
Provide a comprehensive analysis in this JSON format:
{
  "summary": "A concise overview of the findings.",
  "sentiment": "'positive', 'negative', or 'neutral'.",
  "keywords": ["5-7 most frequent themes."],
  "trends": ["3-5 notable patterns."],
  "suggestions": ["3-5 actionable recommendations."],
  "anomaly_report": [ { "responseId": "The response id", "reason": "Why it is an anomaly." } ]
}`, formTitle, responsesJSON)
}

func buildNextQuestionPrompt(previousAnswersJSON, nextQuestionLabel string) string {
	return fmt.Sprintf(`You are a friendly AI survey assistant. Ask the next question conversationally.
Previous answers: %s
Next question: "%s"
Respond with only a JSON object: {"conversationalLabel": "Your rephrased question."}`, previousAnswersJSON, nextQuestionLabel)
}

func buildSpamCheckPrompt(responseDataJSON string) string {
	return fmt.Sprintf(`Analyze the following form submission data for signs of spam, gibberish, or automated bot-like input.
Data: %s
Consider if the text is nonsensical, overly promotional, or has unnatural language.
Respond with ONLY a JSON object in the format: { "spamScore": number }
The "spamScore" should be a number between 0.0 and 1.0, where 0.0 is definitely not spam and 1.0 is definitely spam.`, responseDataJSON)
}
