package model

// FormDraft is an AI-generated form structure. It is returned unsaved;
// the owner reviews and persists it through the normal create endpoint.
type FormDraft struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	Theme     Theme      `json:"theme"`
	IsPublic  bool       `json:"isPublic"`
}

// AnomalyRecord flags one response the AI judged unusual
type AnomalyRecord struct {
	ResponseID string `json:"responseId"`
	Reason     string `json:"reason"`
}

// Insights is the AI analysis of a form's response set. Produced fresh
// on each request; only the anomaly report is persisted, onto the
// matching responses.
type Insights struct {
	Summary       string          `json:"summary"`
	Sentiment     string          `json:"sentiment"` // positive, negative or neutral
	Keywords      []string        `json:"keywords"`
	Trends        []string        `json:"trends"`
	Suggestions   []string        `json:"suggestions"`
	AnomalyReport []AnomalyRecord `json:"anomaly_report,omitempty"`
}

// NextQuestionResult is one step of the conversational response flow
type NextQuestionResult struct {
	IsFinished   bool      `json:"isFinished"`
	NextQuestion *Question `json:"nextQuestion,omitempty"`
	Message      string    `json:"message,omitempty"`
}
