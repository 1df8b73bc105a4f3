package model

import "time"

// Response is a single submission to a form. Immutable once stored,
// except AnomalyReason which the assistant writes after an insights run.
type Response struct {
	ID        string                 `json:"id" bson:"_id,omitempty"`
	FormID    string                 `json:"formId" bson:"formId"`
	OwnerID   string                 `json:"ownerId" bson:"ownerId"` // denormalized from the form, for retention queries
	Data      map[string]interface{} `json:"data" bson:"data"`       // question label -> submitted value
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
	IP        string                 `json:"ip,omitempty" bson:"ip,omitempty"`
	SpamScore float64                `json:"spamScore" bson:"spamScore"`
	// AnomalyReason is set when the AI judged this response unusual
	AnomalyReason string `json:"anomalyReason,omitempty" bson:"anomalyReason,omitempty"`
}

// FileAnswer is the answer shape for file questions
type FileAnswer struct {
	Name string `json:"name" bson:"name"`
	Size int64  `json:"size" bson:"size"`
}
