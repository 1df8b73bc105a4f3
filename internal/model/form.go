package model

import "time"

// QuestionType defines the kind of question
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"     // Free text
	QuestionTypeMCQ      QuestionType = "mcq"      // Single choice
	QuestionTypeCheckbox QuestionType = "checkbox" // Multiple choice
	QuestionTypeDropdown QuestionType = "dropdown" // Single choice, dropdown presentation
	QuestionTypeFile     QuestionType = "file"     // File upload ({name, size} answer)
	QuestionTypeRating   QuestionType = "rating"   // 1-5 rating
)

// Question is one entry in a form. Order within Form.Questions drives
// sequential presentation in the conversational flow.
type Question struct {
	Type     QuestionType `json:"type" bson:"type"`
	Label    string       `json:"label" bson:"label"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"` // mcq, checkbox, dropdown only
	Required bool         `json:"required" bson:"required"`
}

// Theme styles the public form view
type Theme struct {
	PrimaryColor string `json:"primaryColor" bson:"primaryColor"`
	LogoURL      string `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
}

// Form is a persistent form template created by an owner.
// Title is unique per owner (compound index ownerId+title).
type Form struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	OwnerID   string     `json:"ownerId" bson:"ownerId"`
	Title     string     `json:"title" bson:"title"`
	Questions []Question `json:"questions" bson:"questions"`
	Theme     Theme      `json:"theme" bson:"theme"`
	IsPublic  bool       `json:"isPublic" bson:"isPublic"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// DefaultPrimaryColor is applied when a form is created without a theme
const DefaultPrimaryColor = "#3B82F6"
