package model

// User is a registered form owner
type User struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	// DataRetentionDays controls the response cleanup sweep. 0 means keep forever.
	DataRetentionDays int   `json:"dataRetentionDays" bson:"dataRetentionDays"`
	FormsCreated      int   `json:"formsCreated" bson:"formsCreated"`
	TotalResponses    int   `json:"totalResponses" bson:"totalResponses"`
	TotalUploads      int64 `json:"totalUploads" bson:"totalUploads"` // bytes
}
