package submissions

import "time"

// Submission is a finalized application, read-only for the admin panel.
type Submission struct {
	Token       string    `json:"token"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	Step        int       `json:"step"`
	StorageKey  string    `json:"-"`
	SubmittedAt time.Time `json:"submittedAt"`
}
