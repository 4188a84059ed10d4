package types

import "time"

type Message struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ResearchStatus string

const (
	ResearchStatusReceived ResearchStatus = "received"
	ResearchStatusReviewed ResearchStatus = "reviewed"
	ResearchStatusArchived ResearchStatus = "archived"
)

func (s ResearchStatus) Valid() bool {
	switch s {
	case ResearchStatusReceived, ResearchStatusReviewed, ResearchStatusArchived:
		return true
	}
	return false
}

type ResearchSubmission struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	Organization *string        `db:"organization" json:"organization,omitempty"`
	Title        string         `db:"title" json:"title"`
	Abstract     string         `db:"abstract" json:"abstract"`
	DocumentURL  *string        `db:"document_url" json:"documentUrl,omitempty"`
	Status       ResearchStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}
