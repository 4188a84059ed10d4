package types

import "time"

// Impact is evidence that donated funds produced a specific outcome,
// optionally tied to a single donation by its public identifier.
type Impact struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title" form:"title"`
	Description  string    `db:"description" json:"description" form:"description"`
	CostCents    int64     `db:"cost_cents" json:"costCents" form:"cost_cents"`
	TargetID     string    `db:"target_id" json:"targetId" form:"target_id"`
	MediaURLs    []string  `db:"media_urls" json:"mediaUrls" form:"media_urls"` // jsonb array
	DonationID   *string   `db:"donation_id" json:"donationId,omitempty" form:"donation_id"`
	AdminComment *string   `db:"admin_comment" json:"adminComment,omitempty" form:"admin_comment"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
