package types

import (
	"time"
)

// EmergencyCampaign is a time-bounded fundraising cause shown above the
// standing departments. Name, description and the donor-facing impact
// message carry English, Dari and Pashto variants.
type EmergencyCampaign struct {
	ID string `db:"id" json:"id"`

	NameEN string `db:"name_en" json:"nameEn" form:"name_en"`
	NameFA string `db:"name_fa" json:"nameFa" form:"name_fa"`
	NamePS string `db:"name_ps" json:"namePs" form:"name_ps"`

	DescriptionEN string `db:"description_en" json:"descriptionEn" form:"description_en"`
	DescriptionFA string `db:"description_fa" json:"descriptionFa" form:"description_fa"`
	DescriptionPS string `db:"description_ps" json:"descriptionPs" form:"description_ps"`

	ImpactEN string `db:"impact_en" json:"impactEn" form:"impact_en"`
	ImpactFA string `db:"impact_fa" json:"impactFa" form:"impact_fa"`
	ImpactPS string `db:"impact_ps" json:"impactPs" form:"impact_ps"`

	Icon             string     `db:"icon" json:"icon" form:"icon"`
	GoalCents        int64      `db:"goal_cents" json:"goalCents" form:"goal_cents"`
	IsActive         bool       `db:"is_active" json:"isActive"`
	ExpiresAt        *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	Priority         int        `db:"priority" json:"priority" form:"priority"`
	QuickAmountCents []int64    `db:"quick_amount_cents" json:"quickAmountCents" form:"quick_amount_cents"` // jsonb array

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Expired is computed at read time and is independent of IsActive. An
// expired campaign can still be active until an admin deactivates it;
// the public listing filters on both.
func (c *EmergencyCampaign) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// CampaignWithStats is the shape of the emergency_campaigns_with_stats
// view. The current amount and donation count are maintained by the
// database and are eventually consistent; this layer never computes them.
type CampaignWithStats struct {
	EmergencyCampaign

	CurrentAmountCents int64 `db:"current_amount_cents" json:"currentAmountCents"`
	DonationCount      int64 `db:"donation_count" json:"donationCount"`
}

// ProgressPercent clamps to [0, 100] for display. A zero goal reads as
// zero progress rather than dividing.
func (c *CampaignWithStats) ProgressPercent() int {
	if c.GoalCents <= 0 {
		return 0
	}
	pct := c.CurrentAmountCents * 100 / c.GoalCents
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}
