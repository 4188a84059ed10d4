package seed

import (
	"context"
	"fmt"
	"time"

	"afghanrelief/internal/store"
	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"
)

// SeedCampaigns inserts the starter emergency campaigns on a fresh
// database. Unlike the lookup-table seeds this is insert-only: once the
// admin dashboard owns a campaign, re-running seed must not clobber it.
//
// To generate new IDs: `go run ./cmd/afghanrelief nanoid`
func SeedCampaigns(ctx context.Context, repo *store.CampaignRepository) ([]*types.EmergencyCampaign, error) {
	campaigns := []*types.EmergencyCampaign{
		{
			NameEN:        "Earthquake Response — Herat",
			NameFA:        "پاسخ به زلزله هرات",
			NamePS:        "د هرات زلزلې ځواب",
			DescriptionEN: "Emergency shelter, food and medical care for families displaced by the Herat earthquakes.",
			DescriptionFA: "سرپناه اضطراری، غذا و مراقبت صحی برای خانواده‌های بیجاشده زلزله هرات.",
			DescriptionPS: "د هرات د زلزلو له امله بې ځایه شویو کورنیو لپاره بیړنی سرپناه، خواړه او روغتیايي پاملرنه.",
			ImpactEN:      "Your donation shelters a family for a month.",
			ImpactFA:      "کمک شما یک خانواده را برای یک ماه سرپناه می‌دهد.",
			ImpactPS:      "ستاسو مرسته یوې کورنۍ ته د یوې میاشتې سرپناه برابروي.",
			Icon:          "house-crack",
			GoalCents:     5_000_000,
			Priority:      1,
			QuickAmountCents: []int64{
				2_500, 5_000, 10_000, 25_000,
			},
		},
		{
			NameEN:        "Winter Emergency Fund",
			NameFA:        "صندوق اضطراری زمستان",
			NamePS:        "د ژمي بیړنی فنډ",
			DescriptionEN: "Firewood, blankets and warm clothing for families facing the mountain winter.",
			DescriptionFA: "هیزم، کمپل و لباس گرم برای خانواده‌های مواجه با زمستان کوهستانی.",
			DescriptionPS: "د غرنۍ ژمي سره مخ کورنیو لپاره د سون لرگي، کمپلې او ګرمې جامې.",
			ImpactEN:      "Keeps one household warm through the coldest months.",
			ImpactFA:      "یک خانواده را در سردترین ماه‌ها گرم نگه می‌دارد.",
			ImpactPS:      "یوه کورنۍ په سړو میاشتو کې ګرمه ساتي.",
			Icon:          "snowflake",
			GoalCents:     2_000_000,
			Priority:      2,
			QuickAmountCents: []int64{
				1_500, 3_000, 7_500,
			},
		},
	}

	// Give the winter fund a first expiry at the end of the season; the
	// admin extends or deactivates it from the dashboard.
	expiry := time.Date(time.Now().Year()+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	campaigns[1].ExpiresAt = utils.TimePtr(expiry)

	existing, err := repo.AllCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch existing campaigns: %w", err)
	}

	byName := make(map[string]bool, len(existing))
	for _, c := range existing {
		byName[c.NameEN] = true
	}

	created := make([]*types.EmergencyCampaign, 0, len(campaigns))
	for _, campaign := range campaigns {
		if byName[campaign.NameEN] {
			continue
		}

		if err := repo.CreateCampaign(ctx, campaign); err != nil {
			return nil, fmt.Errorf("seed campaign %q: %w", campaign.NameEN, err)
		}
		created = append(created, campaign)
	}

	return created, nil
}
