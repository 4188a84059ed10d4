package types

// Department is a standing cause donors can target, as opposed to a
// time-bounded emergency campaign. Departments are static content, not a
// table; donations reference them by slug.
type Department struct {
	Slug   string `json:"slug"`
	NameEN string `json:"nameEn"`
	NameFA string `json:"nameFa"`
	NamePS string `json:"namePs"`
	Icon   string `json:"icon"`
}

var Departments = []Department{
	{Slug: "clean-water", NameEN: "Clean Water", NameFA: "آب پاک", NamePS: "پاکې اوبه", Icon: "droplet"},
	{Slug: "education", NameEN: "Education", NameFA: "آموزش", NamePS: "زده کړه", Icon: "book"},
	{Slug: "healthcare", NameEN: "Healthcare", NameFA: "صحت", NamePS: "روغتیا", Icon: "heart-pulse"},
	{Slug: "food-relief", NameEN: "Food Relief", NameFA: "کمک غذایی", NamePS: "خوراکي مرستې", Icon: "wheat"},
	{Slug: "orphan-care", NameEN: "Orphan Care", NameFA: "سرپرستی ایتام", NamePS: "د یتیمانو پالنه", Icon: "hand-heart"},
	{Slug: "winter-aid", NameEN: "Winter Aid", NameFA: "کمک زمستانی", NamePS: "ژمنۍ مرستې", Icon: "snowflake"},
}

func DepartmentBySlug(slug string) (Department, bool) {
	for _, d := range Departments {
		if d.Slug == slug {
			return d, true
		}
	}
	return Department{}, false
}
