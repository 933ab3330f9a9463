package pagegen

import "calebs/ccsWebsite/internal/models"

// Services are the cards in the services grid.
var Services = []models.Service{
	{Title: "Repairs & Upgrades", Icon: "wrench", Body: "Speed boosts, SSD installs, RAM, screens, batteries, and full diagnostics."},
	{Title: "Security & Backups", Icon: "shield", Body: "Malware removal, antivirus, secure cloud backup setups, and parental controls."},
	{Title: "Smart Setup", Icon: "zap", Body: "New PCs, home Wi‑Fi optimization, printers, smart TVs, POS, and more."},
	{Title: "Email & Cloud", Icon: "mail", Body: "Microsoft 365/Google Workspace, migrations, and backup strategies."},
	{Title: "Remote Support", Icon: "phone", Body: "Fast remote fixes anywhere. Pay only if we fix it."},
	{Title: "On‑Site Visits", Icon: "map-pin", Body: "We come to you across Orange & surrounds."},
}

// Packages are shown as cards or as a table, depending on the pricing view.
var Packages = []models.PricePackage{
	{
		Title:    "Quick Remote Fix",
		Price:    "$60/hr",
		Features: []string{"First hour upfront", "Ongoing billed hourly", "Most software tweaks", "No fix, no fee"},
		Summary:  "First hour upfront; ongoing billed hourly; most software tweaks; no fix, no fee.",
	},
	{
		Title:     "On‑Site Visit",
		Price:     "$149",
		Features:  []string{"Up to 90 min on‑site", "Wi‑Fi, printers, POS", "Parts billed separately"},
		Highlight: true,
		Summary:   "Up to 90 min on‑site; Wi‑Fi, printers, POS; parts billed separately.",
	},
	{
		Title:    "Tune‑Up Bundle",
		Price:    "$199",
		Features: []string{"SSD + Windows refresh", "Malware clean + updates", "Performance optimization"},
		Summary:  "SSD + Windows refresh; malware clean + updates; performance optimization.",
	},
}

// Rates is the day-rate quick view under the pricing note.
var Rates = []models.Rate{
	{Day: "Mon–Fri", Price: "$60/hr", Notes: "First hour upfront; ongoing hourly; inc GST"},
	{Day: "Saturday", Price: "$85/hr", Notes: "inc GST"},
	{Day: "Sunday", Price: "$95/hr", Notes: "inc GST"},
	{Day: "Public holidays", Price: "$110/hr", Notes: "inc GST"},
}
