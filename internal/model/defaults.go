package model

// DefaultBoardName is the name given to a user's first board.
const DefaultBoardName = "My Board"

// DefaultDocument returns a fresh copy of the seeded board template: five
// columns and eight cards.
func DefaultDocument() *Document {
	return &Document{
		Columns: []Column{
			{ID: "col-backlog", Title: "Backlog", CardIDs: []string{"card-1", "card-2"}},
			{ID: "col-discovery", Title: "Discovery", CardIDs: []string{"card-3"}},
			{ID: "col-progress", Title: "In Progress", CardIDs: []string{"card-4", "card-5"}},
			{ID: "col-review", Title: "Review", CardIDs: []string{"card-6"}},
			{ID: "col-done", Title: "Done", CardIDs: []string{"card-7", "card-8"}},
		},
		Cards: map[string]Card{
			"card-1": {
				ID:      "card-1",
				Title:   "Align roadmap themes",
				Details: "Draft quarterly themes with impact statements and metrics.",
			},
			"card-2": {
				ID:      "card-2",
				Title:   "Gather customer signals",
				Details: "Review support tags, sales notes, and churn feedback.",
			},
			"card-3": {
				ID:      "card-3",
				Title:   "Prototype analytics view",
				Details: "Sketch initial dashboard layout and key drill-downs.",
			},
			"card-4": {
				ID:      "card-4",
				Title:   "Refine status language",
				Details: "Standardize column labels and tone across the board.",
			},
			"card-5": {
				ID:      "card-5",
				Title:   "Design card layout",
				Details: "Add hierarchy and spacing for scanning dense lists.",
			},
			"card-6": {
				ID:      "card-6",
				Title:   "QA micro-interactions",
				Details: "Verify hover, focus, and loading states.",
			},
			"card-7": {
				ID:      "card-7",
				Title:   "Ship marketing page",
				Details: "Final copy approved and asset pack delivered.",
			},
			"card-8": {
				ID:      "card-8",
				Title:   "Close onboarding sprint",
				Details: "Document release notes and share internally.",
			},
		},
	}
}
