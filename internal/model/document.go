package model

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Card priority levels.
const (
	PriorityNone   = "none"
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	MaxCardTitleLen   = 200
	MaxCardDetailsLen = 5000
	MaxLabelTextLen   = 30
)

var (
	dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	colorPattern   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Document is the full JSON state of one kanban board: an ordered list of
// columns plus a card lookup keyed by card id.
type Document struct {
	Columns []Column        `json:"columns"`
	Cards   map[string]Card `json:"cards"`
}

// Column holds an ordered list of card ids. Position within CardIDs is the
// card's position in the column.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	CardIDs []string `json:"cardIds"`
}

type Card struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Details  string  `json:"details"`
	Labels   []Label `json:"labels,omitempty"`
	DueDate  string  `json:"due_date,omitempty"`
	Priority string  `json:"priority,omitempty"`
}

type Label struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// ValidationError reports the first structural rule a candidate document
// violates.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the structural integrity of the document: every cards key
// must equal its card's id, every cardIds entry must resolve to a known
// card, and card fields must be within bounds. A card appearing in more
// than one column is allowed. Dates are only pattern-checked, so
// "2024-02-30" passes.
func (d *Document) Validate() error {
	for key, card := range d.Cards {
		if card.ID != key {
			return validationErrorf("card key %q does not match card id %q", key, card.ID)
		}
		if err := card.validate(); err != nil {
			return err
		}
	}

	for _, column := range d.Columns {
		for _, cardID := range column.CardIDs {
			if _, ok := d.Cards[cardID]; !ok {
				return validationErrorf("column %q references unknown card %q", column.ID, cardID)
			}
		}
	}

	return nil
}

func (c Card) validate() error {
	if utf8.RuneCountInString(c.Title) > MaxCardTitleLen {
		return validationErrorf("card %q title exceeds %d characters", c.ID, MaxCardTitleLen)
	}
	if utf8.RuneCountInString(c.Details) > MaxCardDetailsLen {
		return validationErrorf("card %q details exceed %d characters", c.ID, MaxCardDetailsLen)
	}
	if c.DueDate != "" && !dueDatePattern.MatchString(c.DueDate) {
		return validationErrorf("card %q due_date %q is not YYYY-MM-DD", c.ID, c.DueDate)
	}
	if !validPriority(c.Priority) {
		return validationErrorf("card %q has unknown priority %q", c.ID, c.Priority)
	}
	for _, label := range c.Labels {
		if utf8.RuneCountInString(label.Text) > MaxLabelTextLen {
			return validationErrorf("label %q text exceeds %d characters", label.ID, MaxLabelTextLen)
		}
		if !colorPattern.MatchString(label.Color) {
			return validationErrorf("label %q color %q is not a #RRGGBB value", label.ID, label.Color)
		}
	}
	return nil
}

func validPriority(p string) bool {
	switch p {
	case "", PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
