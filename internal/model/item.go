package model

import "strings"

// Item is the domain model for a todo entry.
// ID is assigned by the store on creation and never changed afterwards.
type Item struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Fields is the writable part of an Item: the body of create and update requests.
type Fields struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Fields returns the writable part of the item.
func (it Item) Fields() Fields {
	return Fields{Title: it.Title, Completed: it.Completed}
}

// Valid reports whether the item may be held in a list: its trimmed title is non-empty.
func (it Item) Valid() bool {
	return strings.TrimSpace(it.Title) != ""
}

// Stats are the completion counts shown above the list.
type Stats struct {
	Completed int
	Remaining int
	Total     int
}

// Percent is the completed share of the list, 0 for an empty list.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// Count computes Stats over items. Completed+Remaining always equals Total.
func Count(items []Item) Stats {
	s := Stats{Total: len(items)}
	for _, it := range items {
		if it.Completed {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}
