package services

import (
	"testing"

	"github.com/Anuraagsingh132/collegeconnect/models"
)

func catalogFixtures() []models.Listing {
	return []models.Listing{
		{Title: "Calculus Early Transcendentals", Description: "Stewart 8th edition, barely used", Category: "Books"},
		{Title: "Gaming Laptop", Description: "RTX 3060, 16GB RAM", Category: "Electronics"},
		{Title: "Mini Fridge", Description: "Perfect for a dorm room", Category: "Electronics"},
		{Title: "Desk Lamp", Description: "LED lamp with calculator stand", Category: "Furniture"},
	}
}

func TestFilterBySearchText(t *testing.T) {
	listings := catalogFixtures()

	cases := []struct {
		q    string
		want int
	}{
		{"", 4},
		{"   ", 4},
		{"calc", 2},          // title of the textbook + "calculator" in a description
		{"CALC", 2},          // case-insensitive
		{"electronics", 2},   // category matches too
		{"dorm", 1},
		{"motorcycle", 0},
	}

	for _, c := range cases {
		got := FilterBySearchText(listings, c.q)
		if len(got) != c.want {
			t.Errorf("FilterBySearchText(%q) returned %d listings, want %d", c.q, len(got), c.want)
		}
	}
}

func TestMatchesSearchText(t *testing.T) {
	l := models.Listing{Title: "Calculus Early Transcendentals", Description: "Stewart 8th edition", Category: "Books"}

	if !MatchesSearchText(&l, "stewart") {
		t.Error("expected description substring to match")
	}
	if !MatchesSearchText(&l, "books") {
		t.Error("expected category to match case-insensitively")
	}
	if MatchesSearchText(&l, "physics") {
		t.Error("unexpected match")
	}
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		sortKey string
		sortDir string
		want    string
	}{
		{"created_at", "desc", "created_at DESC, id ASC"},
		{"price", "asc", "price ASC, id ASC"},
		{"title", "ASC", "title ASC, id ASC"},
		{"", "", "created_at DESC, id ASC"},
		// Unknown columns fall back instead of reaching the database
		{"password", "asc", "created_at ASC, id ASC"},
		{"price; DROP TABLE listings", "desc", "created_at DESC, id ASC"},
		{"price", "sideways", "price DESC, id ASC"},
	}

	for _, c := range cases {
		if got := OrderClause(c.sortKey, c.sortDir); got != c.want {
			t.Errorf("OrderClause(%q, %q) = %q, want %q", c.sortKey, c.sortDir, got, c.want)
		}
	}
}
