package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{ListingStatusDraft, ListingStatusActive, true},
		{ListingStatusDraft, ListingStatusSold, false},
		{ListingStatusDraft, ListingStatusDeleted, false},
		{ListingStatusActive, ListingStatusSold, true},
		{ListingStatusActive, ListingStatusDeleted, true},
		{ListingStatusActive, ListingStatusDraft, false},
		{ListingStatusSold, ListingStatusActive, true},
		{ListingStatusSold, ListingStatusDeleted, true},
		{ListingStatusSold, ListingStatusDraft, false},
		// Deleted is terminal
		{ListingStatusDeleted, ListingStatusActive, false},
		{ListingStatusDeleted, ListingStatusSold, false},
		{ListingStatusDeleted, ListingStatusDraft, false},
		// Self transitions are not moves
		{ListingStatusActive, ListingStatusActive, false},
		// Unknown statuses never transition
		{"archived", ListingStatusActive, false},
		{ListingStatusActive, "archived", false},
	}

	for _, c := range cases {
		l := Listing{Status: c.from}
		if got := l.CanTransition(c.to); got != c.allowed {
			t.Errorf("CanTransition(%q -> %q) = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestCanSetStatus(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		// Resubmitting the current status is accepted as a no-op
		{ListingStatusActive, ListingStatusActive, true},
		{ListingStatusDraft, ListingStatusDraft, true},
		{ListingStatusDeleted, ListingStatusDeleted, true},
		// Real moves still follow the transition rules
		{ListingStatusDraft, ListingStatusActive, true},
		{ListingStatusDraft, ListingStatusSold, false},
		{ListingStatusDeleted, ListingStatusActive, false},
	}

	for _, c := range cases {
		l := Listing{Status: c.from}
		if got := l.CanSetStatus(c.to); got != c.allowed {
			t.Errorf("CanSetStatus(%q -> %q) = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestImageURLs(t *testing.T) {
	l := Listing{Images: []byte(`["https://res.cloudinary.com/demo/a.jpg","https://res.cloudinary.com/demo/b.jpg"]`)}
	urls := l.ImageURLs()
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	if urls[0] != "https://res.cloudinary.com/demo/a.jpg" {
		t.Errorf("first url should be the cover image, got %q", urls[0])
	}

	empty := Listing{}
	if got := empty.ImageURLs(); len(got) != 0 {
		t.Errorf("expected no urls for empty images, got %v", got)
	}
}
