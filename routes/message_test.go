package routes

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Anuraagsingh132/collegeconnect/models"
)

func msgAt(id, sender, receiver, listing uint, body string, at time.Time, read bool) models.Message {
	m := models.Message{
		Model:      gorm.Model{ID: id, CreatedAt: at},
		SenderID:   sender,
		ReceiverID: receiver,
		ListingID:  listing,
		Body:       body,
	}
	if read {
		readAt := at.Add(time.Minute)
		m.ReadAt = &readAt
	}
	return m
}

func TestGroupConversationsEmpty(t *testing.T) {
	got := GroupConversations(nil, 1)
	if len(got) != 0 {
		t.Fatalf("expected no conversations, got %d", len(got))
	}
}

// The same counterpart on two different listings is two conversations.
func TestGroupConversationsKeyedByListing(t *testing.T) {
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msgAt(1, 2, 1, 10, "is the textbook available?", base, false),
		msgAt(2, 2, 1, 11, "what about the lamp?", base.Add(time.Hour), false),
	}

	got := GroupConversations(messages, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(got))
	}
	for _, c := range got {
		if c.CounterpartID != 2 {
			t.Errorf("counterpart should be user 2, got %d", c.CounterpartID)
		}
	}
}

func TestGroupConversationsLatestFirst(t *testing.T) {
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msgAt(1, 1, 2, 10, "hi", base, true),
		msgAt(2, 2, 1, 10, "hello, still available", base.Add(2*time.Hour), false),
		msgAt(3, 3, 1, 11, "offer for the fridge", base.Add(time.Hour), false),
	}

	got := GroupConversations(messages, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(got))
	}

	if got[0].ListingID != 10 {
		t.Fatalf("most recently active conversation should come first, got listing %d", got[0].ListingID)
	}
	if got[0].LastMessage != "hello, still available" {
		t.Errorf("last message should be the newest in the thread, got %q", got[0].LastMessage)
	}
	if got[0].UnreadCount != 1 {
		t.Errorf("expected 1 unread message, got %d", got[0].UnreadCount)
	}
	if got[1].ListingID != 11 {
		t.Errorf("older conversation should come second, got listing %d", got[1].ListingID)
	}
}

// Messages the user sent never count toward their own unread total.
func TestGroupConversationsUnreadOnlyReceived(t *testing.T) {
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msgAt(1, 1, 2, 10, "still interested?", base, false),
		msgAt(2, 1, 2, 10, "ping", base.Add(time.Minute), false),
		msgAt(3, 2, 1, 10, "yes!", base.Add(2*time.Minute), false),
	}

	got := GroupConversations(messages, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}
	if got[0].UnreadCount != 1 {
		t.Errorf("expected unread count 1 for received messages only, got %d", got[0].UnreadCount)
	}
}

func TestGroupConversationsIdempotent(t *testing.T) {
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msgAt(1, 2, 1, 10, "a", base, false),
		msgAt(2, 3, 1, 11, "b", base.Add(time.Hour), false),
		msgAt(3, 2, 1, 10, "c", base.Add(2*time.Hour), false),
	}

	first := GroupConversations(messages, 1)
	second := GroupConversations(messages, 1)

	if len(first) != len(second) {
		t.Fatalf("expected stable grouping, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ListingID != second[i].ListingID || first[i].CounterpartID != second[i].CounterpartID {
			t.Errorf("ordering changed between runs at index %d", i)
		}
	}
}
