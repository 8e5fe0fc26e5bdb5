package routes

import (
	"sort"
	"time"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Anuraagsingh132/collegeconnect/models"
	"github.com/Anuraagsingh132/collegeconnect/storage"
	"github.com/Anuraagsingh132/collegeconnect/utils"
)

// CreateMessage appends one message about a listing. The sender is
// always the authenticated user; self-messaging is rejected and the
// listing reference is checked at the application level.
func CreateMessage(ctx iris.Context) {
	var input CreateMessageInput

	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	if input.ReceiverID == claims.ID {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Sender and receiver must be distinct.", ctx)
		return
	}

	var listing models.Listing
	listingExists := storage.DB.Find(&listing, input.ListingID)
	if listingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if listingExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	message := models.Message{
		SenderID:   claims.ID,
		ReceiverID: input.ReceiverID,
		ListingID:  input.ListingID,
		Body:       input.Body,
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// GetMessageThread returns one conversation's messages in chronological
// order: everything about the given listing between the caller and the
// given counterpart.
func GetMessageThread(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	listingID, err := ctx.URLParamInt("listingID")
	if err != nil || listingID <= 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "listingID is required.", ctx)
		return
	}
	otherUserID, err := ctx.URLParamInt("userID")
	if err != nil || otherUserID <= 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "userID is required.", ctx)
		return
	}

	var messages []models.Message
	if err := storage.DB.
		Where("listing_id = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			listingID, claims.ID, otherUserID, otherUserID, claims.ID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"messages": messages})
}

// ConversationSummary is the derived conversation view: one entry per
// (listing, counterpart) pair. Conversations are not stored; they are
// reconstructed from the message table on every call.
type ConversationSummary struct {
	ListingID       uint      `json:"listingID"`
	ListingTitle    string    `json:"listingTitle"`
	CounterpartID   uint      `json:"counterpartID"`
	CounterpartName string    `json:"counterpartName"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageAt   time.Time `json:"lastMessageAt"`
	UnreadCount     int       `json:"unreadCount"`
}

// GetConversationsByUser lists the caller's conversations ordered by
// most recent message.
func GetConversationsByUser(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var messages []models.Message
	if err := storage.DB.
		Where("sender_id = ? OR receiver_id = ?", claims.ID, claims.ID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	conversations := GroupConversations(messages, claims.ID)
	resolveConversationNames(conversations)

	ctx.JSON(iris.Map{"conversations": conversations})
}

// GroupConversations folds a user's messages into conversation
// summaries keyed by (listing, counterpart). Re-grouping the same
// messages always yields the same set in the same order.
func GroupConversations(messages []models.Message, userID uint) []ConversationSummary {
	type key struct {
		listingID     uint
		counterpartID uint
	}

	grouped := map[key]*ConversationSummary{}
	for _, m := range messages {
		counterpart := m.SenderID
		if counterpart == userID {
			counterpart = m.ReceiverID
		}
		k := key{listingID: m.ListingID, counterpartID: counterpart}

		summary, ok := grouped[k]
		if !ok {
			summary = &ConversationSummary{
				ListingID:     m.ListingID,
				CounterpartID: counterpart,
			}
			grouped[k] = summary
		}
		if !m.CreatedAt.Before(summary.LastMessageAt) {
			summary.LastMessage = m.Body
			summary.LastMessageAt = m.CreatedAt
		}
		if m.ReceiverID == userID && m.ReadAt == nil {
			summary.UnreadCount++
		}
	}

	conversations := make([]ConversationSummary, 0, len(grouped))
	for _, summary := range grouped {
		conversations = append(conversations, *summary)
	}

	// Latest first; deterministic tie-break so repeated calls agree.
	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastMessageAt.Equal(b.LastMessageAt) {
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		if a.ListingID != b.ListingID {
			return a.ListingID < b.ListingID
		}
		return a.CounterpartID < b.CounterpartID
	})

	return conversations
}

// resolveConversationNames fills in listing titles and counterpart
// display names with two batched lookups.
func resolveConversationNames(conversations []ConversationSummary) {
	if len(conversations) == 0 {
		return
	}

	listingIDs := make([]uint, 0, len(conversations))
	userIDs := make([]uint, 0, len(conversations))
	for _, c := range conversations {
		listingIDs = append(listingIDs, c.ListingID)
		userIDs = append(userIDs, c.CounterpartID)
	}

	var listings []models.Listing
	storage.DB.Where("id IN ?", listingIDs).Find(&listings)
	titles := map[uint]string{}
	for _, l := range listings {
		titles[l.ID] = l.Title
	}

	var profiles []models.UserProfile
	storage.DB.Where("user_id IN ?", userIDs).Find(&profiles)
	names := map[uint]string{}
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}

	for i := range conversations {
		conversations[i].ListingTitle = titles[conversations[i].ListingID]
		conversations[i].CounterpartName = names[conversations[i].CounterpartID]
	}
}

// MarkMessagesRead sets the read marker on messages the caller
// received. The marker is owned by the receiver; senders cannot touch it.
func MarkMessagesRead(ctx iris.Context) {
	var input MarkMessagesReadInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	now := time.Now()

	if err := storage.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND id IN ? AND read_at IS NULL", claims.ID, input.MessageIDs).
		Update("read_at", now).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}

type CreateMessageInput struct {
	ListingID  uint   `json:"listingID" validate:"required"`
	ReceiverID uint   `json:"receiverID" validate:"required"`
	Body       string `json:"body" validate:"required,max=2000"`
}

type MarkMessagesReadInput struct {
	MessageIDs []uint `json:"messageIDs" validate:"required,min=1"`
}
