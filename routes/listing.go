package routes

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"

	"github.com/Anuraagsingh132/collegeconnect/models"
	"github.com/Anuraagsingh132/collegeconnect/services"
	"github.com/Anuraagsingh132/collegeconnect/storage"
	"github.com/Anuraagsingh132/collegeconnect/utils"
)

// CreateListing creates a listing owned by the authenticated user.
// Images are uploaded in submission order before the record is written;
// a payload that fails to upload is skipped rather than aborting the
// whole operation, and already-uploaded objects are not rolled back if
// the record write fails.
func CreateListing(ctx iris.Context) {
	var input CreateListingInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !validPrice(input.Price) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Price must have at most two decimal places.", ctx)
		return
	}

	// Length bounds apply to the trimmed title, not the raw payload.
	title := strings.TrimSpace(input.Title)
	if len(title) < 5 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Title must be at least 5 characters after trimming whitespace.", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	imagesArr := uploadListingImages(input.Images, claims.ID)
	imagesJSON, _ := json.Marshal(imagesArr)

	listing := models.Listing{
		SellerID:    claims.ID,
		Title:       title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Condition:   input.Condition,
		Status:      models.ListingStatusActive,
		Images:      datatypes.JSON(imagesJSON),
	}

	if result := storage.DB.Create(&listing); result.Error != nil {
		fmt.Printf("CreateListing - failed to persist listing for user %d: %v\n", claims.ID, result.Error)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(listing)
}

// uploadListingImages pushes each base64 payload to the listings scope.
// The publicID carries the slice index so stored order always equals
// submission order. Failed uploads are skipped, not retried.
func uploadListingImages(images []string, sellerID uint) []string {
	urls := []string{}
	timestamp := time.Now().UnixNano() / int64(time.Millisecond)
	for i, image := range images {
		if image == "" {
			continue
		}
		if strings.Contains(image, "res.cloudinary.com") {
			urls = append(urls, image)
			continue
		}
		publicID := fmt.Sprintf("listings/%d/%d_%d", sellerID, timestamp, i)
		uploadedURL, err := storage.UploadBase64Image(image, publicID)
		if err != nil {
			fmt.Printf("uploadListingImages - skipping image %d: %v\n", i, err)
			continue
		}
		urls = append(urls, uploadedURL)
	}
	return urls
}

func GetListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	listing := getListingByID(id, ctx)
	if listing == nil {
		return
	}

	ctx.JSON(listing)
}

// GetMyListings returns the caller's inventory across statuses. Deleted
// listings are hidden unless explicitly requested.
func GetMyListings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	q := storage.DB.Where("seller_id = ?", claims.ID)
	if !ctx.URLParamBoolDefault("include_deleted", false) {
		q = q.Where("status != ?", models.ListingStatusDeleted)
	}

	var listings []models.Listing
	if err := q.Order("created_at DESC, id ASC").Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listings)
}

// SearchListings is the public catalog query surface.
func SearchListings(ctx iris.Context) {
	filter := services.ListingFilter{
		Status:     ctx.URLParamDefault("status", ""),
		Category:   ctx.URLParamDefault("category", ""),
		SearchText: ctx.URLParamDefault("q", ""),
		SortKey:    ctx.URLParamDefault("sort", "created_at"),
		SortDir:    ctx.URLParamDefault("direction", "desc"),
	}

	if filter.Status != "" && !validListingStatus(filter.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown listing status.", ctx)
		return
	}
	// Soft-deleted listings are hidden from every public surface.
	if filter.Status == models.ListingStatusDeleted {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Deleted listings are not searchable.", ctx)
		return
	}

	listings, err := services.QueryListings(storage.DB, filter)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listings)
}

// UpdateListing applies a partial edit. Only the seller may mutate a
// listing; images and seller are never altered here. A status change
// supplied through update still goes through the transition rules.
func UpdateListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	listing := getListingByID(id, ctx)
	if listing == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.SellerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Price != nil && !validPrice(*input.Price) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Price must have at most two decimal places.", ctx)
		return
	}
	// Resubmitting the current status is a no-op, not a transition.
	if input.Status != nil && !listing.CanSetStatus(*input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Invalid Transition",
			fmt.Sprintf("Cannot move listing from %s to %s.", listing.Status, *input.Status), ctx)
		return
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if len(title) < 5 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Title must be at least 5 characters after trimming whitespace.", ctx)
			return
		}
		listing.Title = title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.Condition != nil {
		listing.Condition = *input.Condition
	}
	if input.Status != nil {
		listing.Status = *input.Status
	}

	if err := storage.DB.Save(listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listing)
}

// TransitionListingStatus moves a listing through the status state
// machine: draft->active, active<->sold, active/sold->deleted. Nothing
// leaves deleted. Sellers may transition their own listings; admins may
// transition any (moderation).
func TransitionListingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")

	listing := getListingByID(id, ctx)
	if listing == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.SellerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input TransitionStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !listing.CanTransition(input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Invalid Transition",
			fmt.Sprintf("Cannot move listing from %s to %s.", listing.Status, input.Status), ctx)
		return
	}

	listing.Status = input.Status
	if err := storage.DB.Save(listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listing)
}

// DeleteListing soft-deletes: the record keeps its row with
// status=deleted and the stored objects are removed best-effort. A
// failed object delete is logged, never fatal.
func DeleteListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	listing := getListingByID(id, ctx)
	if listing == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.SellerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	listing.Status = models.ListingStatusDeleted
	if err := storage.DB.Save(listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	for _, imageURL := range listing.ImageURLs() {
		if !storage.DeleteImage(imageURL) {
			fmt.Printf("DeleteListing - failed to delete image for listing %d: %s\n", listing.ID, imageURL)
		}
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// getListingByID loads a listing with its seller; deleted listings are
// reported as not found. Writes the error response and returns nil on
// failure.
func getListingByID(id string, ctx iris.Context) *models.Listing {
	var listing models.Listing
	listingExists := storage.DB.Preload("Seller").Find(&listing, id)

	if listingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if listingExists.RowsAffected == 0 || listing.Status == models.ListingStatusDeleted {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &listing
}

func validListingStatus(status string) bool {
	switch status {
	case models.ListingStatusDraft, models.ListingStatusActive,
		models.ListingStatusSold, models.ListingStatusDeleted:
		return true
	}
	return false
}

// validPrice accepts non-negative amounts with at most two decimal places.
func validPrice(price float64) bool {
	cents := price * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

type CreateListingInput struct {
	Title       string   `json:"title" validate:"required,min=5,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Price       float64  `json:"price" validate:"gte=0,lte=1000000"`
	Category    string   `json:"category" validate:"required,oneof=Books Electronics Fashion Sports Furniture Food Other"`
	Condition   string   `json:"condition" validate:"required,oneof=new like_new good fair poor"`
	Images      []string `json:"images" validate:"max=8"`
}

type UpdateListingInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=5,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=10,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=1000000"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Books Electronics Fashion Sports Furniture Food Other"`
	Condition   *string  `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	Status      *string  `json:"status" validate:"omitempty,oneof=draft active sold deleted"`
}

type TransitionStatusInput struct {
	Status string `json:"status" validate:"required,oneof=draft active sold deleted"`
}
