package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"

	"github.com/Anuraagsingh132/collegeconnect/models"
	"github.com/Anuraagsingh132/collegeconnect/storage"
	"github.com/Anuraagsingh132/collegeconnect/utils"
)

// isDuplicateEntry reports whether err is a unique-index violation,
// translated by gorm to ErrDuplicatedKey.
func isDuplicateEntry(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// AddToWishlist bookmarks a listing for the caller. At most one entry
// per (user, listing) pair: a check-then-insert backed by the table's
// unique index.
func AddToWishlist(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input struct {
		ListingID uint `json:"listingID" validate:"required"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	listingExists := storage.DB.Find(&listing, input.ListingID)
	if listingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if listingExists.RowsAffected == 0 || listing.Status == models.ListingStatusDeleted {
		utils.CreateNotFound(ctx)
		return
	}

	var existing models.WishlistEntry
	if err := storage.DB.Where("user_id = ? AND listing_id = ?", claims.ID, input.ListingID).
		First(&existing).Error; err == nil {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"error": "Listing already in wishlist"})
		return
	}

	entry := models.WishlistEntry{
		UserID:    claims.ID,
		ListingID: input.ListingID,
	}
	if err := storage.DB.Create(&entry).Error; err != nil {
		// A concurrent add can slip past the pre-check; the unique
		// index catches it and it is still a duplicate, not a failure.
		if isDuplicateEntry(err) {
			ctx.StatusCode(iris.StatusConflict)
			ctx.JSON(iris.Map{"error": "Listing already in wishlist"})
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "entry": entry})
}

// RemoveFromWishlist drops the caller's bookmark for a listing.
func RemoveFromWishlist(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	listingID := ctx.Params().Get("listingID")

	result := storage.DB.Where("user_id = ? AND listing_id = ?", claims.ID, listingID).
		Delete(&models.WishlistEntry{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// GetWishlist returns the caller's bookmarked listing IDs.
func GetWishlist(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var entries []models.WishlistEntry
	if err := storage.DB.Where("user_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	listingIDs := make([]uint, 0, len(entries))
	for _, entry := range entries {
		listingIDs = append(listingIDs, entry.ListingID)
	}

	ctx.JSON(iris.Map{"listingIDs": listingIDs})
}

// GetWishlistItems returns the full listings behind the caller's
// bookmarks, most recently saved first. Deleted listings are filtered
// out rather than surfacing dead bookmarks.
func GetWishlistItems(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var entries []models.WishlistEntry
	if err := storage.DB.Where("user_id = ?", claims.ID).
		Preload("Listing").
		Preload("Listing.Seller").
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	listings := make([]models.Listing, 0, len(entries))
	for _, entry := range entries {
		if entry.Listing.Status != models.ListingStatusDeleted {
			listings = append(listings, entry.Listing)
		}
	}

	ctx.JSON(iris.Map{"listings": listings})
}
