package routes

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/Anuraagsingh132/collegeconnect/models"
	"github.com/Anuraagsingh132/collegeconnect/storage"
	"github.com/Anuraagsingh132/collegeconnect/utils"
)

// AdminListListings - GET /admin/listings?status=&category=&seller_id=&q=&page=&per_page=
// Unlike the public catalog this sees every status, deleted included.
func AdminListListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))
	category := strings.TrimSpace(ctx.URLParamDefault("category", ""))
	sellerID := strings.TrimSpace(ctx.URLParamDefault("seller_id", ""))
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))

	query := storage.DB.Model(&models.Listing{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if sellerID != "" {
		query = query.Where("seller_id = ?", sellerID)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(title) LIKE ? OR lower(description) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var listings []models.Listing
	query = query.Preload("Seller").Order("created_at DESC, id ASC").
		Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&listings).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// AdminGetListing - GET /admin/listings/:id
func AdminGetListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var listing models.Listing
	if err := storage.DB.Preload("Seller").First(&listing, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	ctx.JSON(iris.Map{"data": listing})
}

// Moderation status change - PATCH /admin/listings/:id/status
func AdminUpdateListingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Status == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_status"})
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	if !listing.CanTransition(body.Status) {
		ctx.StopWithJSON(http.StatusConflict, iris.Map{
			"error":   "invalid_transition",
			"message": "cannot move listing from " + listing.Status + " to " + body.Status,
		})
		return
	}

	before := listing
	listing.Status = body.Status
	if err := storage.DB.Save(&listing).Error; err != nil {
		ctx.StopWithJSON(http.StatusInternalServerError, iris.Map{"error": "server_error"})
		return
	}

	utils.Audit(ctx, "listing.status_update", "listing", listing.ID, before, listing)

	ctx.JSON(iris.Map{"data": listing})
}

// ListUsers - GET /admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// Change role - PATCH /admin/users/:id/role
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil || (body.Role != "user" && body.Role != "admin") {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_role"})
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		ctx.StopWithJSON(http.StatusInternalServerError, iris.Map{"error": "server_error"})
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)

	ctx.JSON(iris.Map{"data": user})
}

// Dashboard counters - GET /admin/stats
func AdminStats(ctx iris.Context) {
	var userCount, messageCount int64
	storage.DB.Model(&models.User{}).Count(&userCount)
	storage.DB.Model(&models.Message{}).Count(&messageCount)

	listingsByStatus := iris.Map{}
	for _, status := range []string{
		models.ListingStatusDraft,
		models.ListingStatusActive,
		models.ListingStatusSold,
		models.ListingStatusDeleted,
	} {
		var n int64
		storage.DB.Model(&models.Listing{}).Where("status = ?", status).Count(&n)
		listingsByStatus[status] = n
	}

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"users":    userCount,
			"messages": messageCount,
			"listings": listingsByStatus,
		},
	})
}

// Audit trail - GET /admin/activity?page=&per_page=
func AdminActivity(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var entries []models.AuditLog
	query := storage.DB.Model(&models.AuditLog{}).Order("created_at DESC, id DESC")

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&entries).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, entries, page, perPage, total)
}
