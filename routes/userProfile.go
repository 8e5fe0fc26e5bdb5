package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Anuraagsingh132/collegeconnect/models"
	"github.com/Anuraagsingh132/collegeconnect/storage"
	"github.com/Anuraagsingh132/collegeconnect/utils"
)

// GetUserProfile returns the public profile for a user, creating an
// empty one on first access so callers never see a missing row.
func GetUserProfile(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var user models.User
	userQuery := storage.DB.Find(&user, id)
	if userQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userQuery.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var profile models.UserProfile
	profileQuery := storage.DB.Where("user_id = ?", user.ID).Limit(1).Find(&profile)
	if profileQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if profileQuery.RowsAffected == 0 {
		profile = models.UserProfile{
			UserID:      user.ID,
			DisplayName: user.Name,
		}
		if err := storage.DB.Create(&profile).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(profile)
}

// MyProfile returns the authenticated user's own profile.
func MyProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)
	ctx.Params().Set("id", fmt.Sprint(claims.ID))
	GetUserProfile(ctx)
}

func UpdateUserProfile(ctx iris.Context) {
	claims := jsonWT.Get(ctx).(*utils.AccessToken)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var profile models.UserProfile
	profileQuery := storage.DB.Where("user_id = ?", claims.ID).Limit(1).Find(&profile)
	if profileQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if profileQuery.RowsAffected == 0 {
		profile = models.UserProfile{UserID: claims.ID}
	}

	if input.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.College != nil {
		profile.College = *input.College
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}

	if input.Avatar != nil {
		avatar := *input.Avatar
		switch {
		case avatar == "":
			profile.AvatarURL = ""
		case strings.HasPrefix(avatar, "https://res.cloudinary.com/"):
			// Already hosted, keep the URL as-is.
			profile.AvatarURL = avatar
		default:
			if !storage.ValidBase64Image(avatar) {
				utils.CreateError(iris.StatusBadRequest, "Image Error",
					"Avatar must be a jpg, jpeg, png or webp image.", ctx)
				return
			}
			publicID := fmt.Sprintf("avatars/%d/avatar_%d", claims.ID, time.Now().Unix())
			url, uploadErr := storage.UploadBase64Image(avatar, publicID)
			if uploadErr != nil {
				utils.CreateError(iris.StatusInternalServerError, "Storage Error",
					"Unable to store the avatar image.", ctx)
				return
			}
			profile.AvatarURL = url
		}
	}

	if err := storage.DB.Save(&profile).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(profile)
}

type UpdateProfileInput struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	College     *string `json:"college" validate:"omitempty,max=200"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Avatar      *string `json:"avatar"`
}
