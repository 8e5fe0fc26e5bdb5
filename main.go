package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Anuraagsingh132/collegeconnect/routes"
	"github.com/Anuraagsingh132/collegeconnect/storage"
	"github.com/Anuraagsingh132/collegeconnect/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeS3()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint - CRITICAL for Render
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/logout", routes.Logout)
		user.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
		user.Get("/profile", accessTokenVerifierMiddleware, routes.MyProfile)
		user.Put("/profile", accessTokenVerifierMiddleware, routes.UpdateUserProfile)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateUserProfile)
		user.Get("/{id}/profile", routes.GetUserProfile)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
	}

	listing := app.Party("/api/listing")
	{
		listing.Post("/", accessTokenVerifierMiddleware, routes.CreateListing)
		listing.Get("/mine", accessTokenVerifierMiddleware, routes.GetMyListings)
		listing.Get("/{id}", routes.GetListing)
		listing.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listing.Patch("/{id}/status", accessTokenVerifierMiddleware, routes.TransitionListingStatus)
		listing.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteListing)
	}

	listings := app.Party("/api/listings")
	{
		listings.Get("/search", routes.SearchListings)
	}

	messages := app.Party("/api/messages")
	{
		messages.Post("/", accessTokenVerifierMiddleware, routes.CreateMessage)
		messages.Get("/", accessTokenVerifierMiddleware, routes.GetMessageThread)
		messages.Post("/read", accessTokenVerifierMiddleware, routes.MarkMessagesRead)
	}

	conversation := app.Party("/api/conversation")
	{
		conversation.Get("/user", accessTokenVerifierMiddleware, routes.GetConversationsByUser)
	}

	wishlist := app.Party("/api/wishlist")
	{
		wishlist.Post("/", accessTokenVerifierMiddleware, routes.AddToWishlist)
		wishlist.Get("/", accessTokenVerifierMiddleware, routes.GetWishlist)
		wishlist.Get("/items", accessTokenVerifierMiddleware, routes.GetWishlistItems)
		wishlist.Delete("/{listingID}", accessTokenVerifierMiddleware, routes.RemoveFromWishlist)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Get("/listings", routes.AdminListListings)
		admin.Get("/listings/{id:uint}", routes.AdminGetListing)
		admin.Patch("/listings/{id:uint}/status", routes.AdminUpdateListingStatus)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	// Start server
	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
