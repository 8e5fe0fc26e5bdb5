package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Anuraagsingh132/collegeconnect/utils"
)

// Owner-scoped routes reject callers whose token ID differs from the
// path ID before the handler runs.
func TestUserIDMiddlewareOwnership(t *testing.T) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	user := app.Party("/api/user")
	{
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, func(ctx iris.Context) {
			ctx.JSON(iris.Map{"ok": true})
		})
	}
	if err := app.Build(); err != nil {
		panic(err)
	}

	token := signTestToken("user") // token carries ID 1

	// Someone else's profile -> 403
	req := httptest.NewRequest(http.MethodPatch, "/api/user/2/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mismatched user id, got %d", resp.Code)
	}

	// Own profile -> reaches the handler
	req2 := httptest.NewRequest(http.MethodPatch, "/api/user/1/profile", nil)
	req2.Header.Set("Authorization", "Bearer "+token)
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for own profile, got %d", resp2.Code)
	}
}
