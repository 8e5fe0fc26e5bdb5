package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Anuraagsingh132/collegeconnect/utils"
)

func TestValidPrice(t *testing.T) {
	cases := []struct {
		price float64
		ok    bool
	}{
		{0, true},
		{0.01, true},
		{10, true},
		{49.99, true},
		{1000000, true},
		{10.999, false},
		{0.001, false},
	}

	for _, c := range cases {
		if got := validPrice(c.price); got != c.ok {
			t.Errorf("validPrice(%v) = %v, want %v", c.price, got, c.ok)
		}
	}
}

func buildListingTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	listing := app.Party("/api/listing")
	{
		listing.Post("/", accessTokenVerifierMiddleware, CreateListing)
	}
	listings := app.Party("/api/listings")
	{
		listings.Get("/search", SearchListings)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

// Invalid payloads must be rejected before any storage access.
func TestCreateListingValidation(t *testing.T) {
	app := buildListingTestApp()
	token := signTestToken("user")

	cases := []struct {
		name string
		body string
	}{
		{"title too short", `{"title":"abc","description":"a perfectly fine description","price":10,"category":"Books","condition":"good"}`},
		{"description too short", `{"title":"Calculus Textbook","description":"short","price":10,"category":"Books","condition":"good"}`},
		{"negative price", `{"title":"Calculus Textbook","description":"a perfectly fine description","price":-5,"category":"Books","condition":"good"}`},
		{"unknown category", `{"title":"Calculus Textbook","description":"a perfectly fine description","price":10,"category":"Vehicles","condition":"good"}`},
		{"unknown condition", `{"title":"Calculus Textbook","description":"a perfectly fine description","price":10,"category":"Books","condition":"mint"}`},
		{"too many images", `{"title":"Calculus Textbook","description":"a perfectly fine description","price":10,"category":"Books","condition":"good","images":["a","b","c","d","e","f","g","h","i"]}`},
		{"fractional cents", `{"title":"Calculus Textbook","description":"a perfectly fine description","price":10.999,"category":"Books","condition":"good"}`},
		{"padded title below minimum", `{"title":"  ab  ","description":"a perfectly fine description","price":10,"category":"Books","condition":"good"}`},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/listing", strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", c.name, resp.Code)
		}
	}
}

// Soft-deleted listings are hidden from the public search surface;
// asking for them is rejected before any storage access.
func TestSearchListingsRejectsHiddenStatus(t *testing.T) {
	app := buildListingTestApp()

	cases := []string{
		"/api/listings/search?status=deleted",
		"/api/listings/search?status=archived",
	}
	for _, path := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.Code)
		}
	}
}

func TestCreateListingRequiresAuth(t *testing.T) {
	app := buildListingTestApp()

	body := `{"title":"Calculus Textbook","description":"a perfectly fine description","price":10,"category":"Books","condition":"good"}`
	req := httptest.NewRequest(http.MethodPost, "/api/listing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected rejection without token, got %d", resp.Code)
	}
}
