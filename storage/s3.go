package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional prefix).
//
// Two logical scopes are used: "listings" for listing images and
// "avatars" for profile pictures; the scope is part of the publicID
// passed by the caller.

var ErrStorageUnavailable = errors.New("image storage unavailable")

// allowedImageFormats is the allow-listed set of encodings for uploads.
var allowedImageFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// InitializeS3 verifies image storage credentials at startup. Uploads
// are stateless signed HTTP calls, so there is no client to hold on to.
func InitializeS3() {
	if os.Getenv("CLOUDINARY_CLOUD_NAME") == "" ||
		os.Getenv("CLOUDINARY_API_KEY") == "" ||
		os.Getenv("CLOUDINARY_API_SECRET") == "" {
		log.Println("Cloudinary credentials not set; image uploads will fail until configured")
		return
	}
	log.Println("Image storage initialized for cloud:", os.Getenv("CLOUDINARY_CLOUD_NAME"))
}

// ValidBase64Image reports whether the data URI prefix (if any) names an
// allow-listed image encoding. Raw base64 with no prefix is accepted and
// uploaded as jpeg.
func ValidBase64Image(base64ImageSrc string) bool {
	if !strings.HasPrefix(base64ImageSrc, "data:image/") {
		return !strings.HasPrefix(base64ImageSrc, "data:")
	}
	rest := strings.TrimPrefix(base64ImageSrc, "data:image/")
	i := strings.Index(rest, ";")
	if i == -1 {
		return false
	}
	return allowedImageFormats[strings.ToLower(rest[:i])]
}

// UploadBase64Image pushes one base64 image payload to Cloudinary under
// publicID and returns the resulting secure URL.
func UploadBase64Image(base64ImageSrc string, publicID string) (string, error) {
	if base64ImageSrc == "" {
		return "", errors.New("empty image payload")
	}
	if !ValidBase64Image(base64ImageSrc) {
		return "", errors.New("unsupported image format")
	}

	i := strings.Index(base64ImageSrc, ",")
	payload := base64ImageSrc
	if i != -1 {
		payload = base64ImageSrc[i+1:]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", ErrStorageUnavailable
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)

	// Signed upload: Cloudinary requires SHA1 over the sorted params
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", ErrStorageUnavailable
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != 200 {
		return "", fmt.Errorf("cloudinary upload failed with status %d: %s", res.StatusCode, string(body))
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", err
	}
	if cloudRes.Error.Message != "" {
		return "", errors.New("cloudinary error: " + cloudRes.Error.Message)
	}

	uploadedURL := cloudRes.SecureURL
	if uploadedURL == "" {
		uploadedURL = cloudRes.URL
	}
	if uploadedURL == "" {
		return "", errors.New("no URL returned from cloudinary")
	}
	return uploadedURL, nil
}

// DeleteImage removes an uploaded image given its Cloudinary URL.
// Best effort: callers treat a false return as a logged warning, not a
// failure of the surrounding operation.
func DeleteImage(imageURL string) bool {
	// URL format: https://res.cloudinary.com/{cloud}/image/upload/v{n}/{public_id}.{ext}
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return false
	}

	parts := strings.Split(imageURL, "/")
	if len(parts) < 2 {
		return false
	}
	lastPart := parts[len(parts)-1]
	publicID := strings.Split(lastPart, ".")[0]

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return false
	}

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)

	form := url.Values{}
	form.Add("public_id", finalPublicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/destroy"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil || res.StatusCode != 200 {
		return false
	}

	var deleteRes struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &deleteRes); err != nil {
		return false
	}
	return deleteRes.Error.Message == "" && deleteRes.Result == "ok"
}
