package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

const maxUploadSize = 10 << 20 // 10 MB

// User exported for testing purposes
type User struct {
	DB     databases.UserDatabase
	Config config.Config
}

// UserHandler returns the authenticated user's profile
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			config.ErrorStatus("User not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateUserHandler updates the authenticated user's profile. Name and email
// are required, image is optional.
func (u User) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}

	uID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" || req.Email == "" {
		config.ErrorStatus("Name and email are required", http.StatusBadRequest, w, fmt.Errorf("missing name or email"))
		return
	}

	update := bson.M{
		"name":      req.Name,
		"email":     req.Email,
		"updatedAt": time.Now(),
	}
	if req.Image != "" {
		update["image"] = req.Image
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": update}); err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}

	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UploadImageHandler stores a profile image for the user named in the path.
// The authenticated id must match the path id.
func (u User) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}
	if principal.ID != userID {
		config.ErrorStatus("Forbidden: you can only update your own profile", http.StatusForbidden, w, fmt.Errorf("principal %s does not match path id %s", principal.ID, userID))
		return
	}

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		config.ErrorStatus("No file uploaded", http.StatusBadRequest, w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("No file uploaded", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	fileName := uuid.New().String() + filepath.Ext(header.Filename)

	imagePath, err := u.storeImage(r, file, fileName)
	if err != nil {
		config.ErrorStatus("Failed to upload image", http.StatusInternalServerError, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": bson.M{"image": imagePath, "updatedAt": time.Now()}}); err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}

	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.UploadImageResponse{
		Message: "Image uploaded successfully",
		Image:   imagePath,
		User:    *user,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// storeImage writes the upload to cloudinary when configured, otherwise to
// the local upload dir, and returns the path persisted on the user record
func (u User) storeImage(r *http.Request, file io.Reader, fileName string) (string, error) {
	if u.Config.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(u.Config.CloudinaryURL)
		if err != nil {
			return "", err
		}
		res, err := cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
			PublicID: fileName,
			Folder:   "lawbuddy",
		})
		if err != nil {
			return "", err
		}
		return res.SecureURL, nil
	}

	if err := os.MkdirAll(u.Config.UploadDir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(u.Config.UploadDir, fileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return "/uploads/" + fileName, nil
}
