package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type ImageService struct {
	cld *cloudinary.Cloudinary
}

func NewImageService() (*ImageService, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &ImageService{cld: cld}, nil
}

// UploadAvatar uploads a profile avatar and returns its delivery URL. The
// public ID is derived from the profile so re-uploads replace the old image.
func (s *ImageService) UploadAvatar(ctx context.Context, file multipart.File, filename string, profileID string) (string, error) {
	allowedTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedTypes[ext] {
		return "", fmt.Errorf("invalid file type: %s. Allowed types: jpg, jpeg, png, gif, webp", ext)
	}

	overwrite := true
	uploadParams := uploader.UploadParams{
		PublicID:       fmt.Sprintf("avatars/profile_%s", profileID),
		Folder:         "kyndra/avatars",
		Overwrite:      &overwrite,
		ResourceType:   "image",
		Transformation: "c_fill,g_face,h_300,w_300/q_auto,f_auto",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return result.SecureURL, nil
}

// ValidateImageFile rejects oversized uploads before hitting the uploader
func (s *ImageService) ValidateImageFile(file multipart.File, maxSize int64) error {
	file.Seek(0, 0)

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if int64(len(data)) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(data), maxSize)
	}

	file.Seek(0, 0)
	return nil
}
