package blob

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an item image and returns the public reference for it.
type Uploader interface {
	UploadImage(ctx context.Context, file multipart.File, filename string) (string, error)
}

// File validation constants
var (
	AllowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	MaxImageSize = int64(10 * 1024 * 1024) // 10MB
)

// Cloudinary uploads item images to Cloudinary.
type Cloudinary struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, uploadFolder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if uploadFolder == "" {
		uploadFolder = "bidhaus"
	}

	return &Cloudinary{
		cld:          cld,
		uploadFolder: uploadFolder,
	}, nil
}

func (s *Cloudinary) UploadImage(ctx context.Context, file multipart.File, filename string) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder:       s.uploadFolder + "/items",
		ResourceType: "image",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return result.SecureURL, nil
}

// ValidateImageFile validates an image file upload
func ValidateImageFile(header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return fmt.Errorf("image file size exceeds maximum allowed size of %d MB", MaxImageSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid image file type: %s. Allowed types: %s", ext, strings.Join(AllowedImageTypes, ", "))
}

// UniqueFilename prefixes the original name with a timestamp and strips spaces
// so concurrent uploads of the same file never collide.
func UniqueFilename(original string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), strings.ReplaceAll(original, " ", "_"))
}
