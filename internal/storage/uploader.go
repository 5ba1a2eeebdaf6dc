// Package storage stores agent document images in an S3-compatible bucket
// and hands back stable retrieval locators.
package storage

import (
	"context"
	"strings"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

// Category namespaces uploaded documents inside the bucket.
type Category string

const (
	// CategoryDisplayPicture holds agent profile photos.
	CategoryDisplayPicture Category = "display-pictures"
	// CategoryAadhaar holds identity document images.
	CategoryAadhaar Category = "aadhaar-images"
)

// MaxFileSize is the upload limit for document images.
const MaxFileSize = 5 * 1024 * 1024

// File is an in-memory document pending upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores document files under a per-identity namespace.
type Uploader interface {
	// Upload validates and stores file under category/identity and returns a
	// stable retrieval URL. Files are stored as-submitted: no transcoding.
	Upload(ctx context.Context, identityToken string, category Category, file *File) (string, error)
}

// ValidateFile rejects non-image or oversized files before any network call.
func ValidateFile(file *File) error {
	if file == nil || len(file.Data) == 0 {
		return apperror.New(apperror.KindUpload, "no file was provided")
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return apperror.New(apperror.KindUpload, "please upload an image file")
	}
	if len(file.Data) > MaxFileSize {
		return apperror.New(apperror.KindUpload, "image should be less than 5MB")
	}
	return nil
}
