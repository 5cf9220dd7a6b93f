package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadFile uploads a listing photo into the given folder and returns its
// permanent public ID.
func (s *CloudinaryStorageService) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{
		Folder: destFolder,
	})
	if err != nil {
		return "", fmt.Errorf("CloudinaryStorageService: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("CloudinaryStorageService: no public ID returned")
	}
	return result.PublicID, nil
}

// DeleteFile removes a photo given its public ID.
func (s *CloudinaryStorageService) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("CloudinaryStorageService: failed to delete file: %w", err)
	}
	return nil
}

// GetDownloadURL constructs a delivery URL for a photo. transform, when
// non-empty, is a Cloudinary transformation segment ("w_800,c_fill").
func (s *CloudinaryStorageService) GetDownloadURL(_ context.Context, publicID string, transform string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("CloudinaryStorageService: failed to get asset: %w", err)
	}
	if transform != "" {
		img.Transformation = transform
	}
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("CloudinaryStorageService: failed to get URL string: %w", err)
	}
	return url, nil
}
