package property

import (
	"context"
	"fmt"
	"time"

	"wildhaven/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// photoFolder is the storage folder for listing photos, one subfolder per
// property.
const photoFolder = "listings"

func (s *DefaultPropertyService) GetProperty(id string) (*models.Property, error) {
	return s.Repo.GetByID(id)
}

// GetPropertyWithPhotos resolves the stored photo IDs into delivery URLs.
func (s *DefaultPropertyService) GetPropertyWithPhotos(ctx context.Context, id string) (*PropertyView, error) {
	property, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	view := &PropertyView{Property: *property}
	for _, publicID := range property.Photos {
		url, err := s.Storage.GetDownloadURL(ctx, publicID, "w_1200,c_fill")
		if err != nil {
			s.Logger.Warn("failed to resolve photo URL",
				zap.String("propertyID", id),
				zap.String("publicID", publicID),
				zap.Error(err))
			continue
		}
		view.PhotoURLs = append(view.PhotoURLs, url)
	}
	return view, nil
}

func (s *DefaultPropertyService) ListByOwner(ownerID string) ([]models.Property, error) {
	return s.Repo.GetByOwner(ownerID)
}

func (s *DefaultPropertyService) CreateProperty(property *models.Property) error {
	if property.Name == "" {
		return fmt.Errorf("property name is required")
	}
	if property.MaxOccupancy <= 0 {
		return fmt.Errorf("property max occupancy must be positive")
	}
	if property.Pricing.BasePricePerNight <= 0 {
		return fmt.Errorf("property base price must be positive")
	}
	if property.Pricing.MinStayNights <= 0 {
		property.Pricing.MinStayNights = 1
	}
	if property.Pricing.Currency == "" {
		property.Pricing.Currency = "GBP"
	}

	property.ID = uuid.New().String()
	property.Active = true
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt

	if err := s.Repo.Create(property); err != nil {
		return err
	}
	s.Logger.Info("property created",
		zap.String("propertyID", property.ID),
		zap.String("ownerID", property.OwnerID))
	return nil
}

// UpdateProperty replaces a listing's mutable fields. The caller must own
// the listing; ID and owner are never reassigned.
func (s *DefaultPropertyService) UpdateProperty(ownerID string, property *models.Property) error {
	existing, err := s.Repo.GetByID(property.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("property %s does not belong to owner %s", property.ID, ownerID)
	}

	property.OwnerID = existing.OwnerID
	property.Photos = existing.Photos
	property.CreatedAt = existing.CreatedAt
	property.UpdatedAt = time.Now()
	return s.Repo.Update(property)
}

// UploadPhoto stores a photo and appends its public ID to the listing.
func (s *DefaultPropertyService) UploadPhoto(ctx context.Context, ownerID, propertyID, localFilePath string) (string, error) {
	existing, err := s.Repo.GetByID(propertyID)
	if err != nil {
		return "", err
	}
	if existing.OwnerID != ownerID {
		return "", fmt.Errorf("property %s does not belong to owner %s", propertyID, ownerID)
	}

	publicID, err := s.Storage.UploadFile(ctx, localFilePath, photoFolder+"/"+propertyID)
	if err != nil {
		return "", err
	}
	if err := s.Repo.AddPhoto(propertyID, publicID); err != nil {
		// The upload is orphaned if the record update fails; reclaim it.
		if delErr := s.Storage.DeleteFile(ctx, publicID); delErr != nil {
			s.Logger.Warn("failed to clean up orphaned photo",
				zap.String("publicID", publicID),
				zap.Error(delErr))
		}
		return "", err
	}
	return publicID, nil
}

func (s *DefaultPropertyService) DeleteProperty(ownerID, propertyID string) error {
	existing, err := s.Repo.GetByID(propertyID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("property %s does not belong to owner %s", propertyID, ownerID)
	}
	return s.Repo.Delete(propertyID)
}
