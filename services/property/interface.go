package property

import (
	"context"

	propertyRepo "wildhaven/database/repository/property"
	"wildhaven/models"
	"wildhaven/services/storage"

	"go.uber.org/zap"
)

// PropertyService manages the listing catalogue: the caravans guests start
// booking flows against, plus their photos.
type PropertyService interface {
	GetProperty(id string) (*models.Property, error)
	GetPropertyWithPhotos(ctx context.Context, id string) (*PropertyView, error)
	ListByOwner(ownerID string) ([]models.Property, error)
	CreateProperty(property *models.Property) error
	UpdateProperty(ownerID string, property *models.Property) error
	UploadPhoto(ctx context.Context, ownerID, propertyID, localFilePath string) (string, error)
	DeleteProperty(ownerID, propertyID string) error
}

// PropertyView is a property plus resolved photo delivery URLs.
type PropertyView struct {
	models.Property
	PhotoURLs []string `json:"photoUrls"`
}

// DefaultPropertyService is the production implementation.
type DefaultPropertyService struct {
	Repo    propertyRepo.PropertyRepository
	Storage storage.StorageService
	Logger  *zap.Logger
}
