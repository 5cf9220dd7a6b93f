package propertyRepo

import "wildhaven/models"

// PropertyRepository defines data access for the listing catalogue.
type PropertyRepository interface {
	GetByID(id string) (*models.Property, error)
	GetByOwner(ownerID string) ([]models.Property, error)
	Create(property *models.Property) error
	Update(property *models.Property) error
	AddPhoto(id string, publicID string) error
	Delete(id string) error
}
