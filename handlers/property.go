package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"wildhaven/models"
	"wildhaven/services/property"
	"wildhaven/utils"

	"github.com/gin-gonic/gin"
)

// PropertyService is wired in main before the router starts serving.
var PropertyService property.PropertyService

// Error codes for the non-flow surfaces.
const (
	codeInvalidInput = "INVALID_INPUT"
	codeNotFound     = "NOT_FOUND"
	codeInternal     = "INTERNAL"
)

// GetProperty returns a listing with resolved photo URLs. Public: guests
// browse listings before authenticating.
func GetProperty(c *gin.Context) {
	view, err := PropertyService.GetPropertyWithPhotos(c.Request.Context(), c.Param("propertyID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, codeNotFound, "property not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": view})
}

// ListMyProperties returns the authenticated owner's listings.
func ListMyProperties(c *gin.Context) {
	properties, err := PropertyService.ListByOwner(userID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, codeInternal, "failed to list properties", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// CreateProperty registers a new listing for the authenticated owner.
func CreateProperty(c *gin.Context) {
	var input models.Property
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, "invalid input", err.Error())
		return
	}
	input.OwnerID = userID(c)

	if err := PropertyService.CreateProperty(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, err.Error(), "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"property": input})
}

// UpdateProperty replaces a listing's mutable fields.
func UpdateProperty(c *gin.Context) {
	var input models.Property
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, "invalid input", err.Error())
		return
	}
	input.ID = c.Param("propertyID")

	if err := PropertyService.UpdateProperty(userID(c), &input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": input})
}

// UploadPropertyPhoto accepts a multipart photo, stores it and attaches it
// to the listing.
func UploadPropertyPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, "photo file is required", "")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s-%s", c.Param("propertyID"), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, codeInternal, "failed to store upload", err.Error())
		return
	}
	defer os.Remove(tmpPath)

	publicID, err := PropertyService.UploadPhoto(c.Request.Context(), userID(c), c.Param("propertyID"), tmpPath)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicId": publicID})
}

// DeleteProperty removes a listing.
func DeleteProperty(c *gin.Context) {
	if err := PropertyService.DeleteProperty(userID(c), c.Param("propertyID")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, codeInvalidInput, err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
