package models

import "strings"

// City is a destination grouping for catalog items and trips.
type City struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImgURL      string `json:"imgUrl,omitempty"`
	IsPopular   bool   `json:"isPopular,omitempty"`
}

// CatalogItem is a place, restaurant, hospital or hotel attached to a
// city. All four collections share this shape.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImgURL      string `json:"imgUrl,omitempty"`
	CityID      string `json:"cityId"`
	IsPopular   bool   `json:"isPopular,omitempty"`
}

// CatalogItemRequest represents a create or update of a catalog item.
type CatalogItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImgURL      string `json:"imgUrl"`
	CityID      string `json:"cityId" binding:"required"`
	IsPopular   bool   `json:"isPopular"`
}

// Validate validates the catalog item request.
func (r *CatalogItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if r.CityID == "" {
		return NewValidationError("cityId", "is required")
	}
	return nil
}

// CityRequest represents a create or update of a city.
type CityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImgURL      string `json:"imgUrl"`
	IsPopular   bool   `json:"isPopular"`
}

// Validate validates the city request.
func (r *CityRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return NewValidationError("name", "is required")
	}
	return nil
}
