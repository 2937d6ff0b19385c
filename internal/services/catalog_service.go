package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

// itemCollections are the catalog collections sharing the
// CatalogItem shape.
var itemCollections = map[string]bool{
	database.ColPlaces:      true,
	database.ColRestaurants: true,
	database.ColHospitals:   true,
	database.ColHotels:      true,
}

// CatalogService manages cities and the per-city catalog items the
// trip builder picks from.
type CatalogService struct {
	store  database.Store
	logger *logrus.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store database.Store, logger *logrus.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// ListCities fetches all cities.
func (s *CatalogService) ListCities(ctx context.Context) ([]*models.City, error) {
	records, err := s.store.List(ctx, database.ColCities)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.City](records)
}

// CreateCity stores a new city.
func (s *CatalogService) CreateCity(ctx context.Context, req *models.CityRequest) (*models.City, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	city := &models.City{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		ImgURL:      req.ImgURL,
		IsPopular:   req.IsPopular,
	}
	if err := s.store.Insert(ctx, database.ColCities, city.ID, city); err != nil {
		return nil, err
	}
	s.logger.WithField("city_id", city.ID).Info("City created")
	return city, nil
}

// UpdateCity applies a city update.
func (s *CatalogService) UpdateCity(ctx context.Context, id string, req *models.CityRequest) (*models.City, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	patch := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"imgUrl":      req.ImgURL,
		"isPopular":   req.IsPopular,
	}
	if err := s.store.Update(ctx, database.ColCities, id, patch); err != nil {
		return nil, err
	}
	record, err := s.store.Get(ctx, database.ColCities, id)
	if err != nil {
		return nil, err
	}
	var city models.City
	if err := record.Decode(&city); err != nil {
		return nil, &models.InvariantViolationError{Reason: "city record " + id + " is not decodable"}
	}
	return &city, nil
}

// DeleteCity removes a city.
func (s *CatalogService) DeleteCity(ctx context.Context, id string) error {
	return s.store.Delete(ctx, database.ColCities, id)
}

// ListItems fetches one item collection, optionally filtered by city.
func (s *CatalogService) ListItems(ctx context.Context, collection, cityID string) ([]*models.CatalogItem, error) {
	if !itemCollections[collection] {
		return nil, models.NewValidationError("collection", "unknown catalog collection")
	}
	var (
		records []database.Record
		err     error
	)
	if cityID != "" {
		records, err = s.store.QueryEq(ctx, collection, "cityId", cityID)
	} else {
		records, err = s.store.List(ctx, collection)
	}
	if err != nil {
		return nil, err
	}
	return decodeAll[models.CatalogItem](records)
}

// CreateItem stores a new catalog item.
func (s *CatalogService) CreateItem(ctx context.Context, collection string, req *models.CatalogItemRequest) (*models.CatalogItem, error) {
	if !itemCollections[collection] {
		return nil, models.NewValidationError("collection", "unknown catalog collection")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, database.ColCities, req.CityID); err != nil {
		return nil, err
	}

	item := &models.CatalogItem{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		ImgURL:      req.ImgURL,
		CityID:      req.CityID,
		IsPopular:   req.IsPopular,
	}
	if err := s.store.Insert(ctx, collection, item.ID, item); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"collection": collection,
		"item_id":    item.ID,
	}).Info("Catalog item created")
	return item, nil
}

// UpdateItem applies a catalog item update.
func (s *CatalogService) UpdateItem(ctx context.Context, collection, id string, req *models.CatalogItemRequest) (*models.CatalogItem, error) {
	if !itemCollections[collection] {
		return nil, models.NewValidationError("collection", "unknown catalog collection")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	patch := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"imgUrl":      req.ImgURL,
		"cityId":      req.CityID,
		"isPopular":   req.IsPopular,
	}
	if err := s.store.Update(ctx, collection, id, patch); err != nil {
		return nil, err
	}
	record, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var item models.CatalogItem
	if err := record.Decode(&item); err != nil {
		return nil, &models.InvariantViolationError{Reason: "catalog record " + id + " is not decodable"}
	}
	return &item, nil
}

// DeleteItem removes a catalog item.
func (s *CatalogService) DeleteItem(ctx context.Context, collection, id string) error {
	if !itemCollections[collection] {
		return models.NewValidationError("collection", "unknown catalog collection")
	}
	return s.store.Delete(ctx, collection, id)
}
