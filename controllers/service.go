// controllers/service.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"detailstudio-backend/cache"
	"detailstudio-backend/config"
	"detailstudio-backend/models"
	"detailstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogPrefix = "catalog:"

// CatalogController serves services and categories. Public reads go through
// Cache; every admin write drops the whole catalog.
type CatalogController struct {
	Cache cache.Store
	TTL   time.Duration
}

type CreateServiceInput struct {
	Name            string     `json:"name" binding:"required"`
	Description     *string    `json:"description"`
	Price           float64    `json:"price" binding:"required,gt=0"`
	DurationMinutes int        `json:"durationMinutes" binding:"required,gt=0"`
	CategoryID      *uuid.UUID `json:"categoryId"`
	ImageURL        *string    `json:"imageUrl"`
}

type UpdateServiceInput struct {
	Name            *string    `json:"name" binding:"omitempty,min=1"`
	Description     *string    `json:"description"`
	Price           *float64   `json:"price" binding:"omitempty,gt=0"`
	DurationMinutes *int       `json:"durationMinutes" binding:"omitempty,gt=0"`
	CategoryID      *uuid.UUID `json:"categoryId"`
	ImageURL        *string    `json:"imageUrl"`
}

type CreateCategoryInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// GetServices lists services, newest first, optionally filtered by categoryId.
func (ctl *CatalogController) GetServices(c *gin.Context) {
	key := catalogPrefix + "services:all"
	query := config.DB.WithContext(c.Request.Context()).Preload("Category").Order("created_at DESC")
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		key = catalogPrefix + "services:category:" + categoryID.String()
		query = query.Where("category_id = ?", categoryID)
	}

	var services []models.Service
	if ctl.cached(c, key, &services) {
		c.JSON(http.StatusOK, services)
		return
	}
	if err := query.Find(&services).Error; err != nil {
		utils.RespondInternal(c, "Failed to retrieve services", err)
		return
	}
	ctl.store(c, key, services)
	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific service by ID
func (ctl *CatalogController) GetService(c *gin.Context) {
	id, ok := idParam(c, "service")
	if !ok {
		return
	}

	key := catalogPrefix + "service:" + id.String()
	var service models.Service
	if ctl.cached(c, key, &service) {
		c.JSON(http.StatusOK, service)
		return
	}
	if err := config.DB.WithContext(c.Request.Context()).Preload("Category").First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondInternal(c, "Failed to retrieve service", err)
		}
		return
	}
	ctl.store(c, key, service)
	c.JSON(http.StatusOK, service)
}

func (ctl *CatalogController) GetCategories(c *gin.Context) {
	key := catalogPrefix + "categories"
	var categories []models.Category
	if ctl.cached(c, key, &categories) {
		c.JSON(http.StatusOK, categories)
		return
	}
	if err := config.DB.WithContext(c.Request.Context()).Order("name ASC").Find(&categories).Error; err != nil {
		utils.RespondInternal(c, "Failed to retrieve categories", err)
		return
	}
	ctl.store(c, key, categories)
	c.JSON(http.StatusOK, categories)
}

// CreateService creates a new service
func (ctl *CatalogController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}
	if !categoryExists(c, input.CategoryID) {
		return
	}

	service := models.Service{
		Name:            input.Name,
		Description:     utils.NilIfBlank(input.Description),
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		CategoryID:      input.CategoryID,
		ImageURL:        utils.NilIfBlank(input.ImageURL),
	}
	if err := config.DB.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		utils.RespondInternal(c, "Failed to create service", err)
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusCreated, service)
}

// UpdateService changes the given fields. Existing bookings keep their
// snapshot of name, price and end time.
func (ctl *CatalogController) UpdateService(c *gin.Context) {
	id, ok := idParam(c, "service")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	var service models.Service
	if err := config.DB.WithContext(c.Request.Context()).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondInternal(c, "Failed to retrieve service", err)
		}
		return
	}
	if !categoryExists(c, input.CategoryID) {
		return
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = utils.NilIfBlank(input.Description)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.CategoryID != nil {
		updates["category_id"] = input.CategoryID
	}
	if input.ImageURL != nil {
		updates["image_url"] = utils.NilIfBlank(input.ImageURL)
	}

	if len(updates) > 0 {
		if err := config.DB.WithContext(c.Request.Context()).Model(&service).Updates(updates).Error; err != nil {
			utils.RespondInternal(c, "Failed to update service", err)
			return
		}
	}
	if err := config.DB.WithContext(c.Request.Context()).Preload("Category").First(&service, "id = ?", id).Error; err != nil {
		utils.RespondInternal(c, "Failed to reload service", err)
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service that no booking refers to.
func (ctl *CatalogController) DeleteService(c *gin.Context) {
	id, ok := idParam(c, "service")
	if !ok {
		return
	}

	var refs int64
	if err := config.DB.WithContext(c.Request.Context()).Model(&models.Booking{}).Where("service_id = ?", id).Count(&refs).Error; err != nil {
		utils.RespondInternal(c, "Failed to check service bookings", err)
		return
	}
	if refs > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Service has bookings and cannot be deleted")
		return
	}

	result := config.DB.WithContext(c.Request.Context()).Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondInternal(c, "Failed to delete service", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

func (ctl *CatalogController) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	var count int64
	config.DB.WithContext(c.Request.Context()).Model(&models.Category{}).Where("name = ?", input.Name).Count(&count)
	if count > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Category already exists")
		return
	}

	category := models.Category{Name: input.Name, Description: utils.NilIfBlank(input.Description)}
	if err := config.DB.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		utils.RespondInternal(c, "Failed to create category", err)
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory removes a category and detaches its services.
func (ctl *CatalogController) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "category")
	if !ok {
		return
	}

	var deleted int64
	err := config.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Service{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Category{}, "id = ?", id)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		utils.RespondInternal(c, "Failed to delete category", err)
		return
	}
	if deleted == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}

	ctl.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func categoryExists(c *gin.Context, id *uuid.UUID) bool {
	if id == nil {
		return true
	}
	var count int64
	if err := config.DB.WithContext(c.Request.Context()).Model(&models.Category{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		utils.RespondInternal(c, "Failed to check category", err)
		return false
	}
	if count == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Category does not exist")
		return false
	}
	return true
}

// Cache failures only cost a database round trip.
func (ctl *CatalogController) cached(c *gin.Context, key string, dst interface{}) bool {
	if ctl.Cache == nil {
		return false
	}
	hit, err := cache.GetJSON(c.Request.Context(), ctl.Cache, key, dst)
	if err != nil {
		zap.L().Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (ctl *CatalogController) store(c *gin.Context, key string, v interface{}) {
	if ctl.Cache == nil || ctl.TTL <= 0 {
		return
	}
	if err := cache.SetJSON(c.Request.Context(), ctl.Cache, key, v, ctl.TTL); err != nil {
		zap.L().Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (ctl *CatalogController) invalidate(c *gin.Context) {
	if ctl.Cache == nil {
		return
	}
	if err := ctl.Cache.DeletePrefix(c.Request.Context(), catalogPrefix); err != nil {
		zap.L().Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
