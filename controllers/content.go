package controllers

import (
	"errors"
	"net/http"

	"detailstudio-backend/config"
	"detailstudio-backend/models"
	"detailstudio-backend/scheduling"
	"detailstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTestimonialInput struct {
	Text       string  `json:"text" binding:"required,min=10"`
	Rating     *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	ClientName *string `json:"clientName" binding:"omitempty,max=200"`
}

type CreateGalleryImageInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	ServiceID       *uuid.UUID `json:"serviceId"`
	BeforeImageURLs []string   `json:"beforeImageUrls" binding:"omitempty,dive,required"`
	AfterImageURLs  []string   `json:"afterImageUrls" binding:"omitempty,dive,required"`
	// single-image form
	BeforeImageURL string `json:"beforeImageUrl"`
	AfterImageURL  string `json:"afterImageUrl"`
}

type CreateConsultationInput struct {
	Name    string  `json:"name" binding:"required,min=2"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone" binding:"omitempty,phone"`
	Message string  `json:"message" binding:"required,min=10"`
}

// GetTestimonials lists approved testimonials, newest first.
func GetTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	err := config.DB.WithContext(c.Request.Context()).
		Preload("Client").
		Where("approved = ?", true).
		Order("date_posted DESC").
		Find(&testimonials).Error
	if err != nil {
		utils.RespondInternal(c, "Failed to retrieve testimonials", err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

// CreateTestimonial stores a testimonial for moderation.
func CreateTestimonial(c *gin.Context) {
	var input CreateTestimonialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	testimonial := models.Testimonial{
		Text:       input.Text,
		Rating:     input.Rating,
		ClientName: utils.NilIfBlank(input.ClientName),
		Approved:   false,
	}
	if p, ok := utils.CurrentPrincipal(c); ok && !p.IsAdmin() && clientExists(c, p.ID) {
		id := p.ID
		testimonial.ClientID = &id
	}

	if err := config.DB.WithContext(c.Request.Context()).Create(&testimonial).Error; err != nil {
		utils.RespondInternal(c, "Failed to create testimonial", err)
		return
	}
	c.JSON(http.StatusCreated, testimonial)
}

// GetAllTestimonials lists every testimonial for moderation.
func GetAllTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	err := config.DB.WithContext(c.Request.Context()).
		Preload("Client").
		Order("date_posted DESC").
		Find(&testimonials).Error
	if err != nil {
		utils.RespondInternal(c, "Failed to retrieve testimonials", err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

func ApproveTestimonial(c *gin.Context) {
	id, ok := idParam(c, "testimonial")
	if !ok {
		return
	}

	var testimonial models.Testimonial
	if err := config.DB.WithContext(c.Request.Context()).First(&testimonial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Testimonial not found")
		} else {
			utils.RespondInternal(c, "Failed to retrieve testimonial", err)
		}
		return
	}
	if err := config.DB.WithContext(c.Request.Context()).Model(&testimonial).Update("approved", true).Error; err != nil {
		utils.RespondInternal(c, "Failed to approve testimonial", err)
		return
	}
	testimonial.Approved = true
	c.JSON(http.StatusOK, testimonial)
}

func DeleteTestimonial(c *gin.Context) {
	id, ok := idParam(c, "testimonial")
	if !ok {
		return
	}
	result := config.DB.WithContext(c.Request.Context()).Delete(&models.Testimonial{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondInternal(c, "Failed to delete testimonial", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Testimonial not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted successfully"})
}

// GetGallery lists gallery entries, newest first, optionally for one service.
func GetGallery(c *gin.Context) {
	query := config.DB.WithContext(c.Request.Context()).Preload("Service").Order("created_at DESC")
	if raw := c.Query("serviceId"); raw != "" {
		serviceID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
			return
		}
		query = query.Where("service_id = ?", serviceID)
	}

	var images []models.GalleryImage
	if err := query.Find(&images).Error; err != nil {
		utils.RespondInternal(c, "Failed to retrieve gallery", err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func CreateGalleryImage(c *gin.Context) {
	var input CreateGalleryImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	before := models.StringList(input.BeforeImageURLs)
	if input.BeforeImageURL != "" {
		before = append(before, input.BeforeImageURL)
	}
	after := models.StringList(input.AfterImageURLs)
	if input.AfterImageURL != "" {
		after = append(after, input.AfterImageURL)
	}
	if len(before) == 0 || len(after) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "At least one before and one after image URL is required")
		return
	}

	if input.ServiceID != nil {
		var count int64
		config.DB.WithContext(c.Request.Context()).Model(&models.Service{}).Where("id = ?", *input.ServiceID).Count(&count)
		if count == 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Service does not exist")
			return
		}
	}

	image := models.GalleryImage{
		ServiceID:       input.ServiceID,
		Title:           utils.NilIfBlank(input.Title),
		Description:     utils.NilIfBlank(input.Description),
		BeforeImageURLs: before,
		AfterImageURLs:  after,
	}
	if err := config.DB.WithContext(c.Request.Context()).Create(&image).Error; err != nil {
		utils.RespondInternal(c, "Failed to create gallery image", err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

func DeleteGalleryImage(c *gin.Context) {
	id, ok := idParam(c, "image")
	if !ok {
		return
	}
	result := config.DB.WithContext(c.Request.Context()).Delete(&models.GalleryImage{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondInternal(c, "Failed to delete gallery image", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Gallery image not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gallery image deleted successfully"})
}

// CreateConsultation stores a contact-form request with status New.
func CreateConsultation(c *gin.Context) {
	var input CreateConsultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}

	consultation := models.Consultation{
		Name:    input.Name,
		Email:   utils.NormalizeEmail(input.Email),
		Phone:   utils.NilIfBlank(input.Phone),
		Message: input.Message,
		Status:  scheduling.ConsultationNew,
	}
	if err := config.DB.WithContext(c.Request.Context()).Create(&consultation).Error; err != nil {
		utils.RespondInternal(c, "Failed to create consultation", err)
		return
	}
	c.JSON(http.StatusCreated, consultation)
}

func GetConsultations(c *gin.Context) {
	var consultations []models.Consultation
	if err := config.DB.WithContext(c.Request.Context()).Order("created_at DESC").Find(&consultations).Error; err != nil {
		utils.RespondInternal(c, "Failed to retrieve consultations", err)
		return
	}
	c.JSON(http.StatusOK, consultations)
}

func UpdateConsultationStatus(c *gin.Context) {
	id, ok := idParam(c, "consultation")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}
	status, err := scheduling.ParseConsultationStatus(input.Status)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var consultation models.Consultation
	if err := config.DB.WithContext(c.Request.Context()).First(&consultation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Consultation not found")
		} else {
			utils.RespondInternal(c, "Failed to retrieve consultation", err)
		}
		return
	}
	if err := config.DB.WithContext(c.Request.Context()).Model(&consultation).Update("status", status).Error; err != nil {
		utils.RespondInternal(c, "Failed to update consultation", err)
		return
	}
	consultation.Status = status
	c.JSON(http.StatusOK, consultation)
}
