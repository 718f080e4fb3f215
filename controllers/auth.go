package controllers

import (
	"errors"
	"net/http"
	"time"

	"detailstudio-backend/config"
	"detailstudio-backend/models"
	"detailstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string  `json:"name" binding:"required,min=2"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
	Password string  `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// controllers/auth.go
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}
	email := utils.NormalizeEmail(input.Email)

	// Check if email already exists
	var existing models.Client
	result := config.DB.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondInternal(c, "Failed to look up client", result.Error)
		return
	}

	client := models.Client{
		Name:     input.Name,
		Email:    email,
		Phone:    utils.NilIfBlank(input.Phone),
		Password: input.Password, // Will be hashed in BeforeCreate hook
	}
	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondInternal(c, "Failed to create client", err)
		return
	}

	token, ok := issueSession(c, utils.Principal{ID: client.ID, Email: client.Email})
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    client,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondInvalidInput(c, err)
		return
	}
	email := utils.NormalizeEmail(input.Email)

	if input.IsAdmin {
		loginAdmin(c, email, input.Password)
		return
	}

	var client models.Client
	if err := config.DB.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondInternal(c, "Failed to look up client", err)
		}
		return
	}
	if !utils.CheckPasswordHash(input.Password, client.PasswordHash) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, ok := issueSession(c, utils.Principal{ID: client.ID, Email: client.Email})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    client,
	})
}

func loginAdmin(c *gin.Context, email, password string) {
	var admin models.Admin
	if err := config.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondInternal(c, "Failed to look up admin", err)
		}
		return
	}
	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		zap.L().Warn("Admin login failed", zap.String("email", email))
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, ok := issueSession(c, utils.Principal{ID: admin.ID, Email: admin.Email, Role: admin.Role})
	if !ok {
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&admin).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    admin,
	})
}

func Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, config.App.IsProduction())
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func Me(c *gin.Context) {
	p, ok := utils.CurrentPrincipal(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if p.IsAdmin() {
		var admin models.Admin
		if err := config.DB.First(&admin, "id = ?", p.ID).Error; err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": admin, "isAdmin": true})
		return
	}

	var client models.Client
	if err := config.DB.First(&client, "id = ?", p.ID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": client, "isAdmin": false})
}

// issueSession signs a token for p and sets the session cookie.
func issueSession(c *gin.Context, p utils.Principal) (string, bool) {
	ttl := config.App.SessionTTL()
	token, err := utils.GenerateToken(config.App.JWTSecret, ttl, p)
	if err != nil {
		utils.RespondInternal(c, "Failed to generate token", err)
		return "", false
	}
	utils.SetSessionCookie(c, token, ttl, config.App.IsProduction())
	return token, true
}
