package controllers

import (
	"io"
	"net/http"
	"strings"

	"detailstudio-backend/services"
	"detailstudio-backend/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const MaxUploadBytes = 5 << 20

// UploadController accepts admin image uploads.
type UploadController struct {
	Store services.ImageStore
}

// Upload takes a multipart "file" field and returns the stored image URL.
func (ctl *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No file provided")
		return
	}
	if header.Size > MaxUploadBytes {
		utils.RespondWithError(c, http.StatusBadRequest, "File size too large. Maximum size is 5MB")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondInternal(c, "Failed to open upload", err)
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		utils.RespondInternal(c, "Failed to read upload", err)
		return
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid file type. Only images are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.RespondInternal(c, "Failed to rewind upload", err)
		return
	}

	url, err := ctl.Store.Save(c.Request.Context(), io.LimitReader(file, MaxUploadBytes), mtype.Extension())
	if err != nil {
		utils.RespondInternal(c, "Failed to store upload", err)
		return
	}

	zap.L().Info("Image uploaded", zap.String("url", url), zap.String("type", mtype.String()), zap.Int64("size", header.Size))
	c.JSON(http.StatusOK, gin.H{"url": url})
}
