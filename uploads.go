package main

import (
	"bytes"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"bitbucket.org/montealto-academy/academy_backend/config"
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

// Images are downscaled before storage; receipts come off phone cameras at
// absurd resolutions.
const maxImageWidth = 1600

var allowedUploadMimeTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

var uploadFolders = map[string]bool{
	"expenses": true,
	"payments": true,
	"payrolls": true,
}

// uploadHandler stores a receipt or supporting document in GCS and returns
// its access URL. The caller links the URL to the record themselves.
func uploadHandler(c *gin.Context) {
	logger := config.GetLogger()

	folder := strings.ToLower(strings.TrimSpace(c.PostForm("folder")))
	if !uploadFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder must be one of expenses, payments, payrolls"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	if int64(len(data)) > maxUploadSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
		return
	}

	mimeType := http.DetectContentType(data)
	ext, ok := allowedUploadMimeTypes[mimeType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	if headerExt := strings.ToLower(filepath.Ext(fileHeader.Filename)); headerExt == ".jpeg" {
		ext = ".jpg"
	}

	if strings.HasPrefix(mimeType, "image/") {
		data, err = downscaleImage(data, mimeType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to decode image"})
			return
		}
	}

	objectKey := path.Join(folder, uuid.New().String()+ext)
	if err := utils.UploadBytesToGCS(c.Request.Context(), objectKey, data, mimeType); err != nil {
		config.LogError(logger, "uploads.go", "uploadHandler", "UploadBytesToGCS", objectKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	logger.WithFields(logrus.Fields{
		"object_key": objectKey,
		"mime_type":  mimeType,
		"size":       len(data),
	}).Info("[upload.complete]")

	c.JSON(http.StatusOK, gin.H{
		"object_key": objectKey,
		"url":        utils.BuildObjectAccessURL(objectKey),
	})
}

func downscaleImage(data []byte, mimeType string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	format := imaging.JPEG
	if mimeType == "image/png" {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
