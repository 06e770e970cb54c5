package handlers

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"poster/db"
	"poster/models"
	"poster/processing"
	"poster/storage"
	"poster/utils"
)

type UploadRequest struct {
	Name  string `json:"name"`
	Image string `json:"image" binding:"required"` // base64 data URL
}

type UploadResponse struct {
	Token  string `json:"token"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

// PhotoUpload accepts either a multipart "file" field or a JSON body
// with a base64 data URL, stores the original bytes and records the
// photo. Dimensions are taken from the decoded raster, not from
// whatever the client claims.
func PhotoUpload(c *gin.Context) {
	name, mimeType, data, ok := readUpload(c)
	if !ok {
		return
	}
	if !models.MimeTypeAllowed(mimeType) {
		c.JSON(http.StatusForbidden, Response{"this file type is not allowed"})
		return
	}
	dims, err := processing.DecodeDimensions(processing.Buffer{Data: data, MimeType: mimeType})
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"not a valid image"})
		return
	}
	if !models.DimensionsStorable(dims.Width, dims.Height) {
		c.JSON(http.StatusBadRequest, Response{"image dimensions not supported"})
		return
	}

	diskStorage := storage.GetDefaultStorage()
	if diskStorage == nil {
		c.JSON(http.StatusInternalServerError, StorageResponse)
		return
	}
	photo := models.Photo{
		Token:    uuid.NewString(),
		BucketID: diskStorage.GetBucket().ID,
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Width:    uint16(dims.Width),
		Height:   uint16(dims.Height),
	}
	if err = db.Instance.Create(&photo).Error; err != nil {
		log.Printf("Cannot create photo record: %v", err)
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	if _, err = diskStorage.Save(photo.GetPath(), bytes.NewReader(data)); err != nil {
		log.Printf("Cannot save photo %d: %v", photo.ID, err)
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	if err = diskStorage.UpdateRemoteFile(photo.GetPath(), photo.MimeType); err != nil {
		log.Printf("Cannot upload photo %d to remote storage: %v", photo.ID, err)
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, UploadResponse{
		Token:  photo.Token,
		Width:  photo.Width,
		Height: photo.Height,
	})
}

func readUpload(c *gin.Context) (name, mimeType string, data []byte, ok bool) {
	if file, err := c.FormFile("file"); err == nil {
		reader, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{err.Error()})
			return "", "", nil, false
		}
		defer reader.Close()
		if data, err = io.ReadAll(reader); err != nil {
			c.JSON(http.StatusBadRequest, Response{err.Error()})
			return "", "", nil, false
		}
		return file.Filename, file.Header.Get("Content-Type"), data, true
	}
	var r UploadRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return "", "", nil, false
	}
	mimeType, data, err := utils.ParseDataURL(r.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return "", "", nil, false
	}
	return r.Name, mimeType, data, true
}
