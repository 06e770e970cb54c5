package handlers

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"

	"poster/db"
	"poster/faces"
	"poster/models"
	"poster/processing"
	"poster/storage"
	"poster/utils"
)

var (
	gateway  = faces.NewGateway()
	pipeline = processing.NewPipeline(gateway)
	// Newest processing generation per photo token. An older run that
	// finishes after a newer one started must not overwrite its result.
	generations = cmap.New[uint64]()
)

type ProcessResponse struct {
	Token        string `json:"token"`
	FaceDetected bool   `json:"face_detected"`
	Superseded   bool   `json:"superseded,omitempty"`
}

type DirectProcessRequest struct {
	Image string `json:"image" binding:"required"` // base64 data URL
}

type DirectProcessResponse struct {
	Image        string `json:"image"`
	FaceDetected bool   `json:"face_detected"`
}

func nextGeneration(token string) uint64 {
	return generations.Upsert(token, 1, func(exists bool, current, incoming uint64) uint64 {
		if exists {
			return current + 1
		}
		return incoming
	})
}

// PhotoProcess runs the stored photo through the face crop pipeline
// and saves the result next to the original. The pipeline itself never
// fails: with no detectable face the crop is simply the original image.
func PhotoProcess(c *gin.Context) {
	photo, photoStorage, ok := loadPhoto(c)
	if !ok {
		return
	}
	if err := photoStorage.EnsureLocalFile(photo.GetPath()); err != nil {
		log.Printf("Cannot fetch photo %d from storage: %v", photo.ID, err)
		c.JSON(http.StatusInternalServerError, StorageResponse)
		return
	}
	defer photoStorage.ReleaseLocalFile(photo.GetPath())

	buf := bytes.Buffer{}
	if _, err := photoStorage.Load(photo.GetPath(), &buf); err != nil {
		log.Printf("Cannot load photo %d: %v", photo.ID, err)
		c.JSON(http.StatusInternalServerError, StorageResponse)
		return
	}

	generation := nextGeneration(photo.Token)
	outcome := pipeline.Process(c.Request.Context(), processing.Buffer{
		Data:     buf.Bytes(),
		MimeType: photo.MimeType,
	})
	if current, _ := generations.Get(photo.Token); current != generation {
		// A newer request owns this photo now, discard our result
		c.JSON(http.StatusOK, ProcessResponse{
			Token:        photo.Token,
			FaceDetected: outcome.FaceDetected,
			Superseded:   true,
		})
		return
	}

	size, err := photoStorage.Save(photo.GetCropPath(), bytes.NewReader(outcome.Image.Data))
	if err != nil {
		log.Printf("Cannot save crop for photo %d: %v", photo.ID, err)
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	if err = photoStorage.UpdateRemoteFile(photo.GetCropPath(), outcome.Image.MimeType); err != nil {
		log.Printf("Cannot upload crop for photo %d: %v", photo.ID, err)
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	photo.Processed = true
	photo.FaceDetected = outcome.FaceDetected
	photo.CropSize = size
	if err = db.Instance.Save(photo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, ProcessResponse{
		Token:        photo.Token,
		FaceDetected: outcome.FaceDetected,
	})
}

// ProcessDirect is the stateless variant: a data URL in, the cropped
// (or passed-through) data URL out. Nothing is stored.
func ProcessDirect(c *gin.Context) {
	var r DirectProcessRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	mimeType, data, err := utils.ParseDataURL(r.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	outcome := pipeline.Process(c.Request.Context(), processing.Buffer{
		Data:     data,
		MimeType: mimeType,
	})
	c.JSON(http.StatusOK, DirectProcessResponse{
		Image:        utils.ToDataURL(outcome.Image.MimeType, outcome.Image.Data),
		FaceDetected: outcome.FaceDetected,
	})
}

func loadPhoto(c *gin.Context) (*models.Photo, storage.StorageAPI, bool) {
	photo := models.Photo{}
	err := db.Instance.Joins("Bucket").Where("photos.token = ?", c.Param("token")).Find(&photo).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return nil, nil, false
	}
	if photo.ID == 0 {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return nil, nil, false
	}
	photoStorage := storage.StorageFrom(&photo.Bucket)
	if photoStorage == nil {
		log.Printf("No storage for bucket %d", photo.BucketID)
		c.JSON(http.StatusInternalServerError, StorageResponse)
		return nil, nil, false
	}
	return &photo, photoStorage, true
}
