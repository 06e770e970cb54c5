package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PhotoFetch serves the original upload, or the face crop with ?crop=1
func PhotoFetch(c *gin.Context) {
	photo, photoStorage, ok := loadPhoto(c)
	if !ok {
		return
	}
	path := photo.GetPath()
	if c.Query("crop") == "1" {
		if !photo.Processed {
			c.JSON(http.StatusNotFound, Response{"photo not processed yet"})
			return
		}
		path = photo.GetCropPath()
	}
	if err := photoStorage.EnsureLocalFile(path); err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	photoStorage.Serve(path, c.Request, c.Writer)
	photoStorage.ReleaseLocalFile(path)
}
