package models

import (
	"strconv"

	"poster/storage"
)

// Photo is one uploaded photograph plus the state of its face crop.
type Photo struct {
	ID           uint64 `gorm:"primaryKey"`
	Token        string `gorm:"type:varchar(40);uniqueIndex;not null"`
	CreatedAt    int64
	UpdatedAt    int64
	BucketID     uint64
	Bucket       storage.Bucket `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Name         string         `gorm:"type:varchar(300)"`
	MimeType     string         `gorm:"type:varchar(50)"`
	Size         int64
	Width        uint16
	Height       uint16
	Processed    bool `gorm:"not null;default 0"`
	FaceDetected bool `gorm:"not null;default 0"`
	CropSize     int64
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// MimeTypeAllowed tells if the uploaded content type can be processed
func MimeTypeAllowed(mimeType string) bool {
	_, ok := mimeExtensions[mimeType]
	return ok
}

// Width/Height columns are uint16
const maxPixelDimension = 65535

// DimensionsStorable tells if the decoded raster size fits the photo record
func DimensionsStorable(width, height int) bool {
	return width > 0 && height > 0 &&
		width <= maxPixelDimension && height <= maxPixelDimension
}

// GetPath returns the storage path of the original upload, e.g. photo/123.jpg
func (p *Photo) GetPath() string {
	return "photo/" + strconv.FormatUint(p.ID, 10) + mimeExtensions[p.MimeType]
}

// GetCropPath returns the storage path of the face crop. Crops are
// always re-encoded as JPEG.
func (p *Photo) GetCropPath() string {
	return "photo/" + strconv.FormatUint(p.ID, 10) + "_face.jpg"
}
