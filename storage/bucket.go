package storage

import (
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

const (
	StorageLocationPhotos = "/photo"
)

type Bucket struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Name        string `gorm:"type:varchar(200)"`
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	// S3-specific details
	Endpoint      string `gorm:"type:varchar(300)"`
	S3Key         string `gorm:"type:varchar(200)"`
	S3Secret      string `gorm:"type:varchar(200)"`
	Region        string `gorm:"type:varchar(50)"`
	SSEEncryption string `gorm:"type:varchar(50)"`
}

// TryInit pre-creates the locations on disk for file buckets
func (b *Bucket) TryInit() error {
	if b.StorageType != StorageTypeFile {
		return nil
	}
	return os.MkdirAll(b.Path+StorageLocationPhotos, 0777)
}

func (b *Bucket) CreateSVC() *s3.S3 {
	awsConfig := aws.Config{
		Credentials: credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""),
		Region:      aws.String(b.Region),
	}
	if b.Endpoint != "" {
		awsConfig.Endpoint = aws.String(b.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&awsConfig)))
}

// GetRemotePath returns the object key for the given path, using
// the bucket Path as a key prefix
func (b *Bucket) GetRemotePath(path string) string {
	return strings.TrimLeft(b.Path+"/"+path, "/")
}
