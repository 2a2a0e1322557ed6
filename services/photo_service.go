package services

import (
	"fmt"
	"mime/multipart"

	"github.com/pateando/pateando-api/utils"
)

// PhotoService handles walker profile photo upload, retrieval and
// deletion.
type PhotoService interface {
	// UploadPhoto validates and uploads a photo, returns the storage key
	UploadPhoto(fileHeader *multipart.FileHeader) (string, error)

	// GetPhotoURL generates a URL for accessing an uploaded photo
	GetPhotoURL(photoKey string) (string, error)

	// DeletePhoto removes a photo from storage
	DeletePhoto(photoKey string) error
}

// S3PhotoService implements PhotoService using AWS S3 for storage
type S3PhotoService struct {
	s3Service S3Interface
}

var photoServiceInstance PhotoService = NoopPhotoService{}

// InitPhotoService initializes the photo service with an S3 backend
func InitPhotoService(s3Service S3Interface) PhotoService {
	photoServiceInstance = &S3PhotoService{
		s3Service: s3Service,
	}
	return photoServiceInstance
}

// GetPhotoService returns the initialized photo service instance
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService sets the photo service instance (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

// UploadPhoto validates the file and stores it in S3
func (s *S3PhotoService) UploadPhoto(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePhotoFile(fileHeader); err != nil {
		return "", err
	}
	return s.s3Service.UploadFile(fileHeader)
}

// GetPhotoURL returns a presigned URL for the stored photo
func (s *S3PhotoService) GetPhotoURL(photoKey string) (string, error) {
	return s.s3Service.GetPresignedURL(photoKey)
}

// DeletePhoto removes the stored photo
func (s *S3PhotoService) DeletePhoto(photoKey string) error {
	return s.s3Service.DeleteFile(photoKey)
}

// NoopPhotoService rejects uploads and yields no URLs. Used when no S3
// bucket is configured.
type NoopPhotoService struct{}

func (NoopPhotoService) UploadPhoto(fileHeader *multipart.FileHeader) (string, error) {
	return "", fmt.Errorf("photo storage is not configured")
}

func (NoopPhotoService) GetPhotoURL(photoKey string) (string, error) { return "", nil }

func (NoopPhotoService) DeletePhoto(photoKey string) error { return nil }
