package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pateando/pateando-api/config"
	"github.com/pateando/pateando-api/utils"
)

// Presigned URLs are short-lived; the frontend refetches the walker
// profile when one expires.
const presignTTL = time.Hour

// S3Interface is the object-storage surface the photo service needs.
type S3Interface interface {
	UploadFile(fileHeader *multipart.FileHeader) (string, error)
	GetPresignedURL(s3Key string) (string, error)
	DeleteFile(s3Key string) error
}

// S3Service stores walker photos in a private S3 bucket.
type S3Service struct {
	client *s3.Client
	bucket string
}

var s3ServiceInstance S3Interface

// InitS3Service builds the S3 client from the loaded configuration and
// installs it as the process-wide instance.
func InitS3Service() (S3Interface, error) {
	cfg := config.GetConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s3ServiceInstance = &S3Service{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}
	return s3ServiceInstance, nil
}

// GetS3Service returns the installed S3 instance, nil when storage is
// not configured.
func GetS3Service() S3Interface {
	return s3ServiceInstance
}

// SetS3Service replaces the S3 instance (primarily for testing).
func SetS3Service(service S3Interface) {
	s3ServiceInstance = service
}

// UploadFile stores a walker photo under a collision-free key
// (walkers/{uuid}{ext}) and returns the key.
func (s *S3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	ext := utils.PhotoExtension(fileHeader.Filename)
	s3Key := "walkers/" + uuid.NewString() + ext

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s3Key),
		Body:          file,
		ContentLength: aws.Int64(fileHeader.Size),
		ContentType:   aws.String(utils.PhotoContentType(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", s3Key, err)
	}
	return s3Key, nil
}

// GetPresignedURL returns a time-limited GET URL for a stored photo.
// An empty key presigns to an empty URL, so callers can pass the key
// through unconditionally.
func (s *S3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	request, err := s3.NewPresignClient(s.client).PresignGetObject(context.TODO(),
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s3Key),
		},
		func(opts *s3.PresignOptions) { opts.Expires = presignTTL },
	)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", s3Key, err)
	}
	return request.URL, nil
}

// DeleteFile removes a stored photo. Deleting an empty key is a no-op.
func (s *S3Service) DeleteFile(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", s3Key, err)
	}
	return nil
}
