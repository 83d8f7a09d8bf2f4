package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var (
	s3Client *s3.Client
	s3Bucket string
	s3Region string
)

// InitStorage sets up the S3 client used for snap uploads
func InitStorage() {
	s3Bucket = os.Getenv("S3_BUCKET")
	if s3Bucket == "" {
		s3Bucket = "bandz-snaps"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load AWS SDK config: %v", err)
	}
	s3Region = cfg.Region

	s3Client = s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
	})
	log.Println("S3 photo storage ready, bucket:", s3Bucket)
}

// UploadPhoto streams an image into the bucket under a fresh uuid key and
// returns the URL to store as the submission's image reference.
func UploadPhoto(ctx context.Context, body io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("snaps/%s.jpg", uuid.NewString())

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s3Bucket,
		Key:         &key,
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s3Bucket, s3Region, key), nil
}
