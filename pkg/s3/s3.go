package s3

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ItfS3 is the object-storage capability the submission flow needs: write
// a blob under a key, get back a public locator.
type ItfS3 interface {
	UploadBytes(key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
	DeleteFile(key string) error
}

type s3Client struct {
	client     *s3.S3
	session    *session.Session
	bucketName string
	region     string
}

func New() (ItfS3, error) {
	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:     s3.New(sess),
		session:    sess,
		bucketName: os.Getenv("AWS_BUCKET_NAME"),
		region:     os.Getenv("AWS_REGION"),
	}, nil
}

// UploadBytes writes the blob under the given key with upsert disabled
// semantics left to key uniqueness (keys are time-stamped by the caller).
// Returns the public locator of the stored object.
func (s *s3Client) UploadBytes(key string, data []byte, contentType string) (string, error) {
	uploader := s3manager.NewUploader(s.session)

	uploadOutput, err := uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	if uploadOutput.Location != "" {
		return uploadOutput.Location, nil
	}
	return s.PublicURL(key), nil
}

// PublicURL builds the locator at which an uploaded object is retrievable.
func (s *s3Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
}

func (s *s3Client) DeleteFile(key string) error {
	decodedKey, err := url.QueryUnescape(extractKeyFromURL(key))
	if err != nil {
		return fmt.Errorf("failed to decode object key: %w", err)
	}

	_, err = s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(decodedKey),
	})

	return err
}

func extractKeyFromURL(fileURL string) string {
	parts := strings.Split(fileURL, ".com/")
	if len(parts) > 1 {
		return parts[1]
	}
	return fileURL
}

func newSession() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}
