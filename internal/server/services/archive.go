package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/shadowinterview/internal/netx"
	sc "github.com/dmitrijs2005/shadowinterview/internal/server/config"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

// ArchiveService copies recordings to S3-compatible storage through
// presigned URLs and hands out presigned download links.
type ArchiveService struct {
	config *sc.Config
	http   *http.Client
}

func NewArchiveService(cfg *sc.Config) *ArchiveService {
	return &ArchiveService{config: cfg, http: &http.Client{Timeout: 5 * time.Minute}}
}

// StorageKey returns a fresh object key for a recording of userID.
func StorageKey(userID, fileName string, now time.Time) string {
	return fmt.Sprintf("recordings/%s/%d/%02d/%02d/%s%s",
		userID, now.Year(), now.Month(), now.Day(), uuid.New(), filepath.Ext(fileName))
}

func (s *ArchiveService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// Upload stores the file at path under a new key and returns the key.
func (s *ArchiveService) Upload(ctx context.Context, userID, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read recording: %w", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(userID, filepath.Base(path), time.Now())
	contentType := "audio/wav"

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := uploadToPresignedURL(ctx, s.http, req.URL, contentType, data); err != nil {
		return "", err
	}

	return key, nil
}

// DownloadURL returns a short-lived GET link for key.
func (s *ArchiveService) DownloadURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	return req.URL, nil
}
