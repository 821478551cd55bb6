package firebase

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const publicURLPrefix = "https://storage.googleapis.com/"

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename removes special characters from filenames and limits length.
func sanitizeFilename(filename string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(filename, "_")

	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}

	if sanitized == "" || sanitized == "." || sanitized == ".." {
		sanitized = "file"
	}

	return sanitized
}

// ObjectPath extracts the storage object path from a public storage URL.
func ObjectPath(url string) (string, error) {
	if !strings.HasPrefix(url, publicURLPrefix) {
		return "", fmt.Errorf("invalid URL")
	}

	parts := strings.SplitN(strings.TrimPrefix(url, publicURLPrefix), "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid URL format")
	}

	return parts[1], nil
}

// credentialOptions accepts either inline JSON credentials or a file path.
func credentialOptions(credentials string) []option.ClientOption {
	if credentials == "" {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(credentials), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credentials))}
	}
	return []option.ClientOption{option.WithCredentialsFile(credentials)}
}

// Storage uploads back-office documents to a Firebase Storage bucket.
type Storage struct {
	app    *firebase.App
	bucket string
	logger logrus.FieldLogger
	now    func() time.Time
}

// New initialises the Firebase app for bucket. credentials may be empty to
// use application default credentials.
func New(ctx context.Context, bucket, credentials string, logger logrus.FieldLogger) (*Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET not set")
	}

	if credentials == "" {
		logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, credentialOptions(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}

	logger.WithField("bucket", bucket).Info("Firebase storage initialized")
	return &Storage{app: app, bucket: bucket, logger: logger, now: time.Now}, nil
}

func (s *Storage) bucketHandle(ctx context.Context) (*storage.BucketHandle, error) {
	client, err := s.app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage client: %w", err)
	}
	return client.Bucket(s.bucket)
}

// UploadLicenceImage stores a delivery-staff licence scan and returns its
// public URL.
func (s *Storage) UploadLicenceImage(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	return s.upload(ctx, "licences", file, filename, contentType)
}

func (s *Storage) upload(ctx context.Context, folder string, file io.Reader, filename, contentType string) (string, error) {
	bucket, err := s.bucketHandle(ctx)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("%s/%d_%s", folder, s.now().Unix(), sanitizeFilename(filename))
	obj := bucket.Object(objectPath)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", err
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		s.logger.WithError(err).WithField("object", objectPath).Warn("Failed to set public ACL")
	}

	return publicURLPrefix + s.bucket + "/" + objectPath, nil
}

// DeleteFile deletes an object given its path within the bucket.
func (s *Storage) DeleteFile(ctx context.Context, objectPath string) error {
	bucket, err := s.bucketHandle(ctx)
	if err != nil {
		return err
	}

	if err := bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectPath, err)
	}

	s.logger.WithFields(logrus.Fields{"object": objectPath, "bucket": s.bucket}).Info("Deleted file from storage")
	return nil
}
