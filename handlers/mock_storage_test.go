package handlers

import (
	"context"
	"io"
)

type mockStorage struct {
	UploadLicenceImageFn func(file io.Reader, filename, contentType string) (string, error)
	DeleteFileFn         func(objectPath string) error
	DeleteFileCalls      []string
	UploadCallCount      int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadLicenceImage(_ context.Context, file io.Reader, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadLicenceImageFn != nil {
		return m.UploadLicenceImageFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/licences/123_" + filename, nil
}

func (m *mockStorage) DeleteFile(_ context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
