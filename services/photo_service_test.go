package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newMultipartFileHeader builds a real multipart.FileHeader the way Gin would
// receive one from a form upload.
func newMultipartFileHeader(t *testing.T, fieldName, fileName string, content []byte) *multipart.FileHeader {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File[fieldName][0]
}

func TestS3PhotoService(t *testing.T) {
	mockS3 := NewMockS3Service()
	svc := &S3PhotoService{s3Service: mockS3}

	t.Run("uploads a valid image", func(t *testing.T) {
		header := newMultipartFileHeader(t, "photo", "notebook.png", []byte("png-bytes"))

		key, err := svc.UploadPhoto(header)
		assert.NoError(t, err)
		assert.NotEmpty(t, key)
		assert.True(t, mockS3.FileExists(key))
	})

	t.Run("rejects a disallowed format before touching storage", func(t *testing.T) {
		mockS3.Clear()
		header := newMultipartFileHeader(t, "photo", "manual.pdf", []byte("pdf-bytes"))

		_, err := svc.UploadPhoto(header)
		assert.Error(t, err)
		assert.False(t, mockS3.FileExists("equipment-photos/mock_manual.pdf"))
	})

	t.Run("generates a url for an uploaded photo", func(t *testing.T) {
		header := newMultipartFileHeader(t, "photo", "printer.jpg", []byte("jpg-bytes"))
		key, err := svc.UploadPhoto(header)
		assert.NoError(t, err)

		url, err := svc.GetPhotoURL(key)
		assert.NoError(t, err)
		assert.Contains(t, url, key)
	})

	t.Run("empty key yields an empty url", func(t *testing.T) {
		url, err := svc.GetPhotoURL("")
		assert.NoError(t, err)
		assert.Empty(t, url)
	})

	t.Run("deletes an uploaded photo", func(t *testing.T) {
		header := newMultipartFileHeader(t, "photo", "monitor.jpeg", []byte("jpeg-bytes"))
		key, err := svc.UploadPhoto(header)
		assert.NoError(t, err)

		assert.NoError(t, svc.DeletePhoto(key))
		assert.False(t, mockS3.FileExists(key))
	})
}
