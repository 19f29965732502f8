package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"valid png", "photo.png", 1024, ""},
		{"valid jpg", "photo.jpg", 1024, ""},
		{"valid jpeg uppercase", "PHOTO.JPEG", 1024, ""},
		{"at size limit", "photo.png", MaxFileSize, ""},
		{"over size limit", "photo.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
		{"pdf rejected", "manual.pdf", 1024, "INVALID_FILE_FORMAT"},
		{"no extension", "photo", 1024, "INVALID_FILE_FORMAT"},
		{"gif rejected", "anim.gif", 1024, "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{Filename: tt.filename, Size: tt.size}
			err := ValidateImageFile(header)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				uploadErr, ok := err.(*FileUploadError)
				assert.True(t, ok)
				assert.Equal(t, tt.wantCode, uploadErr.Code)
			}
		})
	}
}
