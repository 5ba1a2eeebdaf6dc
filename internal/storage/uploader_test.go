package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

func TestValidateFile(t *testing.T) {
	valid := &File{
		Name:        "photo.jpg",
		ContentType: "image/jpeg",
		Data:        bytes.Repeat([]byte{0xff}, 1024),
	}
	assert.NoError(t, ValidateFile(valid))

	t.Run("rejects a missing file", func(t *testing.T) {
		for _, file := range []*File{nil, {Name: "empty.jpg", ContentType: "image/jpeg"}} {
			err := ValidateFile(file)
			assert.Error(t, err)
			assert.Equal(t, apperror.KindUpload, apperror.KindOf(err))
		}
	})

	t.Run("rejects non-image content types", func(t *testing.T) {
		for _, ct := range []string{"application/pdf", "text/plain", "video/mp4", ""} {
			err := ValidateFile(&File{Name: "f", ContentType: ct, Data: []byte{1}})
			assert.Error(t, err, "content type %q", ct)
			assert.Equal(t, apperror.KindUpload, apperror.KindOf(err))
		}
	})

	t.Run("enforces the size limit", func(t *testing.T) {
		atLimit := &File{
			Name:        "photo.png",
			ContentType: "image/png",
			Data:        bytes.Repeat([]byte{0xff}, MaxFileSize),
		}
		assert.NoError(t, ValidateFile(atLimit))

		overLimit := &File{
			Name:        "photo.png",
			ContentType: "image/png",
			Data:        bytes.Repeat([]byte{0xff}, MaxFileSize+1),
		}
		err := ValidateFile(overLimit)
		assert.Error(t, err)
		assert.Equal(t, apperror.KindUpload, apperror.KindOf(err))
	})
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"", "upload"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeFileName(tc.in), "name %q", tc.in)
	}
}
