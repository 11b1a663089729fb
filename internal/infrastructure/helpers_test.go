package infrastructure

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestGetExtensionFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
		err  error
	}{
		{"image/jpeg", "jpg", nil},
		{"image/jpg", "jpg", nil},
		{"image/png", "png", nil},
		{"image/webp", "webp", nil},
		{"image/gif", "bin", e.ErrUnsupportedMediaType},
	}

	for _, tt := range tests {
		got, err := GetExtensionFromMIME(tt.mime)
		assert.Equal(t, tt.want, got, tt.mime)
		assert.ErrorIs(t, err, tt.err)
	}
}
