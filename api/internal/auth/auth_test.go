package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret SharedSecret
		header string
		want   error
	}{
		{"match", "s3cret", "s3cret", nil},
		{"mismatch", "s3cret", "s3cre", ErrInvalidKey},
		{"case differs", "s3cret", "S3CRET", ErrInvalidKey},
		{"missing header", "s3cret", "", ErrMissingKey},
		{"unconfigured", "", "anything", ErrNotConfigured},
		{"unconfigured and missing", "", "", ErrNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/detect", nil)
			if tt.header != "" {
				r.Header.Set(HeaderAPIKey, tt.header)
			}
			assert.ErrorIs(t, tt.secret.Authorize(r), tt.want)
		})
	}
}
