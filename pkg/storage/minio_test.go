package storage

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewUploaderValidation(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		bucket   string
		wantErr  bool
	}{
		{"valid", "minio.local:9000", "podcasts", false},
		{"missing endpoint", "", "podcasts", true},
		{"missing bucket", "minio.local:9000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUploader(tt.endpoint, "ak", "sk", tt.bucket, Options{Logger: zerolog.Nop()})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewUploader() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
