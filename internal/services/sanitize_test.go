package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name untouched", in: "photo.png", want: "photo.png"},
		{name: "path traversal stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "windows path stripped", in: `C:\Users\me\photo.png`, want: "photo.png"},
		{name: "control bytes removed", in: "pho\x01to.png", want: "photo.png"},
		{name: "header breakers replaced", in: `a"b<c>.png`, want: "a_b_c_.png"},
		{name: "empty falls back", in: "", want: "image"},
		{name: "dot-dot falls back", in: "..", want: "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.in))
		})
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "photo", baseName("photo.png"))
	assert.Equal(t, "archive.tar", baseName("archive.tar.gz"))
	assert.Equal(t, "image", baseName(""))
	assert.Equal(t, "noext", baseName("noext"))
}
