package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"Valid HTTPS", "https://cdn.example.com/p/123.jpg", false},
		{"Valid HTTP", "http://cdn.example.com/p/123.jpg", false},
		{"Empty", "", true},
		{"Relative Path", "/p/123.jpg", true},
		{"Wrong Scheme", "ftp://cdn.example.com/p/123.jpg", true},
		{"Not A URL", "not a url", true},
		{"Too Long", "https://cdn.example.com/" + strings.Repeat("a", 512), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCaption(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateCaption(""))
	assert.NoError(t, ValidateCaption(strings.Repeat("a", MaxCaptionLength)))
	assert.Error(t, ValidateCaption(strings.Repeat("a", MaxCaptionLength+1)))
}

func TestValidateCommentContent(t *testing.T) {
	t.Parallel()
	assert.Error(t, ValidateCommentContent(""))
	assert.NoError(t, ValidateCommentContent("nice shot"))
	assert.Error(t, ValidateCommentContent(strings.Repeat("a", MaxCommentLength+1)))
}
