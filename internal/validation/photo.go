package validation

import (
	"fmt"
	"net/url"
)

const (
	// MaxCaptionLength bounds photo captions.
	MaxCaptionLength = 2200
	// MaxCommentLength bounds comment content.
	MaxCommentLength = 2200
	// MaxImageURLLength bounds stored image URLs.
	MaxImageURLLength = 512
)

// ValidateImageURL checks that the image URL is an absolute http(s) URL of
// acceptable length. Upload and transcoding happen upstream; the API only
// stores the resulting URL.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("image_url is required")
	}
	if len(raw) > MaxImageURLLength {
		return fmt.Errorf("image_url must be at most %d characters", MaxImageURLLength)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("image_url must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("image_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("image_url must include a host")
	}
	return nil
}

// ValidateCaption bounds caption length. An empty caption is allowed.
func ValidateCaption(caption string) error {
	if len([]rune(caption)) > MaxCaptionLength {
		return fmt.Errorf("caption must be at most %d characters", MaxCaptionLength)
	}
	return nil
}

// ValidateCommentContent requires non-empty content of bounded length.
func ValidateCommentContent(content string) error {
	if content == "" {
		return fmt.Errorf("content is required")
	}
	if len([]rune(content)) > MaxCommentLength {
		return fmt.Errorf("content must be at most %d characters", MaxCommentLength)
	}
	return nil
}
