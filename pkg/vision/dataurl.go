package vision

import (
	"regexp"
	"strings"
)

// dataURLPrefix matches a base64 image data-URL header with any subtype
// (jpeg, png, webp, svg+xml, ...).
var dataURLPrefix = regexp.MustCompile(`^data:image/[A-Za-z0-9.+-]+;base64,`)

// defaultMediaType is assumed when the payload arrives without a data-URL
// header. Captures from the dashboard are JPEG.
const defaultMediaType = "image/jpeg"

// SplitDataURL strips the data-URL header from an image payload, returning
// the media type and the raw base64 data. Payloads without a header pass
// through unchanged under the default media type.
func SplitDataURL(s string) (mediaType, data string) {
	header := dataURLPrefix.FindString(s)
	if header == "" {
		return defaultMediaType, s
	}
	mediaType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64,")
	return mediaType, s[len(header):]
}
