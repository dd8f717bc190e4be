package utils

import "strings"

// imageTypeToExtension maps the image MIME types accepted for upload to their
// usual file extensions.
var imageTypeToExtension = map[string]string{
	"image/avif": ".avif",
	"image/bmp":  ".bmp",
	"image/gif":  ".gif",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/tiff": ".tif",
	"image/webp": ".webp",
}

// GetExtensionFromMimeType returns a common file extension for a given MIME type.
// If no specific extension is found, it defaults to ".bin".
func GetExtensionFromMimeType(mimeType string) string {
	if ext, ok := imageTypeToExtension[cleanMimeType(mimeType)]; ok {
		return ext
	}

	return ".bin"
}

// IsSupportedImage reports whether mimeType is an image type accepted for upload.
func IsSupportedImage(mimeType string) bool {
	_, ok := imageTypeToExtension[cleanMimeType(mimeType)]

	return ok
}

// cleanMimeType drops parameters such as "; charset=utf-8".
func cleanMimeType(mimeType string) string {
	return strings.TrimSpace(strings.ToLower(strings.Split(mimeType, ";")[0]))
}
