package imagehost

import "github.com/Laisky/errors/v2"

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmptyFile       = errors.New("empty file")
)
