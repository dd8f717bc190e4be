package imagehost

import "context"

// Remover deletes a previously uploaded image by its public location.
// Locations not served by the host are ignored.
type Remover interface {
	Remove(ctx context.Context, location string) error
}
