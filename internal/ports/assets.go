package ports

import "context"

type AssetLocator interface {
	// Images returns ordered image paths for a catalog entry; none is not an error.
	Images(ctx context.Context, entryID string) ([]string, error)
}
