package account

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jdmshowroom/internal/logging"
	"github.com/dmitrijs2005/jdmshowroom/internal/storage"
)

// Store keys. The names are shared with the web front end, which reads the
// same browser storage.
const (
	KeyUsers       = "jdmUsers"
	KeyCurrentUser = "jdmCurrentUser"
	KeyLoggedIn    = "jdmLoggedIn"
	KeyProfiles    = "jdmUserProfiles"
	KeyPurchases   = "jdmPurchases"
)

// load reads a JSON value, substituting def for anything absent or corrupt.
// Corrupt values are logged and otherwise ignored.
func load[T any](ctx context.Context, s storage.Store, log logging.Logger, key string, def T) (T, error) {
	v, err := storage.ReadJSON(ctx, s, key, def)
	if errors.Is(err, storage.ErrCorrupt) {
		log.Warn(ctx, "discarding corrupt value", "key", key, "error", err)
		return def, nil
	}
	if err != nil {
		return def, storageError(err)
	}
	return v, nil
}

func save[T any](ctx context.Context, s storage.Store, key string, v T) error {
	return storageError(storage.WriteJSON(ctx, s, key, v))
}
