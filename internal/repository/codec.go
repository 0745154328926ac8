// Package repository provides typed wrappers over the generic table store
// (internal/store) for each entity kind named in spec §3. Every repository
// follows the same shape: JSON-encode the model into store.Row.Data, and
// decode on the way out. Partition/row-key choices mirror spec §6's
// "Persisted layout" table.
package repository

import (
	"encoding/json"

	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

func encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode record")
	}
	return data, nil
}

func decode(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode record")
	}
	return nil
}
