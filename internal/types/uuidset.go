package types

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// The denormalized plan_ids/client_ids columns hold a JSON array of UUIDs.
// These helpers keep the encode/decode in one place so the coordinator is
// the only writer and every reader agrees on the shape.

func DecodeUUIDSet(raw datatypes.JSON) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func EncodeUUIDSet(ids []uuid.UUID) (datatypes.JSON, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func UUIDSetContains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UUIDSetAdd returns the set with id added, untouched if already present.
func UUIDSetAdd(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if UUIDSetContains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// UUIDSetRemove returns the set with id removed, untouched if absent.
func UUIDSetRemove(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
