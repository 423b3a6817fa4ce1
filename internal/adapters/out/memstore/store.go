// Package memstore implements the repository ports on plain in-process maps.
// It is the simple single-node variant: no replication, no event log, and
// writes are immediately and strongly consistent.
//
// Two mutexes guard the two entity maps. Units of work hold both for the
// whole transaction, always acquired in the same order (deliveries before
// users), so cross-aggregate commands cannot deadlock.
package memstore

import (
	"encoding/json"
	"fmt"
	"sync"

	"opencourier/internal/core/domain/model/account"
	"opencourier/internal/core/domain/model/delivery"
)

// Store owns the entity maps. All access goes through repositories or units
// of work; the store itself only provides storage and locking.
type Store struct {
	deliveriesMu sync.Mutex
	deliveries   map[string]delivery.Snapshot

	usersMu sync.Mutex
	users   map[string]account.Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		deliveries: make(map[string]delivery.Snapshot),
		users:      make(map[string]account.Snapshot),
	}
}

// cloneDelivery deep-copies a snapshot so aggregates restored from the store
// never share slices or pointers with it.
func cloneDelivery(s delivery.Snapshot) delivery.Snapshot {
	return deepCopy(s)
}

func cloneProfile(s account.Snapshot) account.Snapshot {
	return deepCopy(s)
}

func deepCopy[T any](value T) T {
	data, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("memstore: snapshot not serializable: %v", err))
	}
	var copied T
	if err := json.Unmarshal(data, &copied); err != nil {
		panic(fmt.Sprintf("memstore: snapshot not deserializable: %v", err))
	}
	return copied
}
