package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Snapshot is a full copy of both tiers, suitable for backup and transfer.
// Ephemeral keys appear without their namespace prefix so a snapshot can be
// imported into a gateway with a different namespace.
type Snapshot struct {
	ExportedAt time.Time                  `json:"exported_at"`
	Ephemeral  map[string]json.RawMessage `json:"ephemeral"`
	Stores     map[string][]Record        `json:"stores"`
}

// Export enumerates every namespaced ephemeral key and the full contents of
// every declared store at call time.
func (g *Gateway) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		ExportedAt: g.now(),
		Ephemeral:  make(map[string]json.RawMessage),
		Stores:     make(map[string][]Record),
	}

	prefix := g.cfg.Namespace + "_"
	keys, err := g.kv.Keys(prefix)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		data, ok, err := g.kv.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			snap.Ephemeral[strings.TrimPrefix(key, prefix)] = json.RawMessage(data)
		}
	}

	for _, spec := range g.schema.Stores {
		records, err := g.scanRecords(ctx, spec, nil)
		if err != nil {
			return nil, err
		}
		snap.Stores[spec.Name] = records
	}

	return snap, nil
}

// Import replaces the gateway's contents with the snapshot. Stores not
// declared in the schema are rejected before anything is written.
func (g *Gateway) Import(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return ErrInvalidSnapshot
	}
	for name := range snap.Stores {
		if _, ok := g.schema.spec(name); !ok {
			return fmt.Errorf("%w: store %q not in schema", ErrInvalidSnapshot, name)
		}
	}

	if err := g.ClearEphemeral(); err != nil {
		return err
	}
	for key, data := range snap.Ephemeral {
		if err := g.kv.Set(g.nsKey(key), data); err != nil {
			return err
		}
	}

	for name, records := range snap.Stores {
		spec, _ := g.schema.spec(name)
		if err := g.clearStore(ctx, spec); err != nil {
			return err
		}
		for _, rec := range records {
			if err := g.putRecord(ctx, spec, rec); err != nil {
				return err
			}
		}
	}

	return nil
}
