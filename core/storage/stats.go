package storage

import "context"

// Usage reports what the gateway currently holds: the number of namespaced
// ephemeral entries, their encoded size, and the record count per store.
type Usage struct {
	EphemeralKeys  int            `json:"ephemeral_keys"`
	EphemeralBytes int            `json:"ephemeral_bytes"`
	Records        map[string]int `json:"records"`
}

// Stats enumerates both tiers. Intended for diagnostics views and backup
// size estimates, not for hot paths: every store is scanned.
func (g *Gateway) Stats(ctx context.Context) (Usage, error) {
	usage := Usage{Records: make(map[string]int, len(g.schema.Stores))}

	keys, err := g.kv.Keys(g.cfg.Namespace + "_")
	if err != nil {
		return Usage{}, err
	}
	usage.EphemeralKeys = len(keys)
	for _, key := range keys {
		data, ok, err := g.kv.Get(key)
		if err != nil {
			return Usage{}, err
		}
		if ok {
			usage.EphemeralBytes += len(data)
		}
	}

	for _, spec := range g.schema.Stores {
		records, err := g.scanRecords(ctx, spec, nil)
		if err != nil {
			return Usage{}, err
		}
		usage.Records[spec.Name] = len(records)
	}

	return usage, nil
}
