package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	bolt "go.etcd.io/bbolt"
)

// Record is a schemaless structured-tier record. Records are keyed by the
// value under their store's key field.
type Record map[string]any

// Key returns the record's key under the given key field, normalized to a
// string. Numeric identifiers from the backend arrive as json float64 and
// are rendered without an exponent.
func (r Record) Key(keyField string) (string, error) {
	v, ok := r[keyField]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %q", ErrMissingKey, keyField)
	}
	return normalizeKey(v), nil
}

func normalizeKey(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	default:
		return fmt.Sprint(k)
	}
}

var metaBucket = []byte("_meta")

// openBolt opens the database file and runs idempotent schema creation:
// missing buckets are created, existing ones are left untouched, and the
// persisted schema version is bumped when behind.
func openBolt(path string, schema Schema) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return fmt.Errorf("storage: failed to create meta bucket: %w", err)
		}

		stored := readVersion(meta)
		for _, spec := range schema.Stores {
			if _, err := tx.CreateBucketIfNotExists([]byte(spec.Name)); err != nil {
				return fmt.Errorf("storage: failed to create store %s: %w", spec.Name, err)
			}
		}

		if stored < schema.Version {
			return writeVersion(meta, schema.Version)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func readVersion(b *bolt.Bucket) int {
	raw := b.Get([]byte("schema_version"))
	if len(raw) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(raw))
}

func writeVersion(b *bolt.Bucket, version int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(version))
	return b.Put([]byte("schema_version"), buf)
}

func (g *Gateway) putRecord(ctx context.Context, spec StoreSpec, rec Record) error {
	key, err := rec.Key(spec.KeyField)
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("storage: failed to marshal record for %s: %w", spec.Name, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := g.database()
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(spec.Name)).Put([]byte(key), data)
	})
}

func (g *Gateway) getRecord(ctx context.Context, spec StoreSpec, key string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := g.database()
	if err != nil {
		return nil, err
	}

	var rec Record
	err = db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(spec.Name)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%w: %s/%s", ErrRecordNotFound, spec.Name, key)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *Gateway) scanRecords(ctx context.Context, spec StoreSpec, filter func(Record) bool) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := g.database()
	if err != nil {
		return nil, err
	}

	var records []Record
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(spec.Name)).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if filter == nil || filter(rec) {
				records = append(records, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (g *Gateway) deleteRecord(ctx context.Context, spec StoreSpec, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := g.database()
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(spec.Name)).Delete([]byte(key))
	})
}

func (g *Gateway) clearStore(ctx context.Context, spec StoreSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := g.database()
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(spec.Name)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(spec.Name))
		return err
	})
}
