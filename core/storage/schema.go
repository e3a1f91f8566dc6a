package storage

// StoreSpec declares a named record store: the field records are keyed by
// and the fields that support indexed lookup.
type StoreSpec struct {
	Name     string
	KeyField string
	Indexes  []string
}

// Schema declares the structured tier. Opening a gateway creates any store
// missing from the database and leaves existing ones untouched; stores are
// only added when Version is bumped past the persisted version or on first
// run.
type Schema struct {
	Version int
	Stores  []StoreSpec
}

// DefaultSchema mirrors the stores the TechFix Pro client keeps offline.
func DefaultSchema() Schema {
	return Schema{
		Version: 1,
		Stores: []StoreSpec{
			{Name: "tickets", KeyField: "id", Indexes: []string{"status", "customer_id", "created_at"}},
			{Name: "spare_parts", KeyField: "id", Indexes: []string{"name", "category", "stock"}},
			{Name: "customers", KeyField: "id", Indexes: []string{"email", "phone"}},
			{Name: "users", KeyField: "id", Indexes: []string{"email"}},
			{Name: storeAPICache, KeyField: "key", Indexes: []string{"stored_at"}},
		},
	}
}

func (s Schema) spec(name string) (StoreSpec, bool) {
	for _, spec := range s.Stores {
		if spec.Name == name {
			return spec, true
		}
	}
	return StoreSpec{}, false
}
