package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by the generator/validator unit
// tests and by component tests that don't need a real Postgres instance.
// Grounded on the teacher's in-memory proposalStore TTL cache
// (internal/service/schedule_generator_service.go), generalized from a
// single-purpose cache into the full Store contract.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]map[string]Row // partition -> rowKey -> row
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]map[string]Row)}
}

func (m *MemoryStore) Get(_ context.Context, partition, rowKey string) (Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	part, ok := m.rows[partition]
	if !ok {
		return Row{}, ErrNotFound
	}
	row, ok := part[rowKey]
	if !ok {
		return Row{}, ErrNotFound
	}
	return cloneRow(row), nil
}

func (m *MemoryStore) Upsert(_ context.Context, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	part, ok := m.rows[row.Partition]
	if !ok {
		part = make(map[string]Row)
		m.rows[row.Partition] = part
	}
	part[row.RowKey] = cloneRow(row)
	return nil
}

func (m *MemoryStore) UpdateIfMatch(_ context.Context, row Row, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	part, ok := m.rows[row.Partition]
	if !ok {
		return ErrNotFound
	}
	existing, ok := part[row.RowKey]
	if !ok {
		return ErrNotFound
	}
	if existing.Version != expectedVersion {
		return &PreconditionFailedError{Partition: row.Partition, RowKey: row.RowKey, Expected: expectedVersion, Actual: existing.Version}
	}
	part[row.RowKey] = cloneRow(row)
	return nil
}

func (m *MemoryStore) QueryByPartition(_ context.Context, partition string, filter Filter) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	part, ok := m.rows[partition]
	if !ok {
		return nil, nil
	}
	return sortedMatching(part, filter), nil
}

func (m *MemoryStore) QueryAcrossPartitions(_ context.Context, filter Filter) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var partitions []string
	for p := range m.rows {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)

	var out []Row
	for _, p := range partitions {
		out = append(out, sortedMatching(m.rows[p], filter)...)
	}
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, partition, rowKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	part, ok := m.rows[partition]
	if !ok {
		return ErrNotFound
	}
	if _, ok := part[rowKey]; !ok {
		return ErrNotFound
	}
	delete(part, rowKey)
	return nil
}

func sortedMatching(part map[string]Row, filter Filter) []Row {
	keys := make([]string, 0, len(part))
	for k := range part {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Row, 0, len(keys))
	for _, k := range keys {
		row := part[k]
		if filter == nil || filter(row) {
			out = append(out, cloneRow(row))
		}
	}
	return out
}

func cloneRow(row Row) Row {
	data := make([]byte, len(row.Data))
	copy(data, row.Data)
	return Row{Partition: row.Partition, RowKey: row.RowKey, Version: row.Version, Data: data}
}
