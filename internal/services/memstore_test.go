package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/models"
)

// memStore is an in-memory Store double for service tests. It mirrors
// the merge-update and transaction semantics of the SQL store: a
// transaction works on a deep copy and only replaces the live data on
// success. failOn, when set, injects an error before the named
// operation to exercise rollback paths.
type memStore struct {
	mu     sync.Mutex
	data   map[string]map[string][]byte
	failOn func(op, collection, id string) error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]map[string][]byte)}
}

func (m *memStore) put(collection, id string, doc interface{}) {
	body, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[string][]byte)
	}
	m.data[collection][id] = body
}

func (m *memStore) fail(op, collection, id string) error {
	if m.failOn != nil {
		return m.failOn(op, collection, id)
	}
	return nil
}

func (m *memStore) List(ctx context.Context, collection string) ([]database.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("list", collection, ""); err != nil {
		return nil, err
	}
	records := make([]database.Record, 0, len(m.data[collection]))
	for id, body := range m.data[collection] {
		records = append(records, database.Record{ID: id, Data: append([]byte(nil), body...)})
	}
	sortRecords(records)
	return records, nil
}

func (m *memStore) Get(ctx context.Context, collection, id string) (database.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("get", collection, id); err != nil {
		return database.Record{}, err
	}
	body, ok := m.data[collection][id]
	if !ok {
		return database.Record{}, &models.NotFoundError{Collection: collection, ID: id}
	}
	return database.Record{ID: id, Data: append([]byte(nil), body...)}, nil
}

func (m *memStore) QueryEq(ctx context.Context, collection, field, value string) ([]database.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("query", collection, ""); err != nil {
		return nil, err
	}
	records := make([]database.Record, 0)
	for id, body := range m.data[collection] {
		var doc map[string]interface{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		if fieldValue, ok := doc[field]; ok && fmt.Sprintf("%v", fieldValue) == value {
			records = append(records, database.Record{ID: id, Data: append([]byte(nil), body...)})
		}
	}
	sortRecords(records)
	return records, nil
}

func (m *memStore) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("insert", collection, id); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if m.data[collection] == nil {
		m.data[collection] = make(map[string][]byte)
	}
	m.data[collection][id] = body
	return nil
}

func (m *memStore) Update(ctx context.Context, collection, id string, patch interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update", collection, id); err != nil {
		return err
	}
	body, ok := m.data[collection][id]
	if !ok {
		return &models.NotFoundError{Collection: collection, ID: id}
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	patchBody, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	var patchDoc map[string]interface{}
	if err := json.Unmarshal(patchBody, &patchDoc); err != nil {
		return err
	}
	for key, value := range patchDoc {
		doc[key] = value
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data[collection][id] = merged
	return nil
}

func (m *memStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete", collection, id); err != nil {
		return err
	}
	if _, ok := m.data[collection][id]; !ok {
		return &models.NotFoundError{Collection: collection, ID: id}
	}
	delete(m.data[collection], id)
	return nil
}

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx database.Store) error) error {
	m.mu.Lock()
	clone := make(map[string]map[string][]byte, len(m.data))
	for collection, docs := range m.data {
		clone[collection] = make(map[string][]byte, len(docs))
		for id, body := range docs {
			clone[collection][id] = append([]byte(nil), body...)
		}
	}
	m.mu.Unlock()

	tx := &memStore{data: clone, failOn: m.failOn}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = tx.data
	m.mu.Unlock()
	return nil
}

func sortRecords(records []database.Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}
