package demo

import (
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
)

// Record is one row of the repository.
type Record struct {
	Key   string `yaml:"key"`
	Value int    `yaml:"value"`
}

// Repository is the slow tier consulted on cache misses.
type Repository interface {
	Load(key string) (Record, bool, error)
	InsertIfAbsent(rec Record) (bool, error)
}

const (
	recordTable = "record"
	recordIndex = "id"
)

func recordSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			recordTable: {
				Name: recordTable,
				Indexes: map[string]*memdb.IndexSchema{
					recordIndex: {
						Name:    recordIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

// MemDBRepository keeps records in a go-memdb table indexed by key.
type MemDBRepository struct {
	db *memdb.MemDB
}

// NewMemDBRepository returns an empty repository.
func NewMemDBRepository() (*MemDBRepository, error) {
	db, err := memdb.NewMemDB(recordSchema())
	if err != nil {
		return nil, fmt.Errorf("memdb repository: %w", err)
	}
	return &MemDBRepository{db: db}, nil
}

func (m *MemDBRepository) Load(key string) (Record, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(recordTable, recordIndex, key)
	if err != nil || raw == nil {
		return Record{}, false, err
	}
	return *raw.(*Record), true, nil
}

func (m *MemDBRepository) InsertIfAbsent(rec Record) (bool, error) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	old, err := txn.First(recordTable, recordIndex, rec.Key)
	if err != nil {
		return false, err
	} else if old != nil {
		return false, nil
	}

	if err := txn.Insert(recordTable, &rec); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}
