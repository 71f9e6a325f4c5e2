package store

import (
	"sync/atomic"

	"github.com/parth238/VibraVision/internal/modules/telemetry/types"
)

// TelemetryStore holds the single latest telemetry record.
type TelemetryStore interface {
	Get() types.Record
	Set(record types.Record)
}

type memoryStore struct {
	current atomic.Pointer[types.Record]
}

// NewMemoryStore returns a store seeded with the waiting placeholder.
// Set swaps the whole record, so readers never see fields from two different ingests.
func NewMemoryStore() TelemetryStore {
	s := &memoryStore{}
	initial := types.InitialRecord()
	s.current.Store(&initial)
	return s
}

func (s *memoryStore) Get() types.Record {
	return *s.current.Load()
}

func (s *memoryStore) Set(record types.Record) {
	s.current.Store(&record)
}
