package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersSignedUp       uint64
	UsersLoggedIn       uint64
	ProfileCacheHits    uint64
	ProfileCacheMisses  uint64
	TransactionsCreated uint64
	TransactionsDeleted uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersSignedUp       uint64
	usersLoggedIn       uint64
	profileCacheHits    uint64
	profileCacheMisses  uint64
	transactionsCreated uint64
	transactionsDeleted uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersSignedUp:       atomic.LoadUint64(&m.usersSignedUp),
		UsersLoggedIn:       atomic.LoadUint64(&m.usersLoggedIn),
		ProfileCacheHits:    atomic.LoadUint64(&m.profileCacheHits),
		ProfileCacheMisses:  atomic.LoadUint64(&m.profileCacheMisses),
		TransactionsCreated: atomic.LoadUint64(&m.transactionsCreated),
		TransactionsDeleted: atomic.LoadUint64(&m.transactionsDeleted),
	}
}

func (m *InMemoryRecorder) IncUserSignedUp()       { atomic.AddUint64(&m.usersSignedUp, 1) }
func (m *InMemoryRecorder) IncUserLoggedIn()       { atomic.AddUint64(&m.usersLoggedIn, 1) }
func (m *InMemoryRecorder) IncProfileCacheHit()    { atomic.AddUint64(&m.profileCacheHits, 1) }
func (m *InMemoryRecorder) IncProfileCacheMiss()   { atomic.AddUint64(&m.profileCacheMisses, 1) }
func (m *InMemoryRecorder) IncTransactionCreated() { atomic.AddUint64(&m.transactionsCreated, 1) }
func (m *InMemoryRecorder) IncTransactionDeleted() { atomic.AddUint64(&m.transactionsDeleted, 1) }
