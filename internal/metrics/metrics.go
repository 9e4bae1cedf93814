// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder receives counters from the service layer.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncUserSignedUp()
	IncUserLoggedIn()
	IncProfileCacheHit()
	IncProfileCacheMiss()
	IncTransactionCreated()
	IncTransactionDeleted()
}
