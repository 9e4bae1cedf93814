package metrics

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncUserSignedUp()       {}
func (NoopRecorder) IncUserLoggedIn()       {}
func (NoopRecorder) IncProfileCacheHit()    {}
func (NoopRecorder) IncProfileCacheMiss()   {}
func (NoopRecorder) IncTransactionCreated() {}
func (NoopRecorder) IncTransactionDeleted() {}
