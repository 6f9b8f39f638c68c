package fallbackcache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run on the caller's
// goroutine in the middle of Get/Delete.
type Hooks interface {
	// The primary operation failed and the fallback store is being consulted.
	PrimaryFailed(key string, err error)

	// A stored value was served in place of a failed primary.
	FallbackHit(key string)

	// Nothing was stored. secondary reports whether a secondary operation
	// takes over; otherwise the primary's error is returned.
	FallbackMiss(key string, secondary bool)

	// The primary succeeded but the fallback entry could not be replaced.
	RefreshError(key string, err error)

	// The store dropped an entry on read.
	// reason ∈ {"corrupt", "gen_mismatch", "value_decode"}
	SelfHeal(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/admission).
	ProviderSetRejected(storageKey string)

	// GenStore errors.
	GenSnapshotError(storageKey string, err error)
	GenBumpError(storageKey string, err error)

	// Both the gen bump and the provider delete failed (likely backend outage).
	DeleteOutage(key string, bumpErr, delErr error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) PrimaryFailed(string, error)       {}
func (NopHooks) FallbackHit(string)                {}
func (NopHooks) FallbackMiss(string, bool)         {}
func (NopHooks) RefreshError(string, error)        {}
func (NopHooks) SelfHeal(string, string)           {}
func (NopHooks) ProviderSetRejected(string)        {}
func (NopHooks) GenSnapshotError(string, error)    {}
func (NopHooks) GenBumpError(string, error)        {}
func (NopHooks) DeleteOutage(string, error, error) {}
