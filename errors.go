package fallbackcache

import (
	"errors"
	"fmt"
)

var (
	ErrNilStore = errors.New("fallbackcache: fallback store is required")
	ErrEmptyKey = errors.New("fallbackcache: empty key")
)

// DeleteError is returned by ReadThrough.Delete when neither the generation
// bump nor the provider delete went through, so the entry may still be served.
type DeleteError struct {
	Key     string
	BumpErr error
	DelErr  error
}

func (e *DeleteError) Error() string {
	switch {
	case e.BumpErr != nil && e.DelErr != nil:
		return fmt.Sprintf("delete %q failed: gen bump and provider delete failed: bump=%v; delete=%v",
			e.Key, e.BumpErr, e.DelErr)
	case e.BumpErr != nil:
		return fmt.Sprintf("delete %q: gen bump failed: %v", e.Key, e.BumpErr)
	case e.DelErr != nil:
		return fmt.Sprintf("delete %q: provider delete failed: %v", e.Key, e.DelErr)
	default:
		return fmt.Sprintf("delete %q: unknown error", e.Key)
	}
}

func (e *DeleteError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.DelErr != nil {
		errs = append(errs, e.DelErr)
	}
	return errs
}
