package article

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched by every acquisition failure
var ErrFetchFailed = errors.New("article fetch failed")

// FetchError describes why an article could not be retrieved
type FetchError struct {
	URL        string
	StatusCode int // Non-zero when the server answered with a non-2xx status
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetchFailed) true for any FetchError
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
