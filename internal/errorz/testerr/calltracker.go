// Package testerr helps tests simulate dependencies that fail part way
// through a sequence of calls.
package testerr

import "errors"

// Err is the error returned by failing calls.
var Err = errors.New("test error")

// Calltracker tracks calls to a dependency and decides which ones fail.
// The zero value is ready to use and will never fail.
type Calltracker struct {
	CallIndex         int
	ShouldFail        bool
	Err               error
	FailAllAfterIndex bool
	FailAtIndex       int
}

// NewFailingDeps creates calltrackers that fail at every point in a
// sequence of expectCalls calls. Each point is covered twice:
// - A single failure, then all calls after succesful.
// - All calls fail after a number of succesful calls.
func NewFailingDeps(err error, expectCalls int) []Calltracker {
	trackers := make([]Calltracker, 0, expectCalls*2)
	for i := 0; i < expectCalls; i++ {
		trackers = append(trackers, Calltracker{
			CallIndex:         -1,
			ShouldFail:        true,
			Err:               err,
			FailAllAfterIndex: true,
			FailAtIndex:       i,
		}, Calltracker{
			CallIndex:         -1,
			ShouldFail:        true,
			Err:               err,
			FailAllAfterIndex: false,
			FailAtIndex:       i,
		})
	}

	return trackers
}

// next registers a call and reports if it should fail.
func (ct *Calltracker) next() bool {
	if !ct.ShouldFail {
		return false
	}

	ct.CallIndex++

	if ct.FailAtIndex == ct.CallIndex {
		return true
	}

	return ct.FailAllAfterIndex && ct.CallIndex > ct.FailAtIndex
}

// MaybeFailErrFunc returns the tracker error instead of calling f when
// this call is meant to fail.
func MaybeFailErrFunc(ct *Calltracker, f func() error) error {
	if ct.next() {
		return ct.Err
	}

	return f()
}

// MaybeFail returns the tracker error instead of calling f when
// this call is meant to fail.
func MaybeFail[T any](ct *Calltracker, f func() (T, error)) (T, error) {
	if ct.next() {
		var zero T
		return zero, ct.Err
	}

	return f()
}
