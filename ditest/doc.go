// Package ditest provides helpers for testing code wired with di.
//
// The helper owns a registry and a resolver whose cache is reset when the
// test ends:
//
//	func TestDrive(t *testing.T) {
//	    h := ditest.T(t)
//	    ditest.Provide[*Engine](h, NewEngine, di.Cached())
//	    res := h.MustInject(drive)
//	    ...
//	}
//
// Counter and Recorder are small concurrency-safe fakes for counting
// constructor calls and recording the order of lifecycle events.
package ditest
