// Package leaktest holds goroutine leak checks shared by concurrency tests
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker helps detect goroutine leaks
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	// Allow time for background goroutines to stabilize
	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check verifies that goroutine count hasn't increased by more than tolerance
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	// Allow time for goroutines to finish
	runtime.Gosched()
	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	time.Sleep(50 * time.Millisecond)

	after := runtime.NumGoroutine()
	leaked := after - g.before

	if leaked > tolerance {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, leaked, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and fails the test if it left goroutines behind
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
