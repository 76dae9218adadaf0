//go:build !hexgendebug

package par

// Guard is a no-op outside hexgendebug builds. Methods on a nil *Guard are
// valid, so stages can hold one unconditionally.
type Guard struct{}

// NewGuard returns nil in release builds; all methods tolerate nil.
func NewGuard(stage string, size int) *Guard { return nil }

// Count is a no-op.
func (g *Guard) Count(n int) {}

// Exceeded always reports false in release builds.
func (g *Guard) Exceeded() bool { return false }

// Check is a no-op.
func (g *Guard) Check() {}
