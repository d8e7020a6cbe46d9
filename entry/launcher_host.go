//go:build !tinygo

package entry

// Host is a Launcher used by tests and host tooling: it records that a
// jump was requested instead of performing an unportable absolute jump.
type Host struct {
	Jumped bool
}

// NewHost returns a Launcher suitable for tests: Jump never terminates the
// process, only records that it was called.
func NewHost() *Host { return &Host{} }

func (l *Host) Jump() { l.Jumped = true }
