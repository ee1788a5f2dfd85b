package tray

import "sync"

// IconCell owns the tray icon and releases it exactly once
type IconCell struct {
	mu       sync.Mutex
	release  func()
	released bool
}

// NewIconCell wraps the function that tears the icon down
func NewIconCell(release func()) *IconCell {
	return &IconCell{release: release}
}

// Release removes the icon. It reports whether this call did the release;
// later calls do nothing.
func (c *IconCell) Release() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return false
	}
	c.released = true
	if c.release != nil {
		c.release()
	}
	return true
}

func (c *IconCell) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}
