package services

import "sync"

// Control models a button: it triggers its action only while visible and
// enabled, and disables itself for the duration of the action.
type Control struct {
	mu      sync.Mutex
	name    string
	visible bool
	enabled bool
}

func newControl(name string, visible, enabled bool) *Control {
	return &Control{name: name, visible: visible, enabled: enabled}
}

func (c *Control) Name() string { return c.name }

func (c *Control) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

func (c *Control) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// acquire disables the control and reports whether the press was accepted.
func (c *Control) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.visible || !c.enabled {
		return false
	}
	c.enabled = false
	return true
}

func (c *Control) enable() {
	c.mu.Lock()
	c.enabled = true
	c.mu.Unlock()
}

func (c *Control) show() {
	c.mu.Lock()
	c.visible = true
	c.mu.Unlock()
}

func (c *Control) hide() {
	c.mu.Lock()
	c.visible = false
	c.mu.Unlock()
}
