package abtasty

import "time"

// SetTokenExpiry overrides the cached token's expiry. Test hook only.
func (c *Client) SetTokenExpiry(at time.Time) {
	c.mu.Lock()
	c.expiresAt = at
	c.mu.Unlock()
}
