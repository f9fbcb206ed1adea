package clusterhealth

import "time"

// SetNow overrides the clock used to name jobs.
func (c *Checker) SetNow(now func() time.Time) {
	c.now = now
}
