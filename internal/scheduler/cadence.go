package scheduler

// Cadence throttles work to once every Every calls.
type Cadence struct {
	Every int
	count int
}

// NewCadence returns a cadence firing every n calls (n < 1 means every call).
func NewCadence(n int) Cadence {
	if n < 1 {
		n = 1
	}
	return Cadence{Every: n}
}

// Due counts a call and reports whether this call is the Nth one.
func (c *Cadence) Due() bool {
	every := c.Every
	if every < 1 {
		every = 1
	}
	c.count++
	if c.count >= every {
		c.count = 0
		return true
	}
	return false
}

// Reset restarts the count.
func (c *Cadence) Reset() { c.count = 0 }
