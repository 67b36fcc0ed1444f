package gesture

// PullTracker recognizes the pull-to-refresh gesture: a downward drag
// starting at scroll-top that travels past a fixed distance. It runs
// alongside the swipe recognizer and only observes vertical motion.
type PullTracker struct {
	distance float64
	startY   float64
	pulling  bool
	armed    bool
}

// DefaultPullDistance is the drag distance that arms the refresh.
const DefaultPullDistance = 50

// NewPullTracker creates a tracker. A non-positive distance falls back to
// the default.
func NewPullTracker(distance float64) *PullTracker {
	if distance <= 0 {
		distance = DefaultPullDistance
	}
	return &PullTracker{distance: distance}
}

// Start begins tracking if the viewport is at scroll-top; otherwise the
// sequence is ignored.
func (p *PullTracker) Start(y float64, atTop bool) {
	p.pulling = atTop
	p.armed = false
	if atTop {
		p.startY = y
	}
}

// Move updates the drag and reports whether the refresh is armed.
func (p *PullTracker) Move(y float64) bool {
	if !p.pulling {
		return false
	}
	p.armed = y-p.startY > p.distance
	return p.armed
}

// Armed reports whether releasing now would trigger a refresh.
func (p *PullTracker) Armed() bool { return p.armed }

// End finishes the sequence and reports whether a refresh should run.
func (p *PullTracker) End() bool {
	triggered := p.pulling && p.armed
	p.pulling = false
	p.armed = false
	return triggered
}

// Cancel abandons the sequence without triggering.
func (p *PullTracker) Cancel() {
	p.pulling = false
	p.armed = false
}
