// Package gesture interprets an abstract stream of pointer events as
// semantic actions: tap, directional swipe, and long-press.
//
// The recognizer is a pure state machine. It holds no timers and knows
// nothing about any UI toolkit: the presentation layer adapts real pointer
// input into Start/Move/End/Cancel events, and delivers a Timer event when
// the long-press delay it scheduled at Start elapses. Each touch sequence
// gets a session number so a stale timer from an earlier sequence is
// ignored.
//
// One sequence at a time. A second Start while a sequence is active is
// treated as cancellation of the first; no action is committed.
package gesture

// EventKind discriminates pointer events.
type EventKind int

const (
	EventStart EventKind = iota
	EventMove
	EventEnd
	EventCancel
	EventTimer // long-press timer fired; Seq selects the session
)

// Event is one abstract pointer event. Start carries the target item
// identity and its rendered width; Move/End carry the current point.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Target string
	Width  float64
	Seq    int
}

// Axis is the locked drag direction for the remainder of a sequence.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

// Action is the semantic outcome of a sequence.
type Action int

const (
	ActionNone Action = iota
	ActionTap             // primary action: mark read and open
	ActionToggleRead      // right swipe past threshold
	ActionToggleStar      // short left swipe past threshold
	ActionToggleReadLater // long left swipe
	ActionOpenMenu        // long-press context menu
)

// Haptic is the feedback pulse attached to a result.
type Haptic int

const (
	HapticNone Haptic = iota
	HapticLight  // first threshold crossing during a drag
	HapticMedium // committed swipe action
)

// Result is what one event produced. The zero value means "nothing".
type Result struct {
	Action Action
	Target string
	Haptic Haptic
}

// Config holds the recognizer thresholds.
type Config struct {
	SwipeThreshold     float64 // fraction of item width that commits a swipe
	LongSwipeThreshold float64 // fraction that upgrades left swipe to read-later
	JitterPx           float64 // movement below this locks no axis
}

// DefaultConfig returns the tuned thresholds.
func DefaultConfig() Config {
	return Config{
		SwipeThreshold:     0.3,
		LongSwipeThreshold: 0.6,
		JitterPx:           10,
	}
}

// Recognizer tracks one pointer sequence at a time.
type Recognizer struct {
	cfg Config

	seq     int
	active  bool
	target  string
	width   float64
	originX float64
	originY float64
	dx      float64
	dy      float64
	axis    Axis

	hapticFired    bool // light pulse fires once per sequence
	longPressFired bool // disables swipe commit and tap for the sequence
}

// New creates a Recognizer. Zero thresholds fall back to defaults.
func New(cfg Config) *Recognizer {
	def := DefaultConfig()
	if cfg.SwipeThreshold == 0 {
		cfg.SwipeThreshold = def.SwipeThreshold
	}
	if cfg.LongSwipeThreshold == 0 {
		cfg.LongSwipeThreshold = def.LongSwipeThreshold
	}
	if cfg.JitterPx == 0 {
		cfg.JitterPx = def.JitterPx
	}
	return &Recognizer{cfg: cfg}
}

// Seq returns the current session number. The adapter stamps it on the
// long-press timer it schedules so only the matching session can fire.
func (r *Recognizer) Seq() int { return r.seq }

// Active reports whether a sequence is being tracked.
func (r *Recognizer) Active() bool { return r.active }

// Axis returns the locked axis for the active sequence.
func (r *Recognizer) Axis() Axis { return r.axis }

// Target returns the item under the active pointer, empty when idle.
func (r *Recognizer) Target() string {
	if !r.active {
		return ""
	}
	return r.target
}

// Offset returns the signed horizontal displacement, for rendering the
// drag preview. Zero unless the sequence is horizontal-locked.
func (r *Recognizer) Offset() float64 {
	if !r.active || r.axis != AxisHorizontal {
		return 0
	}
	return r.dx
}

// Progress returns |dx| / item width for a horizontal-locked sequence.
func (r *Recognizer) Progress() float64 {
	if !r.active || r.axis != AxisHorizontal || r.width <= 0 {
		return 0
	}
	return abs(r.dx) / r.width
}

// Preview returns the action the drag would commit if released now, for
// rendering the swipe affordance. Right previews read; left previews star
// below the long threshold and read-later at or above it.
func (r *Recognizer) Preview() Action {
	if r.Progress() < r.cfg.SwipeThreshold {
		return ActionNone
	}
	return r.commitAction()
}

// LongPressPending reports whether a timer fire would still open the menu.
func (r *Recognizer) LongPressPending() bool {
	return r.active && r.axis == AxisNone && !r.longPressFired
}

// Update feeds one event through the state machine and returns whatever
// it produced.
func (r *Recognizer) Update(ev Event) Result {
	switch ev.Kind {
	case EventStart:
		return r.start(ev)
	case EventMove:
		return r.move(ev)
	case EventEnd:
		return r.end()
	case EventCancel:
		r.reset()
		return Result{}
	case EventTimer:
		return r.timer(ev)
	}
	return Result{}
}

func (r *Recognizer) start(ev Event) Result {
	if r.active {
		// Multi-touch is not modeled: a second touch cancels the first.
		r.reset()
		return Result{}
	}
	r.active = true
	r.target = ev.Target
	r.width = ev.Width
	r.originX = ev.X
	r.originY = ev.Y
	r.dx = 0
	r.dy = 0
	r.axis = AxisNone
	r.hapticFired = false
	r.longPressFired = false
	return Result{}
}

func (r *Recognizer) move(ev Event) Result {
	if !r.active || r.longPressFired {
		return Result{}
	}

	r.dx = ev.X - r.originX
	r.dy = ev.Y - r.originY

	if r.axis == AxisNone {
		adx, ady := abs(r.dx), abs(r.dy)
		if adx <= r.cfg.JitterPx && ady <= r.cfg.JitterPx {
			return Result{}
		}
		// Any movement beyond jitter kills the long-press; the adapter's
		// timer becomes a no-op via the axis check in timer().
		if adx > ady {
			r.axis = AxisHorizontal
		} else {
			r.axis = AxisVertical
		}
	}

	if r.axis != AxisHorizontal {
		// Vertical lock means scroll; the recognizer defers.
		return Result{}
	}

	if !r.hapticFired && r.Progress() >= r.cfg.SwipeThreshold {
		r.hapticFired = true
		return Result{Haptic: HapticLight}
	}
	return Result{}
}

func (r *Recognizer) timer(ev Event) Result {
	if !r.active || ev.Seq != r.seq {
		return Result{}
	}
	if r.axis != AxisNone || r.longPressFired {
		return Result{}
	}
	// Long-press wins the sequence: swipe commit and the trailing tap are
	// both disabled.
	r.longPressFired = true
	return Result{Action: ActionOpenMenu, Target: r.target}
}

func (r *Recognizer) end() Result {
	if !r.active {
		return Result{}
	}
	target := r.target
	fired := r.longPressFired
	axis := r.axis
	progress := r.Progress()
	action := r.commitAction()
	r.reset()

	if fired {
		return Result{}
	}

	switch axis {
	case AxisHorizontal:
		if progress >= r.cfg.SwipeThreshold {
			return Result{Action: action, Target: target, Haptic: HapticMedium}
		}
		return Result{}
	case AxisVertical:
		// Scroll, never a swipe action.
		return Result{}
	default:
		return Result{Action: ActionTap, Target: target}
	}
}

// commitAction maps the current drag direction and distance to the action
// a release would commit. Threshold membership is decided at release time.
func (r *Recognizer) commitAction() Action {
	if r.dx > 0 {
		return ActionToggleRead
	}
	if r.Progress() >= r.cfg.LongSwipeThreshold {
		return ActionToggleReadLater
	}
	return ActionToggleStar
}

// reset ends the session. Bumping seq invalidates any timer still in
// flight for the old sequence.
func (r *Recognizer) reset() {
	r.seq++
	r.active = false
	r.target = ""
	r.width = 0
	r.dx = 0
	r.dy = 0
	r.axis = AxisNone
	r.hapticFired = false
	r.longPressFired = false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
