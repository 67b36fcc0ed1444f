package gesture

import "testing"

// drag is a helper that runs a start + sequence of moves on a 100px item.
func drag(r *Recognizer, points ...[2]float64) []Result {
	results := []Result{r.Update(Event{Kind: EventStart, X: 0, Y: 0, Target: "b", Width: 100})}
	for _, p := range points {
		results = append(results, r.Update(Event{Kind: EventMove, X: p[0], Y: p[1]}))
	}
	return results
}

func TestSwipeRightCommitsToggleRead(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{35, 2})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionToggleRead {
		t.Errorf("expected ActionToggleRead, got %v", res.Action)
	}
	if res.Target != "b" {
		t.Errorf("expected target b, got %q", res.Target)
	}
	if res.Haptic != HapticMedium {
		t.Errorf("expected medium haptic on commit, got %v", res.Haptic)
	}
}

func TestThresholdBoundaryIsMet(t *testing.T) {
	// progress == 0.3 exactly: >= comparison, so the action commits.
	r := New(Config{})
	drag(r, [2]float64{30, 0})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionToggleRead {
		t.Errorf("progress exactly at threshold must commit, got %v", res.Action)
	}
}

func TestBelowThresholdNoAction(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{25, 0})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionNone {
		t.Errorf("expected no action below threshold, got %v", res.Action)
	}
}

func TestLeftShortSwipeTogglesStar(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{-40, 0})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionToggleStar {
		t.Errorf("expected ActionToggleStar, got %v", res.Action)
	}
}

func TestLeftLongSwipeTogglesReadLater(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{-60, 0})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionToggleReadLater {
		t.Errorf("expected ActionToggleReadLater at long threshold, got %v", res.Action)
	}
}

func TestLongThresholdDecidedAtRelease(t *testing.T) {
	// Drag past the long threshold, then back below it before release.
	r := New(Config{})
	drag(r, [2]float64{-70, 0}, [2]float64{-45, 0})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionToggleStar {
		t.Errorf("release position decides the action, got %v", res.Action)
	}
}

func TestLightHapticFiresOncePerSequence(t *testing.T) {
	r := New(Config{})
	results := drag(r,
		[2]float64{35, 0}, // crosses threshold
		[2]float64{20, 0}, // back below
		[2]float64{40, 0}, // re-crosses
	)

	light := 0
	for _, res := range results {
		if res.Haptic == HapticLight {
			light++
		}
	}
	if light != 1 {
		t.Errorf("expected exactly one light pulse, got %d", light)
	}
}

func TestVerticalLockNeverSwipes(t *testing.T) {
	r := New(Config{})
	// Lock vertical first, then move far horizontally.
	drag(r, [2]float64{0, 30}, [2]float64{90, 30})

	if r.Axis() != AxisVertical {
		t.Fatalf("expected vertical lock, got %v", r.Axis())
	}

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionNone {
		t.Errorf("vertical-locked sequence must never swipe, got %v", res.Action)
	}
}

func TestJitterDoesNotLockAxis(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{5, 3})

	if r.Axis() != AxisNone {
		t.Errorf("movement inside jitter must not lock an axis, got %v", r.Axis())
	}
}

func TestTapOnQuietSequence(t *testing.T) {
	r := New(Config{})
	r.Update(Event{Kind: EventStart, Target: "a", Width: 100})

	res := r.Update(Event{Kind: EventEnd})
	if res.Action != ActionTap || res.Target != "a" {
		t.Errorf("expected tap on a, got %v/%q", res.Action, res.Target)
	}
}

func TestLongPressOpensMenu(t *testing.T) {
	r := New(Config{})
	r.Update(Event{Kind: EventStart, Target: "a", Width: 100})

	res := r.Update(Event{Kind: EventTimer, Seq: r.Seq()})
	if res.Action != ActionOpenMenu || res.Target != "a" {
		t.Errorf("expected menu for a, got %v/%q", res.Action, res.Target)
	}

	// A release afterward commits nothing, even after horizontal movement.
	r.Update(Event{Kind: EventMove, X: 50})
	end := r.Update(Event{Kind: EventEnd})
	if end.Action != ActionNone {
		t.Errorf("long-press disables swipe commit and tap, got %v", end.Action)
	}
}

func TestMovementCancelsLongPress(t *testing.T) {
	r := New(Config{})
	seq := 0
	r.Update(Event{Kind: EventStart, Target: "a", Width: 100})
	seq = r.Seq()
	r.Update(Event{Kind: EventMove, X: 15})

	res := r.Update(Event{Kind: EventTimer, Seq: seq})
	if res.Action != ActionNone {
		t.Errorf("timer after axis lock must be ignored, got %v", res.Action)
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	r := New(Config{})
	r.Update(Event{Kind: EventStart, Target: "a", Width: 100})
	stale := r.Seq()
	r.Update(Event{Kind: EventEnd})

	r.Update(Event{Kind: EventStart, Target: "b", Width: 100})
	res := r.Update(Event{Kind: EventTimer, Seq: stale})
	if res.Action != ActionNone {
		t.Errorf("timer from a previous session must be ignored, got %v", res.Action)
	}
}

func TestCancelResetsWithoutAction(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{40, 0})

	res := r.Update(Event{Kind: EventCancel})
	if res.Action != ActionNone || res.Haptic != HapticNone {
		t.Errorf("cancel must be silent, got %+v", res)
	}
	if r.Active() {
		t.Error("expected recognizer to be idle after cancel")
	}
}

func TestSecondTouchCancelsFirst(t *testing.T) {
	r := New(Config{})
	drag(r, [2]float64{40, 0})

	res := r.Update(Event{Kind: EventStart, Target: "other", Width: 100})
	if res.Action != ActionNone {
		t.Errorf("second touch must not commit anything, got %v", res.Action)
	}
	end := r.Update(Event{Kind: EventEnd})
	if end.Action != ActionNone {
		t.Errorf("cancelled sequence must not act on release, got %v", end.Action)
	}
}

func TestPreviewAffordances(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		want Action
	}{
		{"below threshold", 20, ActionNone},
		{"right", 35, ActionToggleRead},
		{"left short", -35, ActionToggleStar},
		{"left long", -65, ActionToggleReadLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{})
			drag(r, [2]float64{tt.dx, 0})
			if got := r.Preview(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
