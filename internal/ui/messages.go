package ui

import "github.com/kmunkitt/skim/internal/repo"

// Messages for Bubble Tea

// CollectionLoadedMsg is sent when a repository load completes. Loads are
// applied in completion order: the last one to finish wins.
type CollectionLoadedMsg struct {
	Collection repo.Collection
}

// longPressMsg fires when the long-press timer for a gesture session
// elapses. Seq identifies the session; the recognizer drops stale timers.
type longPressMsg struct {
	Seq int
}

// revalidateTickMsg drives the periodic background revalidation check.
type revalidateTickMsg struct{}

// statusClearMsg clears a transient status flash.
type statusClearMsg struct{}

// frameMsg advances the swipe settle animation.
type frameMsg struct{}

// UpdateWaitingMsg announces that a new cache generation finished
// installing and is held waiting for the activation signal.
type UpdateWaitingMsg struct{}

// UpdateTookControlMsg is sent when a pending cache generation has taken
// control; the session reloads its content through the new generation.
type UpdateTookControlMsg struct {
	Generation int
}
