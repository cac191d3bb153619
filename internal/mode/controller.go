// Package mode implements the display mode state machine for the
// dashboard surface. The machine runs for the life of the session:
//
//	ambient --(activity)--> interaction            [schedule return timer]
//	interaction --(activity)--> interaction        [reschedule, debounce]
//	interaction --(idle timeout)--> ambient
//	ambient|interaction --(enter edit)--> edit     [cancel timer]
//	edit --(exit edit)--> interaction              [schedule timer]
//	(calibration mirrors edit)
//
// Edit and calibration are only reachable via explicit calls, never via
// the idle timer. All operations are total; there is no error state.
package mode

import (
	"log/slog"
	"sync"
	"time"

	"driftboard/internal/types"
)

// Listener observes mode transitions. Entering or leaving ambient is
// the only change collaborators need to react to (widgets suppress
// animation and polling while ambient), but listeners receive every
// transition.
type Listener func(from, to types.Mode)

// Controller owns the current display mode and the activity-driven
// transition rules. It is safe for concurrent use; at most one
// ambient-return timer is pending at any time.
type Controller struct {
	idleTimeout time.Duration
	scheduler   Scheduler
	logger      *slog.Logger

	mu        sync.Mutex
	mode      types.Mode
	pending   TimerHandle
	listeners []Listener
	queued    []transition
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler overrides the timer scheduler. Intended for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// NewController creates a Controller starting in ambient mode.
func NewController(idleTimeout time.Duration, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		idleTimeout: idleTimeout,
		scheduler:   RealScheduler{},
		logger:      logger,
		mode:        types.ModeAmbient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current display mode.
func (c *Controller) Mode() types.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// IsAmbient reports whether the display is in the passive ambient state.
func (c *Controller) IsAmbient() bool {
	return c.Mode() == types.ModeAmbient
}

// Subscribe registers a listener for mode transitions. Listeners are
// invoked synchronously, outside the controller lock, in registration
// order.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// RecordActivity signals a user input event. From ambient it enters
// interaction and schedules the return timer; from interaction it
// replaces the pending deadline (a debounce, not an accumulation). It
// is a no-op in edit and calibration.
func (c *Controller) RecordActivity() {
	c.mu.Lock()
	switch c.mode {
	case types.ModeAmbient:
		c.transitionLocked(types.ModeInteraction)
		c.scheduleReturnLocked()
	case types.ModeInteraction:
		c.scheduleReturnLocked()
	default:
		// Held modes ignore activity.
		c.mu.Unlock()
		return
	}
	c.notifyUnlock()
}

// EnterEdit cancels any pending ambient-return timer and force-sets the
// mode to edit, regardless of prior mode. Calling while already in edit
// is a no-op with no timer side effects.
func (c *Controller) EnterEdit() { c.enterHeld(types.ModeEdit) }

// ExitEdit sets the mode to interaction and schedules a fresh
// ambient-return timer: leaving edit behaves like one fresh activity
// event.
func (c *Controller) ExitEdit() { c.exitHeld() }

// ToggleEdit exits edit if currently editing, otherwise enters it. The
// decision and the transition happen under one lock acquisition, so
// concurrent toggles strictly alternate.
func (c *Controller) ToggleEdit() {
	c.mu.Lock()
	if c.mode == types.ModeEdit {
		c.transitionLocked(types.ModeInteraction)
		c.scheduleReturnLocked()
	} else {
		c.cancelReturnLocked()
		c.transitionLocked(types.ModeEdit)
	}
	c.notifyUnlock()
}

// EnterCalibration mirrors EnterEdit with calibration as the held mode.
func (c *Controller) EnterCalibration() { c.enterHeld(types.ModeCalibration) }

// ExitCalibration mirrors ExitEdit.
func (c *Controller) ExitCalibration() { c.exitHeld() }

// enterHeld moves into a held mode (edit or calibration), cancelling
// any pending return timer.
func (c *Controller) enterHeld(target types.Mode) {
	c.mu.Lock()
	if c.mode == target {
		c.mu.Unlock()
		return
	}
	c.cancelReturnLocked()
	c.transitionLocked(target)
	c.notifyUnlock()
}

// exitHeld leaves a held mode into interaction with a fresh timer.
func (c *Controller) exitHeld() {
	c.mu.Lock()
	c.transitionLocked(types.ModeInteraction)
	c.scheduleReturnLocked()
	c.notifyUnlock()
}

// scheduleReturnLocked replaces the pending ambient-return deadline.
// Each scheduling call first clears the previous one, so at most one
// live timer exists per controller.
func (c *Controller) scheduleReturnLocked() {
	c.cancelReturnLocked()

	var handle TimerHandle
	handle = c.scheduler.AfterFunc(c.idleTimeout, func() {
		c.onIdleDeadline(handle)
	})
	c.pending = handle
}

// cancelReturnLocked stops the pending timer, if any.
func (c *Controller) cancelReturnLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// onIdleDeadline fires when the idle deadline elapses. A fire that lost
// the race with a reschedule or a held-mode entry is discarded: only
// the currently pending handle may drive the return to ambient, and
// only from interaction.
func (c *Controller) onIdleDeadline(handle TimerHandle) {
	c.mu.Lock()
	if c.pending != handle || c.mode != types.ModeInteraction {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.transitionLocked(types.ModeAmbient)
	c.notifyUnlock()
}

// transitionLocked records the mode change and queues listener
// notification. Caller holds the lock.
func (c *Controller) transitionLocked(to types.Mode) {
	from := c.mode
	c.mode = to
	c.logger.Debug("mode transition",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	c.queued = append(c.queued, transition{from: from, to: to})
}

// transition is a queued listener notification.
type transition struct {
	from, to types.Mode
}

// notifyUnlock delivers queued transitions to listeners after releasing
// the lock, so listeners may call back into the controller.
func (c *Controller) notifyUnlock() {
	queued := c.queued
	c.queued = nil
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, tr := range queued {
		for _, l := range listeners {
			l(tr.from, tr.to)
		}
	}
}
