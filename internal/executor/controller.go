package executor

import (
	"context"
	"sync"
)

// State is the executor's coarse run state (spec §4.7, §5).
type State int32

const (
	Stopped State = iota
	Running
	Suspended
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Suspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

// Controller is the Control Surface (spec §4.8): stop/suspend/resume
// signalling plus the two observer hooks, exposed to a goroutine other
// than the one running the step loop. It owns the single cooperative
// suspension handle the Executor parks on.
type Controller struct {
	mu          sync.Mutex
	state       State
	currentNode string

	wake chan struct{} // buffered 1; park() wakes on either resume or stop

	taskStopObserver func(nodeName, reason string)
	nodeObserver     func(nodeName string, success bool)
}

// NewController returns a Controller in the Stopped state.
func NewController() *Controller {
	return &Controller{wake: make(chan struct{}, 1)}
}

// State returns the current run state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentNodeName returns the name of the node the Executor is currently
// on, or "" if Stopped.
func (c *Controller) CurrentNodeName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentNode
}

func (c *Controller) setRunning(nodeName string) {
	c.mu.Lock()
	c.state = Running
	c.currentNode = nodeName
	c.mu.Unlock()
}

func (c *Controller) setCurrentNode(nodeName string) {
	c.mu.Lock()
	c.currentNode = nodeName
	c.mu.Unlock()
}

// Stop sets state to Stopped, clears the current node, and wakes the
// parked handle if any. Safe to call repeatedly (spec §8 "stop
// idempotence").
func (c *Controller) Stop() {
	c.mu.Lock()
	c.state = Stopped
	c.currentNode = ""
	c.mu.Unlock()
	c.signal()
}

// Suspend transitions Running -> Suspended; a no-op otherwise (spec §4.8).
func (c *Controller) Suspend() {
	c.mu.Lock()
	if c.state == Running {
		c.state = Suspended
	}
	c.mu.Unlock()
}

// Resume transitions Suspended -> Running and wakes the parked handle
// (spec §4.8).
func (c *Controller) Resume() {
	c.mu.Lock()
	if c.state == Suspended {
		c.state = Running
	}
	c.mu.Unlock()
	c.signal()
}

// RequestStop implements action.StopRequester: the StopTask action's path
// back into the Control Surface (spec §4.4, §9's "explicit context handle
// passed through the Action Dispatcher" replacing the source's singleton).
func (c *Controller) RequestStop(nodeName, reason string) {
	c.Stop()
	c.mu.Lock()
	obs := c.taskStopObserver
	c.mu.Unlock()
	if obs != nil {
		obs(nodeName, reason)
	}
}

// SetTaskStopObserver installs the on_task_stop hook (spec §4.8).
func (c *Controller) SetTaskStopObserver(fn func(nodeName, reason string)) {
	c.mu.Lock()
	c.taskStopObserver = fn
	c.mu.Unlock()
}

// SetNodeObserver installs the on_node_event hook (spec §4.8).
func (c *Controller) SetNodeObserver(fn func(nodeName string, success bool)) {
	c.mu.Lock()
	c.nodeObserver = fn
	c.mu.Unlock()
}

func (c *Controller) onNodeEvent(nodeName string, success bool) {
	c.mu.Lock()
	obs := c.nodeObserver
	c.mu.Unlock()
	if obs != nil {
		obs(nodeName, success)
	}
}

func (c *Controller) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// park blocks while the state is Suspended. It is the executor's single
// cooperative suspension point (spec §5): Stop or Resume unparks it, and
// the caller re-reads State() on return to decide its next transition.
func (c *Controller) park(ctx context.Context) {
	for c.State() == Suspended {
		select {
		case <-c.wake:
		case <-ctx.Done():
			return
		}
	}
}
