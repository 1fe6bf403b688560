// Package notify implements the transient notification stack.
//
// Notifications stack in arrival order. Each one owns its dismissal timer
// (3s for info, 5s for everything else), so dismissals never wait on each
// other. Every change is published as a core.Event on a buffered channel.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/notesctl/pkg/core"
)

// DefaultEventBuffer is the size of the event channel when Config.Buffer is zero.
const DefaultEventBuffer = 64

// Config holds the configuration for a Center.
type Config struct {
	Scheduler core.Scheduler
	Logger    *slog.Logger
	Buffer    int
	Now       func() time.Time
}

// Center is a core.Notifier keeping the visible notification stack.
type Center struct {
	scheduler core.Scheduler
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	active    []core.Notification
	timers    map[string]core.Task
	events    chan core.Event
	shown     int
	dismissed int
	dropped   int
	closed    bool
}

// NewCenter creates a notification center.
func NewCenter(config Config) *Center {
	if config.Scheduler == nil {
		config.Scheduler = core.SystemScheduler{}
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Buffer <= 0 {
		config.Buffer = DefaultEventBuffer
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Center{
		scheduler: config.Scheduler,
		logger:    config.Logger,
		now:       config.Now,
		timers:    make(map[string]core.Task),
		events:    make(chan core.Event, config.Buffer),
	}
}

// Notify implements core.Notifier.
func (c *Center) Notify(level core.Level, message string) {
	n := core.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: c.now(),
	}
	c.logger.Debug("notification", "id", n.ID, "level", string(level), "message", message)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.active = append(c.active, n)
	c.shown++
	c.timers[n.ID] = c.scheduler.AfterFunc(level.Delay(), func() {
		c.Dismiss(n.ID)
	})
	c.publishLocked(core.Event{Type: core.EventShown, Notification: n})
}

// Dismiss removes a notification before its timer fires.
// It reports false if id is not on screen.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.active {
		if n.ID != id {
			continue
		}
		c.active = append(c.active[:i], c.active[i+1:]...)
		if task, ok := c.timers[id]; ok {
			task.Cancel()
			delete(c.timers, id)
		}
		c.dismissed++
		if !c.closed {
			c.publishLocked(core.Event{Type: core.EventDismissed, Notification: n})
		}
		return true
	}
	return false
}

// Active returns the notifications currently on screen, oldest first.
func (c *Center) Active() []core.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Notification(nil), c.active...)
}

// Events returns the channel of shown/dismissed events.
// It is closed by Close.
func (c *Center) Events() <-chan core.Event {
	return c.events
}

// Close cancels pending dismissals and closes the event channel.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, task := range c.timers {
		task.Cancel()
		delete(c.timers, id)
	}
	close(c.events)
}

// publishLocked never blocks: a slow consumer loses events, not the client.
func (c *Center) publishLocked(e core.Event) {
	select {
	case c.events <- e:
	default:
		c.dropped++
		c.logger.Debug("notification event dropped", "event", e.String())
	}
}

var _ core.Notifier = (*Center)(nil)
