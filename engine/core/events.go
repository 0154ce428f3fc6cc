package core

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/containers"
)

type EventContext struct {
	Data struct {
		I32 [4]int32
		U16 [8]uint16
		F64 [2]float64

		C string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * u16 key = data.U16[0];
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Mouse button pressed.
	/* Context usage:
	 * u16 button = data.U16[0];
	 * i32 x = data.I32[0];
	 * i32 y = data.I32[1];
	 */
	EVENT_CODE_BUTTON_PRESSED SystemEventCode = 0x04

	// Mouse button released. Same context as EVENT_CODE_BUTTON_PRESSED.
	EVENT_CODE_BUTTON_RELEASED SystemEventCode = 0x05

	// Mouse moved.
	/* Context usage:
	 * i32 x = data.I32[0];
	 * i32 y = data.I32[1];
	 */
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * u16 width = data.U16[0];
	 * u16 height = data.U16[1];
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

const (
	// The keyframe file changed on disk.
	/* Context usage:
	 * string path = data.C;
	 */
	EVENT_CODE_KEYFRAMES_CHANGED SystemEventCode = MAX_EVENT_CODE + 1 + iota

	// Playback reached the end of the keyframes or was stopped.
	/* Context usage:
	 * i32 stopped = data.I32[0];
	 */
	EVENT_CODE_PLAYBACK_FINISHED

	// A keyframe file was read into the keyframe list.
	/* Context usage:
	 * string path = data.C;
	 */
	EVENT_CODE_KEYFRAMES_LOADED
)

// Default capacity of the deferred event queue.
const DEFAULT_EVENT_QUEUE_SIZE = 256

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type postedEvent struct {
	code    SystemEventCode
	sender  interface{}
	context EventContext
}

// EventSystem dispatches events to registered listeners. Fire dispatches
// immediately on the calling goroutine; Post queues the event so that it is
// dispatched by the next ProcessEvents call on the owning goroutine.
type EventSystem struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent

	queueMu sync.Mutex
	queue   *containers.RingQueue[postedEvent]
}

func NewEventSystem(queueSize int) *EventSystem {
	if queueSize <= 0 {
		queueSize = DEFAULT_EVENT_QUEUE_SIZE
	}
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
		queue:      containers.NewRingQueue[postedEvent](queueSize),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/callback combos will not be registered again.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance. Can be nil.
 * @param onEvent The callback function to be invoked when the event code is fired.
 * @returns ErrListenerRegistered if the listener is already registered for code.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	for _, e := range es.registered[code] {
		if e.listener == listener {
			return errors.Wrapf(ErrListenerRegistered, "code %d", code)
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return nil
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns ErrListenerNotFound if no matching registration is found.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) error {
	es.mu.Lock()
	defer es.mu.Unlock()

	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i:i], events[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrListenerNotFound, "code %d", code)
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func (es *EventSystem) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	es.mu.RLock()
	events := append([]*registeredEvent(nil), es.registered[code]...)
	es.mu.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Post queues an event for the next ProcessEvents call. Safe to call from
// any goroutine.
func (es *EventSystem) Post(code SystemEventCode, sender interface{}, context EventContext) error {
	es.queueMu.Lock()
	defer es.queueMu.Unlock()

	if err := es.queue.Enqueue(postedEvent{code: code, sender: sender, context: context}); err != nil {
		return errors.Wrapf(ErrEventQueueFull, "dropping event %d", code)
	}
	return nil
}

// ProcessEvents fires every queued event in posting order and returns how
// many were dispatched.
func (es *EventSystem) ProcessEvents() int {
	processed := 0
	for {
		es.queueMu.Lock()
		e, err := es.queue.Dequeue()
		es.queueMu.Unlock()
		if err != nil {
			return processed
		}
		es.Fire(e.code, e.sender, e.context)
		processed++
	}
}

// Shutdown drops every registration and any queued event.
func (es *EventSystem) Shutdown() {
	es.mu.Lock()
	es.registered = make(map[SystemEventCode][]*registeredEvent)
	es.mu.Unlock()

	es.queueMu.Lock()
	for !es.queue.IsEmpty() {
		_, _ = es.queue.Dequeue()
	}
	es.queueMu.Unlock()
}
