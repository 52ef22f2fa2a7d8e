// Package history provides the navigation timeline a router reflects its
// committed locations into.
//
// Memory keeps the timeline in process, which suits tests, CLIs and any
// application without a native history of its own. Moving through the timeline
// with Back, Forward or Go notifies listeners so the router can run its guards
// for the transition; Push and Replace never notify.
package history

import "sync"

// Direction is the way the timeline moved.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionBack
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionBack:
		return "back"
	case DirectionForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Info describes a timeline move.
type Info struct {
	Direction Direction
	Delta     int // Number of entries moved, negative when going back
}

// Listener is notified when the timeline moves outside of Push and Replace.
type Listener func(to, from string, info Info)

// Entry is a single point in the timeline.
type Entry struct {
	URL   string
	State any
}

type listenerEntry struct {
	id int
	fn Listener
}

// Memory is an in-memory navigation timeline. It is safe for concurrent use.
type Memory struct {
	mu        sync.Mutex
	entries   []Entry
	position  int
	listeners []listenerEntry
	nextID    int
}

// NewMemory creates a timeline holding a single entry for initial.
// An empty initial URL starts at "/".
func NewMemory(initial string) *Memory {
	if initial == "" {
		initial = "/"
	}
	return &Memory{
		entries: []Entry{{URL: initial}},
	}
}

// Location returns the URL of the current entry.
func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.position].URL
}

// Push adds a new entry after the current one, discarding any forward entries.
func (m *Memory) Push(url string) {
	m.PushState(url, nil)
}

// PushState is Push with state attached to the new entry.
func (m *Memory) PushState(url string, state any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries[:m.position+1], Entry{URL: url, State: state})
	m.position++
}

// Replace overwrites the current entry.
func (m *Memory) Replace(url string) {
	m.ReplaceState(url, nil)
}

// ReplaceState is Replace with state attached to the entry.
func (m *Memory) ReplaceState(url string, state any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.position] = Entry{URL: url, State: state}
}

// Back moves one entry back. When trigger is false listeners are not notified.
func (m *Memory) Back(trigger bool) {
	m.Go(-1, trigger)
}

// Forward moves one entry forward. When trigger is false listeners are not notified.
func (m *Memory) Forward(trigger bool) {
	m.Go(1, trigger)
}

// Go moves delta entries through the timeline, clamped to its bounds. Moving
// nowhere is a no-op. Listeners run on the calling goroutine after the move is
// applied, so they may call back into the timeline.
func (m *Memory) Go(delta int, trigger bool) {
	m.mu.Lock()
	target := min(max(m.position+delta, 0), len(m.entries)-1)
	if target == m.position {
		m.mu.Unlock()
		return
	}

	from := m.entries[m.position].URL
	info := Info{Delta: target - m.position, Direction: DirectionForward}
	if info.Delta < 0 {
		info.Direction = DirectionBack
	}
	m.position = target
	to := m.entries[target].URL

	var listeners []Listener
	if trigger {
		for _, l := range m.listeners {
			listeners = append(listeners, l.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(to, from, info)
	}
}

// Listen registers fn for timeline moves and returns a function removing it.
func (m *Memory) Listen(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Current returns the current entry.
func (m *Memory) Current() Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.position]
}

// Entries returns a copy of the whole timeline.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Position returns the index of the current entry.
func (m *Memory) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Len returns the number of entries in the timeline.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// CanGoBack returns true if there is an entry before the current one.
func (m *Memory) CanGoBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position > 0
}

// CanGoForward returns true if there is an entry after the current one.
func (m *Memory) CanGoForward() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position < len(m.entries)-1
}

// Clear drops every entry except the current one.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = []Entry{m.entries[m.position]}
	m.position = 0
}
