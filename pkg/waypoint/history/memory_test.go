package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	to, from string
	info     Info
}

func record(m *Memory) (*[]event, func()) {
	var events []event
	stop := m.Listen(func(to, from string, info Info) {
		events = append(events, event{to, from, info})
	})
	return &events, stop
}

func urls(m *Memory) []string {
	var out []string
	for _, e := range m.Entries() {
		out = append(out, e.URL)
	}
	return out
}

func TestNewMemory(t *testing.T) {
	assert.Equal(t, "/", NewMemory("").Location())
	assert.Equal(t, "/start", NewMemory("/start").Location())
}

func TestPushAndReplace(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	m.Push("/b")
	m.Replace("/c")

	assert.Equal(t, []string{"/", "/a", "/c"}, urls(m))
	assert.Equal(t, 2, m.Position())
	assert.Equal(t, "/c", m.Location())
}

func TestPushAfterBackDiscardsForwardEntries(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	m.Push("/b")
	m.Back(false)
	m.Push("/c")

	assert.Equal(t, []string{"/", "/a", "/c"}, urls(m))
	assert.False(t, m.CanGoForward())
}

func TestBackForwardNotifyListeners(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	events, stop := record(m)
	defer stop()

	m.Back(true)
	m.Forward(true)

	require.Len(t, *events, 2)
	assert.Equal(t, event{"/", "/a", Info{Direction: DirectionBack, Delta: -1}}, (*events)[0])
	assert.Equal(t, event{"/a", "/", Info{Direction: DirectionForward, Delta: 1}}, (*events)[1])
}

func TestTriggerFalseSuppressesListeners(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	events, stop := record(m)
	defer stop()

	m.Back(false)

	assert.Empty(t, *events)
	assert.Equal(t, "/", m.Location())
}

func TestPushAndReplaceDoNotNotify(t *testing.T) {
	m := NewMemory("/")
	events, stop := record(m)
	defer stop()

	m.Push("/a")
	m.Replace("/b")

	assert.Empty(t, *events)
}

func TestGoClampsAndIgnoresNoop(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	m.Push("/b")
	events, stop := record(m)
	defer stop()

	m.Go(-10, true)
	assert.Equal(t, "/", m.Location())
	require.Len(t, *events, 1)
	assert.Equal(t, -2, (*events)[0].info.Delta)

	m.Back(true)
	assert.Len(t, *events, 1)
}

func TestUnlisten(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	events, stop := record(m)
	stop()
	stop()

	m.Back(true)
	assert.Empty(t, *events)
}

func TestListenerMayReenter(t *testing.T) {
	m := NewMemory("/")
	m.Push("/a")
	m.Listen(func(_, _ string, info Info) {
		if info.Direction == DirectionBack {
			m.Forward(false)
		}
	})

	m.Back(true)
	assert.Equal(t, "/a", m.Location())
}

func TestStateAndClear(t *testing.T) {
	m := NewMemory("/")
	m.PushState("/a", 1)
	m.ReplaceState("/b", 2)

	assert.Equal(t, Entry{URL: "/b", State: 2}, m.Current())

	m.Clear()
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.CanGoBack())
	assert.Equal(t, "/b", m.Location())
}

func TestDirection_String(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirectionBack, "back"},
		{DirectionForward, "forward"},
		{DirectionUnknown, "unknown"},
		{Direction(9), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}
