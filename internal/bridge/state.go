package bridge

import (
	"sort"
	"sync"
)

// State holds the last known channel values of every universe the bridge
// has written to.
type State struct {
	mu        sync.Mutex
	length    int
	universes map[uint16][]byte
}

func NewState(length int) *State {
	return &State{
		length:    length,
		universes: map[uint16][]byte{},
	}
}

func (s *State) universe(u uint16) []byte {
	dmx, ok := s.universes[u]
	if !ok {
		dmx = make([]byte, s.length)
		s.universes[u] = dmx
	}
	return dmx
}

// SetChannel reports false when channel is outside the universe.
func (s *State) SetChannel(u, channel uint16, value uint8) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(channel) >= s.length {
		return false
	}
	s.universe(u)[channel] = value
	return true
}

// SetChannelValues applies values in order and returns the ones that fell
// outside their universe.
func (s *State) SetChannelValues(values []ChannelValue) (dropped []ChannelValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range values {
		if int(v.Channel) >= s.length {
			dropped = append(dropped, v)
			continue
		}
		s.universe(v.Universe)[v.Channel] = v.Value
	}
	return dropped
}

// SetUniverse replaces a whole universe. Channels past len(frame) become 0,
// extra values are ignored.
func (s *State) SetUniverse(u uint16, frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dmx := s.universe(u)
	n := copy(dmx, frame)
	for i := n; i < len(dmx); i++ {
		dmx[i] = 0
	}
}

// Get returns a copy of the universe.
func (s *State) Get(u uint16) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]byte, s.length)
	copy(out, s.universes[u])
	return out
}

// Universes returns the known universes in ascending order.
func (s *State) Universes() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]uint16, 0, len(s.universes))
	for u := range s.universes {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
