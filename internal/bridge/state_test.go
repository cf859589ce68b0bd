package bridge

import (
	"reflect"
	"testing"
)

func TestStateSetChannel(t *testing.T) {
	s := NewState(4)

	if !s.SetChannel(1, 0, 255) {
		t.Fatal("channel 0 rejected")
	}
	if s.SetChannel(1, 4, 1) {
		t.Fatal("channel 4 accepted in a 4 channel universe")
	}
	if got := s.Get(1); !reflect.DeepEqual(got, []byte{255, 0, 0, 0}) {
		t.Fatalf("Get(1) = %v", got)
	}
}

func TestStateSetChannelValues(t *testing.T) {
	s := NewState(3)
	dropped := s.SetChannelValues([]ChannelValue{
		{Universe: 1, Channel: 0, Value: 10},
		{Universe: 1, Channel: 2, Value: 30},
		{Universe: 2, Channel: 1, Value: 5},
		{Universe: 1, Channel: 9, Value: 99},
		{Universe: 1, Channel: 0, Value: 11},
	})

	if want := []ChannelValue{{Universe: 1, Channel: 9, Value: 99}}; !reflect.DeepEqual(dropped, want) {
		t.Fatalf("dropped = %v, want %v", dropped, want)
	}
	if got := s.Get(1); !reflect.DeepEqual(got, []byte{11, 0, 30}) {
		t.Fatalf("Get(1) = %v", got)
	}
	if got := s.Get(2); !reflect.DeepEqual(got, []byte{0, 5, 0}) {
		t.Fatalf("Get(2) = %v", got)
	}
}

func TestStateSetUniverse(t *testing.T) {
	s := NewState(4)
	s.SetUniverse(1, []byte{1, 2, 3, 4})
	s.SetUniverse(1, []byte{9})
	if got := s.Get(1); !reflect.DeepEqual(got, []byte{9, 0, 0, 0}) {
		t.Fatalf("Get(1) = %v", got)
	}

	s.SetUniverse(1, []byte{1, 2, 3, 4, 5, 6})
	if got := s.Get(1); !reflect.DeepEqual(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("Get(1) after long frame = %v", got)
	}

	s.SetUniverse(1, nil)
	if got := s.Get(1); !reflect.DeepEqual(got, []byte{0, 0, 0, 0}) {
		t.Fatalf("Get(1) after blackout = %v", got)
	}
}

func TestStateGetReturnsCopy(t *testing.T) {
	s := NewState(2)
	s.SetChannel(1, 0, 7)

	got := s.Get(1)
	got[0] = 100
	if s.Get(1)[0] != 7 {
		t.Fatal("Get shares memory with state")
	}
}

func TestStateGetUnknownUniverse(t *testing.T) {
	s := NewState(3)
	if got := s.Get(42); !reflect.DeepEqual(got, []byte{0, 0, 0}) {
		t.Fatalf("Get(42) = %v", got)
	}
	if len(s.Universes()) != 0 {
		t.Fatal("Get created a universe")
	}
}

func TestStateUniverses(t *testing.T) {
	s := NewState(1)
	s.SetChannel(5, 0, 1)
	s.SetChannel(1, 0, 1)
	s.SetUniverse(3, nil)
	if got := s.Universes(); !reflect.DeepEqual(got, []uint16{1, 3, 5}) {
		t.Fatalf("Universes() = %v", got)
	}
}
