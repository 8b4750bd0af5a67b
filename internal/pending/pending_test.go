package pending

import (
	"errors"
	"testing"
	"time"
)

func TestBeginOverwrites(t *testing.T) {
	s := NewStore(0)
	key := Key{ChatID: 42, MessageID: 7}

	s.Begin(key, Transfer{SrcGUID: "aaa", DstGUID: "bbb"})
	s.Begin(key, Transfer{SrcGUID: "aaa", DstGUID: "ccc"})

	tr, err := s.Take(key)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if tr.DstGUID != "ccc" {
		t.Errorf("DstGUID = %q, want overwrite to win", tr.DstGUID)
	}
}

func TestTakeRemoves(t *testing.T) {
	s := NewStore(0)
	key := Key{ChatID: 1, MessageID: 2}
	s.Begin(key, Transfer{SrcGUID: "a", DstGUID: "b"})

	if _, err := s.Take(key); err != nil {
		t.Fatalf("first Take: %v", err)
	}
	if _, err := s.Take(key); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Take err = %v, want ErrNotFound", err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := NewStore(0)
	s.Begin(Key{ChatID: 1, MessageID: 2}, Transfer{SrcGUID: "a", DstGUID: "b"})

	if _, err := s.Take(Key{ChatID: 1, MessageID: 3}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Take(other message) err = %v, want ErrNotFound", err)
	}
	if _, err := s.Take(Key{ChatID: 2, MessageID: 2}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Take(other chat) err = %v, want ErrNotFound", err)
	}
	if _, err := s.Take(Key{ChatID: 1, MessageID: 2}); err != nil {
		t.Errorf("Take(original) err = %v", err)
	}
}

func TestTTLExpiry(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	key := Key{ChatID: 5, MessageID: 5}
	s.Begin(key, Transfer{SrcGUID: "a", DstGUID: "b"})

	time.Sleep(30 * time.Millisecond)
	if _, err := s.Take(key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Take after TTL err = %v, want ErrNotFound", err)
	}
}
