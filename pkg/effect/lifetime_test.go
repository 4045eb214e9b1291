package effect

import "testing"

func TestSignal_SubscribeAndExpire(t *testing.T) {
	s := NewSignal()

	fired := 0
	s.SubscribeExpiry(func() { fired++ })
	s.SubscribeExpiry(func() { fired++ })

	if s.Expired() {
		t.Error("fresh signal should not be expired")
	}
	s.Expire()
	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
	if !s.Expired() {
		t.Error("signal should report expired")
	}

	// Second expire is a no-op.
	s.Expire()
	if fired != 2 {
		t.Errorf("fired = %d after double expire, want 2", fired)
	}
}

func TestSignal_Unsubscribe(t *testing.T) {
	s := NewSignal()

	fired := false
	unsub := s.SubscribeExpiry(func() { fired = true })
	unsub()
	// Unsubscribing twice is harmless.
	unsub()

	s.Expire()
	if fired {
		t.Error("unsubscribed callback should not fire")
	}
}

func TestSignal_SubscribeAfterExpiry(t *testing.T) {
	s := NewSignal()
	s.Expire()

	fired := false
	unsub := s.SubscribeExpiry(func() { fired = true })
	if !fired {
		t.Error("subscribing after expiry should fire immediately")
	}
	unsub()
}
