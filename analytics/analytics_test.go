package analytics

import "testing"

func TestInitSaltPersists(t *testing.T) {
	s := newTestStore(t)
	if err := InitSalt(s); err != nil {
		t.Fatalf("InitSalt: %v", err)
	}

	stored, err := s.GetSetting("hash_salt")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if len(stored) != 64 {
		t.Errorf("stored salt is %d chars, want 64 hex chars", len(stored))
	}
	if getSalt() != stored {
		t.Errorf("in-memory salt %q differs from stored %q", getSalt(), stored)
	}
}

func TestHashIP(t *testing.T) {
	a := HashIP("203.0.113.7")
	b := HashIP("203.0.113.7")
	c := HashIP("203.0.113.8")

	if a != b {
		t.Errorf("HashIP is not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("different IPs hash identically: %q", a)
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
	if a == "203.0.113.7" {
		t.Errorf("hash leaks the raw IP")
	}
}

func TestGenerateVisitorID(t *testing.T) {
	chrome := GenerateVisitorID("203.0.113.7", "Chrome/124")
	chromeAgain := GenerateVisitorID("203.0.113.7", "Chrome/124")
	firefox := GenerateVisitorID("203.0.113.7", "Firefox/125")
	otherIP := GenerateVisitorID("203.0.113.8", "Chrome/124")

	if chrome != chromeAgain {
		t.Errorf("visitor ID is not deterministic")
	}
	if chrome == firefox {
		t.Errorf("same ID for different user agents")
	}
	if chrome == otherIP {
		t.Errorf("same ID for different IPs")
	}
	if len(chrome) != 16 {
		t.Errorf("visitor ID length = %d, want 16", len(chrome))
	}
}
