package issue

import "testing"

func TestStaticFetchTrimsWhitespace(t *testing.T) {
	s := Static{Text: "  fix the thing\n"}
	got, err := s.Fetch("https://example.com/issues/1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != "fix the thing" {
		t.Errorf("Fetch = %q, want %q", got, "fix the thing")
	}
}

func TestStaticFetchIgnoresURL(t *testing.T) {
	s := Static{Text: "same text regardless of url"}
	a, err := s.Fetch("https://a.example.com")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	b, err := s.Fetch("https://b.example.com")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if a != b {
		t.Errorf("Fetch result depends on url: %q vs %q", a, b)
	}
}
