package names

import (
	"fmt"
	"regexp"
	"testing"
)

var nameRe = regexp.MustCompile(`^[a-z]+-[a-z]+$`)

func TestGenerateProducesAdjectiveNounShape(t *testing.T) {
	name := Generate(map[string]bool{})
	if !nameRe.MatchString(name) {
		t.Fatalf("Generate() = %q, want adjective-noun shape", name)
	}
}

func TestGenerateAvoidsTakenNames(t *testing.T) {
	taken := map[string]bool{}
	for i := 0; i < 200; i++ {
		name := Generate(taken)
		if taken[name] {
			t.Fatalf("Generate() returned already-taken name %q", name)
		}
		taken[name] = true
	}
}

func TestGenerateFallsBackToNumberedScheme(t *testing.T) {
	taken := allAdjectiveNounCombos()

	name := Generate(taken)
	if !regexp.MustCompile(`^task-\d+$`).MatchString(name) {
		t.Fatalf("Generate() = %q, want numbered fallback once adjective-noun space is exhausted", name)
	}
}

func TestGenerateFallbackAvoidsTakenNumbers(t *testing.T) {
	taken := allAdjectiveNounCombos()
	for i := 1; i <= 50; i++ {
		taken[fmt.Sprintf("task-%d", i)] = true
	}

	name := Generate(taken)
	if taken[name] {
		t.Fatalf("Generate() returned already-taken fallback name %q", name)
	}
}

func allAdjectiveNounCombos() map[string]bool {
	taken := map[string]bool{}
	for _, a := range adjectives {
		for _, n := range nouns {
			taken[a+"-"+n] = true
		}
	}
	return taken
}
