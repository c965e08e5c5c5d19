// Package names synthesizes collision-free human-friendly task names.
package names

import (
	"fmt"
	"math/rand"
	"time"
)

var adjectives = []string{
	"brave", "calm", "clever", "cosmic", "curious", "daring", "eager",
	"feral", "gentle", "golden", "hidden", "humble", "jolly", "keen",
	"lively", "lucky", "mellow", "mighty", "nimble", "plucky", "quiet",
	"quick", "rapid", "restless", "scrappy", "sleepy", "sly", "sturdy",
	"swift", "tidy", "vivid", "wary", "wild", "wily", "witty", "zesty",
}

var nouns = []string{
	"badger", "beacon", "comet", "condor", "falcon", "ferret", "fox",
	"glacier", "harbor", "heron", "hollow", "jay", "lantern", "lynx",
	"marten", "meadow", "otter", "owl", "panther", "pebble", "quail",
	"raven", "ridge", "sparrow", "summit", "tern", "thicket", "viper",
	"warbler", "wren", "yew",
}

// maxAttempts bounds the random adjective-noun draws before falling back to
// the numbered scheme.
const maxAttempts = 20

// Generate returns an "adjective-noun" name not present in taken. It tries
// up to 20 random combinations, then falls back to "task-<i>" for i in
// 1..100, then the literal "task-<unix-seconds>".
func Generate(taken map[string]bool) string {
	for i := 0; i < maxAttempts; i++ {
		candidate := fmt.Sprintf("%s-%s", pick(adjectives), pick(nouns))
		if !taken[candidate] {
			return candidate
		}
	}

	for i := 1; i <= 100; i++ {
		candidate := fmt.Sprintf("task-%d", i)
		if !taken[candidate] {
			return candidate
		}
	}

	return fmt.Sprintf("task-%d", time.Now().Unix())
}

func pick(words []string) string {
	return words[rand.Intn(len(words))]
}
