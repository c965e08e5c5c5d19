// Package issue extracts a plain-text prompt from an external issue URL.
// The core only consumes the resulting string; fetching, authentication,
// and tracker-specific parsing are out of scope.
package issue

import "strings"

// Fetcher resolves an issue URL to prompt text. Concrete tracker clients
// (GitHub, Linear, ...) live outside the core and satisfy this interface.
type Fetcher interface {
	Fetch(url string) (prompt string, err error)
}

// Static is a Fetcher that returns pre-fetched text verbatim, used when the
// operator supplies the issue body directly (e.g. via -i on the command
// line) rather than asking the core to go fetch it.
type Static struct {
	Text string
}

// Fetch returns the static text, ignoring url.
func (s Static) Fetch(url string) (string, error) {
	return strings.TrimSpace(s.Text), nil
}
