package classify

import "strings"

// knownIssuers is ordered most-specific first; the first containment hit
// wins.
var knownIssuers = []string{
	"総務省消防庁危険物保安室",
	"消防庁危険物保安室",
	"総務省消防庁",
	"消防庁",
	"危険物保安室",
	"消防局",
	"予防課",
}

// GuessIssuer returns the first known issuing authority named in the
// text, or "".
func GuessIssuer(text string) string {
	for _, issuer := range knownIssuers {
		if strings.Contains(text, issuer) {
			return issuer
		}
	}
	return ""
}
