package usecase

import "strings"

// markdownArtifacts are the formatting tokens models emit despite the prompt
// forbidding them. Removal is literal substring deletion; nothing else in the
// text is touched, so this is a defensive pass, not a parser.
var markdownArtifacts = []string{"**", "##", "```"}

// Normalize strips markdown artifacts from free-text model output and trims
// surrounding whitespace. Passes repeat until a fixpoint so that removal can
// never leave a freshly formed artifact behind ("*##*" collapses to nothing,
// not to "**"), which makes Normalize idempotent.
func Normalize(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for {
		next := cleaned
		for _, artifact := range markdownArtifacts {
			next = strings.ReplaceAll(next, artifact, "")
		}
		next = strings.TrimSpace(next)
		if next == cleaned {
			return cleaned
		}
		cleaned = next
	}
}
