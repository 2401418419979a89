package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/labelpadhega/backend/internal/domain"
)

// The repair steps below encode observed failure modes of one specific model,
// not a general theory of JSON well-formedness. They run as a fixed, ordered
// pipeline of pure functions so new patterns can be appended without
// destabilizing existing fixtures. Every step must leave well-formed records
// untouched: Recover must round-trip valid serialized output unchanged.

var (
	// ```json\n ... ``` wrappers, with optional language tag.
	leadingFenceRegex  = regexp.MustCompile("(?i)^```[a-z]*\\s*")
	trailingFenceRegex = regexp.MustCompile("\\s*```$")

	// A quote-opened list item that runs into ] without closing its quote,
	// e.g. `["Salt", "Iodine]`. Three guards keep well-formed text from
	// matching: the item must sit in list context (its quote follows "[" or
	// ","; an object value's quote follows ":"), the leading letter rules out
	// a closed `"item"]`, and the trailing class rules out a bracket in the
	// middle of a string value (the real artifact's closing bracket runs into
	// a comma, a closing brace, or EOF).
	unterminatedItemRegex = regexp.MustCompile(`([\[,]\s*)("[A-Za-z][^"\[\]{}]*)\](\s*[,}]|$)`)
)

// repairStep is one named, pure transformation in the recovery pipeline.
type repairStep struct {
	name  string
	apply func(string) string
}

var repairPipeline = []repairStep{
	{"trim", strings.TrimSpace},
	{"strip_code_fence", stripCodeFence},
	{"ensure_opening_brace", ensureOpeningBrace},
	{"repair_hallucinations", repairHallucinations},
	{"drop_duplicate_wrappers", dropDuplicateWrappers},
}

// stripCodeFence removes a leading and trailing markdown code fence.
func stripCodeFence(s string) string {
	s = leadingFenceRegex.ReplaceAllString(s, "")
	s = trailingFenceRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ensureOpeningBrace prepends the opening delimiter when missing. The
// structured prompt pre-seeds "{", and the model often continues the prefix
// (starting at the first key) instead of emitting its own brace.
func ensureOpeningBrace(s string) string {
	if !strings.HasPrefix(s, "{") {
		return "{" + s
	}
	return s
}

// repairHallucinations applies the known single-pattern fixes: the "[-]"
// empty-list sentinel becomes a true empty list, and a quoted list item that
// lost its closing quote before "]" gets it back.
func repairHallucinations(s string) string {
	s = strings.ReplaceAll(s, "[-]", "[]")
	s = unterminatedItemRegex.ReplaceAllString(s, `$1$2"]$3`)
	return s
}

// dropDuplicateWrappers strips duplicated outer braces: "{{...}}" emitted when
// the model repeats the seeded prefix and then closes twice. Valid records
// never start with "{{", and the record schema ends with a string field so a
// valid serialization never ends with "}}" either.
func dropDuplicateWrappers(s string) string {
	for strings.HasPrefix(s, "{{") {
		s = s[1:]
	}
	for strings.HasSuffix(s, "}}") {
		s = s[:len(s)-1]
	}
	return s
}

// RepairStructuredText runs the full repair pipeline and returns the cleaned
// candidate JSON text. Exposed separately from RecoverAnalysis so the repair
// behavior is testable without a schema.
func RepairStructuredText(raw string) string {
	cleaned := raw
	for _, step := range repairPipeline {
		cleaned = step.apply(cleaned)
	}
	return cleaned
}

// RecoverAnalysis reconstructs a structured analysis record from a raw,
// possibly truncated or malformed, structured-output attempt. On failure it
// returns ErrMalformedOutput; a raw parse error never crosses this boundary.
// Callers fall back to the free-text path when recovery fails.
func RecoverAnalysis(raw string) (*domain.StructuredAnalysis, error) {
	cleaned := RepairStructuredText(raw)

	var analysis domain.StructuredAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err == nil {
		return &analysis, nil
	}

	// Final attempt: isolate the window between the first { and the last }.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &analysis); err == nil {
			return &analysis, nil
		}
	}

	return nil, domain.ErrMalformedOutput
}
