package classifier

import (
	"fmt"
	"strings"

	"github.com/clickchain/engage/internal/policies"
)

// minReplyLength is the shortest reply considered worth analyzing.
// Anything shorter is treated as a non-answer.
const minReplyLength = 10

// nonAnswerPhrases match replies that acknowledge the inquiry without
// explaining anything. A reply consisting of one of these is invalid
// regardless of length.
var nonAnswerPhrases = []string{
	"i forgot",
	"i don't know",
	"i dont know",
	"no reason",
	"just because",
	"i was there",
}

// Evaluate applies the deterministic rule tier to a reply. It returns a
// result and true when a rule decides the outcome, or false when the
// reply needs semantic analysis. Reasons are checked in their policy
// order; the first keyword hit wins.
func Evaluate(reply string, reasons []policies.Reason) (*Result, bool) {
	normalized := strings.ToLower(strings.TrimSpace(reply))

	if len(normalized) < minReplyLength {
		return &Result{
			IsValid:     false,
			ReasonType:  ReasonOther,
			Confidence:  100,
			Explanation: "reply too short to contain an explanation",
			Source:      SourceRules,
		}, true
	}

	for _, phrase := range nonAnswerPhrases {
		if isNonAnswer(normalized, phrase) {
			return &Result{
				IsValid:     false,
				ReasonType:  ReasonOther,
				Confidence:  100,
				Explanation: fmt.Sprintf("reply %q does not explain the missing entry", phrase),
				Source:      SourceRules,
			}, true
		}
	}

	for _, reason := range reasons {
		for _, keyword := range reason.Keywords {
			if strings.Contains(normalized, keyword) {
				return &Result{
					IsValid:          true,
					ReasonType:       reason.Type,
					Confidence:       100,
					Explanation:      fmt.Sprintf("matched keyword %q for reason %q", keyword, reason.Type),
					RequiresApproval: reason.RequiresApproval,
					Source:           SourceRules,
				}, true
			}
		}
	}

	return nil, false
}

// isNonAnswer reports whether the reply is essentially just the phrase,
// allowing for trailing punctuation and filler but not for additional
// substance that might contain a real explanation.
func isNonAnswer(normalized, phrase string) bool {
	if !strings.HasPrefix(normalized, phrase) {
		return false
	}

	rest := strings.TrimLeft(normalized[len(phrase):], " .,!?")
	return len(rest) < minReplyLength
}
