// Package classifier assesses employee replies against the recognized
// absence reasons. Classification is two-tier: cheap deterministic rules
// first, then semantic analysis through the configured agent. When the
// semantic tier is unavailable the classifier fails closed with an
// invalid result rather than guessing.
package classifier

// Source identifies which tier produced a classification result.
type Source string

// Classification sources. The fail-closed fallback reports SourceRules:
// a failed semantic call resolves to the deterministic invalid outcome,
// and consumers only ever see the two tiers.
const (
	SourceRules    Source = "rules"
	SourceSemantic Source = "semantic"
)

// Result represents the outcome of classifying one employee reply.
type Result struct {
	IsValid           bool     `json:"is_valid"`
	ReasonType        string   `json:"reason_type"`
	Confidence        int      `json:"confidence"`
	Explanation       string   `json:"explanation"`
	RequiresApproval  bool     `json:"requires_approval"`
	SuggestedKeywords []string `json:"suggested_keywords"`
	Source            Source   `json:"source"`
}

// ReasonOther is the catch-all reason type for genuine explanations
// that match no recognized reason.
const ReasonOther = "other"
