package classifier_test

import (
	"strings"
	"testing"

	"github.com/clickchain/engage/internal/classifier"
	"github.com/clickchain/engage/internal/policies"
)

func testReasons() []policies.Reason {
	return []policies.Reason{
		{Type: "sick", Keywords: []string{"sick", "flu", "doctor"}, Position: 1},
		{Type: "personal", Keywords: []string{"family", "emergency"}, RequiresApproval: true, Position: 2},
		{Type: "leave", Keywords: []string{"vacation", "pto"}, RequiresApproval: true, Position: 3},
	}
}

func TestEvaluateShortReply(t *testing.T) {
	result, decided := classifier.Evaluate("ok", testReasons())
	if !decided {
		t.Fatal("short reply should be decided by rules")
	}
	if result.IsValid {
		t.Error("short reply should be invalid")
	}
	if result.Source != classifier.SourceRules {
		t.Errorf("source = %s, want rules", result.Source)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
}

func TestEvaluateNonAnswers(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"bare non-answer", "I forgot"},
		{"punctuated", "I don't know."},
		{"no apostrophe", "i dont know"},
		{"presence claim", "I was there!"},
		{"padded with filler", "no reason..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, decided := classifier.Evaluate(tt.reply, testReasons())
			if !decided {
				t.Fatal("non-answer should be decided by rules")
			}
			if result.IsValid {
				t.Errorf("reply %q should be invalid", tt.reply)
			}
			if result.ReasonType != classifier.ReasonOther {
				t.Errorf("reason = %s, want other", result.ReasonType)
			}
		})
	}
}

func TestEvaluateNonAnswerWithSubstanceFallsThrough(t *testing.T) {
	reply := "I forgot to log it, but I was out with the flu all week"
	result, decided := classifier.Evaluate(reply, testReasons())
	if !decided {
		t.Fatal("keyword reply should be decided by rules")
	}
	if !result.IsValid {
		t.Error("reply with substance should be valid")
	}
	if result.ReasonType != "sick" {
		t.Errorf("reason = %s, want sick", result.ReasonType)
	}
}

func TestEvaluateKeywordMatch(t *testing.T) {
	result, decided := classifier.Evaluate("I was home with the flu on Friday", testReasons())
	if !decided {
		t.Fatal("keyword reply should be decided by rules")
	}
	if !result.IsValid {
		t.Error("should be valid")
	}
	if result.ReasonType != "sick" {
		t.Errorf("reason = %s, want sick", result.ReasonType)
	}
	if result.RequiresApproval {
		t.Error("sick should not require approval")
	}
	if !strings.Contains(result.Explanation, "flu") {
		t.Errorf("explanation should name the keyword: %s", result.Explanation)
	}
}

func TestEvaluateApprovalCarriedFromReason(t *testing.T) {
	result, decided := classifier.Evaluate("I took a vacation day, sorry for the gap", testReasons())
	if !decided {
		t.Fatal("keyword reply should be decided by rules")
	}
	if !result.RequiresApproval {
		t.Error("leave should require approval")
	}
	if result.ReasonType != "leave" {
		t.Errorf("reason = %s, want leave", result.ReasonType)
	}
}

func TestEvaluatePolicyOrderWins(t *testing.T) {
	// Both "doctor" (sick) and "family" (personal) appear; the reason
	// earlier in policy order decides.
	result, decided := classifier.Evaluate("took family member to the doctor yesterday", testReasons())
	if !decided {
		t.Fatal("keyword reply should be decided by rules")
	}
	if result.ReasonType != "sick" {
		t.Errorf("reason = %s, want sick (first in policy order)", result.ReasonType)
	}
}

func TestEvaluateUndecidedNeedsSemantics(t *testing.T) {
	result, decided := classifier.Evaluate("the client meeting ran long and I missed the entry window", testReasons())
	if decided {
		t.Fatalf("expected undecided, got %+v", result)
	}
	if result != nil {
		t.Errorf("result should be nil when undecided, got %+v", result)
	}
}

func TestEvaluateTrainedKeywordRecognized(t *testing.T) {
	reasons := testReasons()
	reasons[0].Keywords = append(reasons[0].Keywords, "migraine")

	result, decided := classifier.Evaluate("stayed home with a migraine", reasons)
	if !decided {
		t.Fatal("trained keyword should be decided by rules")
	}
	if result.ReasonType != "sick" {
		t.Errorf("reason = %s, want sick", result.ReasonType)
	}
}

func TestFallback(t *testing.T) {
	result := classifier.Fallback(classifier.ErrSemanticUnavailable)
	if result.IsValid {
		t.Error("fallback must fail closed")
	}
	if result.Source != classifier.SourceRules {
		t.Errorf("source = %s, want rules", result.Source)
	}
	if result.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", result.Confidence)
	}
	if result.ReasonType != classifier.ReasonOther {
		t.Errorf("reason = %s, want other", result.ReasonType)
	}
}
