package prompts_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/clickchain/engage/internal/prompts"
)

func TestParseStage(t *testing.T) {
	got, err := prompts.ParseStage("analyze")
	if err != nil {
		t.Fatalf("ParseStage error: %v", err)
	}
	if got != prompts.StageAnalyze {
		t.Errorf("stage = %s, want analyze", got)
	}

	if _, err := prompts.ParseStage("summarize"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("error = %v, want ErrInvalidStage", err)
	}
}

func TestStageUnmarshalJSON(t *testing.T) {
	var s prompts.Stage
	if err := json.Unmarshal([]byte(`"followup"`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if s != prompts.StageFollowUp {
		t.Errorf("stage = %s, want followup", s)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("error = %v, want ErrInvalidStage", err)
	}
}

func TestStages(t *testing.T) {
	got := prompts.Stages()
	if len(got) != 2 {
		t.Fatalf("stages: got %d, want 2", len(got))
	}
}

func TestInstructions(t *testing.T) {
	for _, stage := range prompts.Stages() {
		text, err := prompts.Instructions(stage)
		if err != nil {
			t.Fatalf("Instructions(%s) error: %v", stage, err)
		}
		if text == "" {
			t.Errorf("Instructions(%s) is empty", stage)
		}
	}

	if _, err := prompts.Instructions(prompts.Stage("bogus")); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("error = %v, want ErrInvalidStage", err)
	}
}

func TestSpecIsValidJSONShape(t *testing.T) {
	spec, err := prompts.Spec(prompts.StageAnalyze)
	if err != nil {
		t.Fatalf("Spec error: %v", err)
	}

	for _, field := range []string{"is_valid", "reason_type", "confidence", "suggested_keywords"} {
		if !strings.Contains(spec, field) {
			t.Errorf("analyze spec missing field %q", field)
		}
	}

	spec, err = prompts.Spec(prompts.StageFollowUp)
	if err != nil {
		t.Fatalf("Spec error: %v", err)
	}
	for _, field := range []string{"subject", "body"} {
		if !strings.Contains(spec, field) {
			t.Errorf("followup spec missing field %q", field)
		}
	}
}
