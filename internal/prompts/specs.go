package prompts

const analyzeSpec = `Respond with a JSON object matching this exact structure:

{
  "is_valid": false,
  "reason_type": "<type>",
  "confidence": 0,
  "explanation": "<explanation>",
  "requires_approval": false,
  "suggested_keywords": ["<keyword1>", "<keyword2>"]
}

Field constraints:
- is_valid: Whether the reply contains a genuine, recognizable explanation
  for the missing timesheet entry.
- reason_type: The recognized reason type that best matches the reply.
  Must be one of the types listed in the prompt, or "other" when the
  explanation is genuine but matches no listed type. Use "other" with
  is_valid false when the reply is not a genuine explanation.
- confidence: Integer from 0 to 100 expressing certainty in the match.
- explanation: Brief justification for the assessment, referencing the
  substance of the employee's reply.
- requires_approval: Whether the matched reason requires manager approval
  per the policy attributes listed in the prompt.
- suggested_keywords: Words or short phrases from the reply that would
  help match similar explanations to this reason type in the future.
  Empty array when is_valid is false.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Assess only the reply provided, never invent circumstances
- When the reply is ambiguous, lower the confidence rather than guessing`

const followUpSpec = `Respond with a JSON object matching this exact structure:

{
  "subject": "<subject line>",
  "body": "<message body>"
}

Field constraints:
- subject: Subject line for the reminder message. Preserve any case
  reference token from the original inquiry subject verbatim.
- body: Plain-text body of the reminder message.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Keep the body under 150 words`

var specs = map[Stage]string{
	StageAnalyze:  analyzeSpec,
	StageFollowUp: followUpSpec,
}

// Spec returns the hardcoded specification for an engagement stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
