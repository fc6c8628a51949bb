package provider

// CandidateStatus tags the outcome of ParseCandidate.
type CandidateStatus int

const (
	// CandidateOK means the first candidate carried text.
	CandidateOK CandidateStatus = iota

	// CandidateNone means the response contained no candidates.
	CandidateNone

	// CandidateMalformed means a candidate exists but has no text at
	// candidates[0].content.parts[0].text.
	CandidateMalformed
)

// String returns a short label for logs and metrics.
func (s CandidateStatus) String() string {
	switch s {
	case CandidateOK:
		return "ok"
	case CandidateNone:
		return "none"
	case CandidateMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// CandidateResult is the tagged result of parsing a response.
// Text is set only when Status is CandidateOK.
type CandidateResult struct {
	Status       CandidateStatus
	Text         string
	FinishReason string
}

// ParseCandidate extracts the first text part of the first candidate.
// Only the first candidate is consumed. An empty text part counts as absent.
func ParseCandidate(resp *Response) CandidateResult {
	if resp == nil || len(resp.Candidates) == 0 {
		return CandidateResult{Status: CandidateNone}
	}

	c := resp.Candidates[0]
	result := CandidateResult{
		Status:       CandidateMalformed,
		FinishReason: c.FinishReason,
	}
	if c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0].Text == "" {
		return result
	}

	result.Status = CandidateOK
	result.Text = c.Content.Parts[0].Text
	return result
}
