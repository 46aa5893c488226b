package model

// Category is the verdict taxonomy the judge answers with
type Category string

const (
	CategorySupported            Category = "Supported"
	CategoryContradicted         Category = "Contradicted"
	CategoryPartiallySupported   Category = "Partially Supported"
	CategoryInsufficientEvidence Category = "Insufficient Evidence"
)

// Verdict is the classified judge reply for one verification call.
// It is produced fresh per call and never cached.
type Verdict struct {
	Claim       string   `json:"claim"`
	Category    Category `json:"category"`
	Text        string   `json:"text"`                  // Raw judge reply, kept for display
	Model       string   `json:"model,omitempty"`       // Model that produced the reply
	SourceCount int      `json:"source_count"`          // Sources included in the evidence
	Truncated   bool     `json:"truncated"`             // Evidence hit the character ceiling
	TokensUsed  int      `json:"tokens_used,omitempty"` // As reported by the provider
}
