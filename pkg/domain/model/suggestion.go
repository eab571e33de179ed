package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
)

// Suggestion is the validated contract of the AI analysis capability.
type Suggestion struct {
	CanImprove  bool    `json:"canImprove"`
	Title       string  `json:"title"`
	Explanation string  `json:"explanation"`
	SearchText  string  `json:"searchText"`
	ReplaceText string  `json:"replaceText"`
	Confidence  float64 `json:"confidence"`
}

// Validate checks the shape of a suggestion: every required field present
// with a sane value and confidence within [0,1]. A suggestion that declines
// to improve (CanImprove=false) is "no suggestion", not a shape violation,
// and should be filtered out before calling Validate.
func (x *Suggestion) Validate() error {
	if x.Title == "" {
		return goerr.Wrap(types.ErrValidation, "suggestion title is empty")
	}
	if x.Explanation == "" {
		return goerr.Wrap(types.ErrValidation, "suggestion explanation is empty")
	}
	if x.SearchText == "" {
		return goerr.Wrap(types.ErrValidation, "suggestion search text is empty")
	}
	if x.ReplaceText == "" {
		return goerr.Wrap(types.ErrValidation, "suggestion replace text is empty")
	}
	if x.Confidence < 0 || x.Confidence > 1 {
		return goerr.Wrap(types.ErrValidation, "suggestion confidence is out of range",
			goerr.V("confidence", x.Confidence),
		)
	}
	return nil
}

// ValidateUniqueSearchText reports whether searchText occurs exactly once in
// content. Zero and two-plus occurrences both fail: uniqueness is what makes
// a textual substitution unambiguous.
func ValidateUniqueSearchText(content, searchText string) bool {
	if searchText == "" {
		return false
	}
	return strings.Count(content, searchText) == 1
}

// Improvement is a validated, ready-to-apply text substitution.
type Improvement struct {
	Path        string
	SearchText  string
	ReplaceText string
	Title       string
	Explanation string
	Confidence  float64
	MarkerLine  string
	Fingerprint types.FileFingerprint
}
