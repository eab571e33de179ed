package usecase

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/nibbler/pkg/domain/model"
	"github.com/m-mizutani/nibbler/pkg/domain/types"
)

// ApplyImprovement performs the validated substitution and strips the marker
// line from the file. Uniqueness of the search text is re-checked against the
// content actually being modified, in case it drifted since analysis.
func ApplyImprovement(content *model.FileContent, improvement *model.Improvement) (string, error) {
	if !model.ValidateUniqueSearchText(content.Content, improvement.SearchText) {
		return "", goerr.Wrap(types.ErrValidation, "search text is not unique in file",
			goerr.V("path", improvement.Path),
		)
	}

	replaced := strings.Replace(content.Content, improvement.SearchText, improvement.ReplaceText, 1)

	return removeMarkerLine(replaced, improvement.MarkerLine), nil
}

// removeMarkerLine drops the line whose trimmed content equals the trimmed
// marker line. Only the first match is removed; blank lines are kept as-is.
func removeMarkerLine(content, markerLine string) string {
	marker := strings.TrimSpace(markerLine)
	if marker == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == marker {
			return strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
	}

	return content
}
