package prompter

import (
	"fmt"
	"strings"

	"github.com/emiliopalmerini/orpheus/internal/domain"
)

// ParseYesNo accepts y, yes, n and no in any case, ignoring surrounding
// whitespace. Anything else is a validation error.
func ParseYesNo(answer string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected yes or no, got %q", domain.ErrValidation, answer)
	}
}
