package puzzle

import "fmt"

// GenerationError reports that building a game for a given date and mode
// failed in a way retries did not resolve.
type GenerationError struct {
	Date   string
	Mode   string
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s game for %s: %s", e.Mode, e.Date, e.Reason)
}
