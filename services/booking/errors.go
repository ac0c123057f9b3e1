package booking

import (
	"fmt"
	"time"

	"studybuddy/models"
	"studybuddy/utils"
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), utils.ErrValidation)
}

func validateSlotRef(date, tm string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return validationError("date %q must be YYYY-MM-DD", date)
	}
	if parsed, err := time.Parse(models.TimeLayout, tm); err != nil || parsed.Format(models.TimeLayout) != tm {
		return validationError("time %q must be HH:MM", tm)
	}
	return nil
}
