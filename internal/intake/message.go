package intake

import (
	"fmt"

	"github.com/NomadCrew/feedback-intake/types"
)

// FormatMessage renders the notification body. It carries every field a
// reader needs to triage the submission without querying the store.
func FormatMessage(r types.FeedbackRecord) string {
	return fmt.Sprintf(
		"New feedback received:\n\nName: %s\nEmail: %s\nMessage: %s\nTime: %s\nID: %s",
		r.Name, r.Email, r.Message, r.CreatedAt, r.ID,
	)
}
