package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/types"
)

// decodeBody normalizes every supported body representation into a field
// map. It is the only place that knows about representation variance.
func decodeBody(body any) (map[string]any, error) {
	switch b := body.(type) {
	case nil:
		return map[string]any{}, nil
	case string:
		return decodeJSON([]byte(b))
	case []byte:
		return decodeJSON(b)
	case json.RawMessage:
		return decodeJSON(b)
	case map[string]any:
		return b, nil
	case map[string]string:
		fields := make(map[string]any, len(b))
		for k, v := range b {
			fields[k] = v
		}
		return fields, nil
	case types.FeedbackSubmission:
		return submissionFields(b), nil
	case *types.FeedbackSubmission:
		if b == nil {
			return map[string]any{}, nil
		}
		return submissionFields(*b), nil
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported body type %T", body))
	}
}

func decodeJSON(raw []byte) (map[string]any, error) {
	// A blank body is read as an empty object so it fails validation rather
	// than parsing.
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	switch v := decoded.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("body must be a JSON object, got %T", decoded))
	}
}

func submissionFields(s types.FeedbackSubmission) map[string]any {
	return map[string]any{
		"name":    s.Name,
		"email":   s.Email,
		"message": s.Message,
	}
}

// validate trims the three required fields. Absent, non-string and blank
// values all fail, and the error does not say which field failed.
func validate(fields map[string]any) (types.FeedbackSubmission, error) {
	var missing []string
	get := func(key string) string {
		s, _ := fields[key].(string)
		s = strings.TrimSpace(s)
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}

	sub := types.FeedbackSubmission{
		Name:    get("name"),
		Email:   get("email"),
		Message: get("message"),
	}
	if len(missing) > 0 {
		return types.FeedbackSubmission{}, apperrors.ValidationFailed(apperrors.MsgMissingFields,
			"missing or blank: "+strings.Join(missing, ", "))
	}
	return sub, nil
}
