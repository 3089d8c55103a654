package intake

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/types"
)

// MethodOptions marks a CORS preflight request.
const MethodOptions = http.MethodOptions

// Request is one inbound invocation. Body may be a JSON string or bytes,
// an already decoded map, a types.FeedbackSubmission, or nil.
type Request struct {
	Method  string
	Headers map[string]string
	Body    any
}

// Response is the rendered outcome of one invocation.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// ResponseHeaders returns the headers sent with every response.
func ResponseHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "OPTIONS,POST",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// PreflightResponse answers a CORS preflight with no body.
func PreflightResponse() Response {
	return Response{StatusCode: http.StatusNoContent, Headers: ResponseHeaders()}
}

// SuccessResponse renders 200 {"status":"ok","id":...}.
func SuccessResponse(id string) Response {
	return jsonResponse(http.StatusOK, types.StatusResponse{Status: "ok", ID: id})
}

// ErrorResponse renders err as {"error": message} with its mapped status.
// Only the AppError's public message is exposed.
func ErrorResponse(err error) Response {
	appErr := apperrors.As(err)
	return jsonResponse(appErr.GetHTTPStatus(), types.ErrorResponse{Error: appErr.Message})
}

func jsonResponse(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + apperrors.MsgInternalServer + `"}`)
	}
	return Response{StatusCode: status, Headers: ResponseHeaders(), Body: body}
}
