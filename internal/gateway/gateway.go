// Package gateway adapts the intake handler to API Gateway proxy events.
package gateway

import (
	"context"
	"encoding/base64"

	apperrors "github.com/NomadCrew/feedback-intake/errors"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/aws/aws-lambda-go/events"
)

// Handler answers one API Gateway proxy event.
type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Invoker is the transport-neutral side of the adapter.
type Invoker interface {
	Handle(ctx context.Context, req intake.Request) intake.Response
}

// NewAPIGatewayHandler wraps h. Failures are always rendered into the
// response, so the returned error is always nil and Lambda never retries.
func NewAPIGatewayHandler(h Invoker) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body := req.Body
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return toProxyResponse(intake.ErrorResponse(apperrors.InvalidInput(err.Error()))), nil
			}
			body = string(decoded)
		}

		resp := h.Handle(ctx, intake.Request{
			Method:  req.HTTPMethod,
			Headers: req.Headers,
			Body:    body,
		})
		return toProxyResponse(resp), nil
	}
}

func toProxyResponse(resp intake.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}
