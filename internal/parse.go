package internal

import (
	"encoding/json"

	pkgerrs "github.com/jamesprial/go-instagram-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-instagram-api-wrapper/pkg/types"
)

// Parser decodes the API's response envelope.
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// DecodeEnvelope classifies a response body.
//
// A meta.error_message, even an empty one, wins over data and becomes an *APIError. Otherwise the
// data member must be present (an explicit null counts) and is decoded into v
// when v is non-nil. A body that is not JSON, has no meta block, or carries
// neither data nor an error message is a *ParseError. status is recorded on
// API errors only; it does not affect classification.
func (p *Parser) DecodeEnvelope(body []byte, status int, v any) (*types.Envelope, error) {
	var env types.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &pkgerrs.ParseError{Operation: "decode envelope", Err: err}
	}
	if env.Meta == nil {
		return nil, &pkgerrs.ParseError{Operation: "decode envelope", Message: "response has no meta block"}
	}

	if env.Meta.ErrorMessage != nil {
		return &env, &pkgerrs.APIError{
			StatusCode: status,
			Code:       env.Meta.Code,
			ErrorType:  env.Meta.ErrorType,
			Message:    *env.Meta.ErrorMessage,
		}
	}

	if !env.HasData() {
		return &env, &pkgerrs.ParseError{Operation: "decode envelope", Message: "response carries neither data nor an error message"}
	}

	if v != nil {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return &env, &pkgerrs.ParseError{Operation: "decode data", Err: err}
		}
	}
	return &env, nil
}
