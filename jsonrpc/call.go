package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/observability"
)

// Error is a JSON-RPC error object.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
	ID      json.RawMessage `json:"id"`
}

// NewCallRequest builds the POST request for one call and returns it with
// the generated id. Version 1.0 always sends params as an array.
func (s *Session) NewCallRequest(endpoint, method string, params any) (*httpclient.Request, string, error) {
	req, err := s.Post(endpoint)
	if err != nil {
		return nil, "", err
	}

	id := uuid.NewString()
	payload := httpclient.NewPayload()
	if s.spec == Version2 {
		payload.Set("jsonrpc", Version2)
	}
	payload.Set("method", method)
	switch {
	case params != nil:
		payload.Set("params", params)
	case s.spec == Version1:
		payload.Set("params", []any{})
	}
	payload.Set("id", id)

	if err := req.SetPayload(payload, httpclient.EncodingJSON); err != nil {
		return nil, "", err
	}
	if err := req.SetAccept("json"); err != nil {
		return nil, "", err
	}
	return req, id, nil
}

// Call invokes method on endpoint and decodes the result into result,
// which may be nil to discard it. A JSON-RPC error object is returned as
// an RPC_ERROR carrying code, message and data details.
func (s *Session) Call(ctx context.Context, endpoint, method string, params, result any) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRPCCall)
	span.SetAttributes(
		attribute.String(observability.AttrRPCMethod, method),
		attribute.String(observability.AttrRPCVersion, s.spec),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, id, err := s.NewCallRequest(endpoint, method, params)
	if err != nil {
		return err
	}

	client := s.client
	if client == nil {
		client = httpclient.Default()
	}
	resp, err := client.Send(ctx, req)
	if err != nil {
		return err
	}
	return DecodeResult(resp.Body(), id, result)
}

// DecodeResult interprets a JSON-RPC response body for the call with
// the given id.
func DecodeResult(body []byte, id string, result any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apperrors.Decode("application/json", err)
	}

	if !isNull(env.Error) {
		var rpcErr Error
		if err := json.Unmarshal(env.Error, &rpcErr); err != nil {
			return apperrors.Decode("application/json", fmt.Errorf("malformed error object: %w", err))
		}
		var data any
		if len(rpcErr.Data) > 0 {
			if err := json.Unmarshal(rpcErr.Data, &data); err != nil {
				return apperrors.Decode("application/json", fmt.Errorf("malformed error data: %w", err))
			}
		}
		return apperrors.RPC(rpcErr.Code, rpcErr.Message, data)
	}

	var gotID string
	if err := json.Unmarshal(env.ID, &gotID); err != nil || gotID != id {
		return apperrors.Decode("application/json", fmt.Errorf("response id %s does not match request id %q", string(env.ID), id)).
			WithDetail("id", id)
	}

	if env.Result == nil {
		return apperrors.Decode("application/json", fmt.Errorf("response has neither result nor error"))
	}
	if result == nil || isNull(env.Result) {
		return nil
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return apperrors.Decode("application/json", err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
