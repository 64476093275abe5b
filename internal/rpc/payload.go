package rpc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// RequestKind discriminates the operations a router can ask a worker
// to perform.
type RequestKind int

const (
	RequestIndexShard RequestKind = iota
	RequestUpdateFile
	RequestQuery
)

// IndexShardRequest seeds a worker with a shard's full file set at a
// given revision. cmd/nova sends it once per shard, to the first worker
// that attaches; the router does not read a Hello's CachedIndexInfo, so
// a worker that reports a warm index is sent the full file set too.
type IndexShardRequest struct {
	Revision uint64     `cbor:"revision"`
	Files    []FileText `cbor:"files"`
}

// UpdateFileRequest pushes one file's new text, advancing the shard to
// Revision.
type UpdateFileRequest struct {
	Revision uint64 `cbor:"revision"`
	Path     string `cbor:"path"`
	Text     string `cbor:"text"`
}

// QueryRequest is a named IDE-surface query (completion, navigation,
// etc.) against a worker's current index. Params is opaque CBOR so
// that new query methods never require a wire-format change.
type QueryRequest struct {
	Method string          `cbor:"method"`
	Params cbor.RawMessage `cbor:"params"`
}

// Request is one outstanding router-to-worker call, tagged by ID for
// matching against its eventual Response or Cancel.
type Request struct {
	ID         uint64
	Kind       RequestKind
	IndexShard *IndexShardRequest
	UpdateFile *UpdateFileRequest
	Query      *QueryRequest
}

// requestWire is Request's wire shape: the ID lives alongside the
// tagged body rather than the RpcPayload envelope, since a Request is
// always addressed.
type requestWire struct {
	ID   uint64          `cbor:"id"`
	Kind string          `cbor:"kind"`
	Body cbor.RawMessage `cbor:"body"`
}

// Response answers a Request by ID. Exactly one of the result fields
// is set when Err is empty; Err set means the request failed and no
// result field is meaningful.
type Response struct {
	ID          uint64          `cbor:"id"`
	Err         string          `cbor:"err"`
	WorkerStats *WorkerStats    `cbor:"worker_stats"`
	IndexDigest *IndexDigest    `cbor:"index_digest"`
	QueryResult cbor.RawMessage `cbor:"query_result"`
}

// CancelPayload asks the receiver to abandon the in-flight request ID,
// if it hasn't already completed.
type CancelPayload struct {
	ID uint64 `cbor:"id"`
}

// ProgressPayload reports incremental progress on a long-running
// request. PercentComplete is nil when the operation can't estimate
// completion (e.g. an open-ended query).
type ProgressPayload struct {
	ID              uint64   `cbor:"id"`
	Message         string   `cbor:"message"`
	PercentComplete *float64 `cbor:"percent_complete"`
}

// PayloadKind discriminates RpcPayload's four recognized shapes, plus
// Unknown for a variant this build doesn't recognize.
type PayloadKind int

const (
	PayloadRequest PayloadKind = iota
	PayloadResponse
	PayloadCancel
	PayloadProgress
	PayloadUnknown
)

// RpcPayload is the decompressed contents of a Packet's Data field:
// one of Request, Response, Cancel, or Progress, or Unknown for a
// variant this build doesn't recognize (forward compatibility, same
// as WireFrame).
type RpcPayload struct {
	Kind     PayloadKind
	Request  *Request
	Response *Response
	Cancel   *CancelPayload
	Progress *ProgressPayload
}

func RequestPayload(r Request) RpcPayload   { return RpcPayload{Kind: PayloadRequest, Request: &r} }
func ResponsePayload(r Response) RpcPayload { return RpcPayload{Kind: PayloadResponse, Response: &r} }
func CancelRpcPayload(c CancelPayload) RpcPayload {
	return RpcPayload{Kind: PayloadCancel, Cancel: &c}
}
func ProgressRpcPayload(p ProgressPayload) RpcPayload {
	return RpcPayload{Kind: PayloadProgress, Progress: &p}
}

func requestKindWire(k RequestKind) (string, error) {
	switch k {
	case RequestIndexShard:
		return "index_shard", nil
	case RequestUpdateFile:
		return "update_file", nil
	case RequestQuery:
		return "query", nil
	default:
		return "", fmt.Errorf("rpc: unknown request kind %d", k)
	}
}

func encodeRequest(r *Request) ([]byte, error) {
	kind, err := requestKindWire(r.Kind)
	if err != nil {
		return nil, err
	}
	var body any
	switch r.Kind {
	case RequestIndexShard:
		body = r.IndexShard
	case RequestUpdateFile:
		body = r.UpdateFile
	case RequestQuery:
		body = r.Query
	}
	encodedBody, err := cbor.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("rpc: encode %s request body: %w", kind, err)
	}
	return cbor.Marshal(requestWire{ID: r.ID, Kind: kind, Body: encodedBody})
}

func decodeRequest(data []byte) (*Request, error) {
	var w requestWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("rpc: decode request envelope: %w", err)
	}
	req := &Request{ID: w.ID}
	switch w.Kind {
	case "index_shard":
		req.Kind = RequestIndexShard
		req.IndexShard = &IndexShardRequest{}
		if err := cbor.Unmarshal(w.Body, req.IndexShard); err != nil {
			return nil, fmt.Errorf("rpc: decode index_shard body: %w", err)
		}
	case "update_file":
		req.Kind = RequestUpdateFile
		req.UpdateFile = &UpdateFileRequest{}
		if err := cbor.Unmarshal(w.Body, req.UpdateFile); err != nil {
			return nil, fmt.Errorf("rpc: decode update_file body: %w", err)
		}
	case "query":
		req.Kind = RequestQuery
		req.Query = &QueryRequest{}
		if err := cbor.Unmarshal(w.Body, req.Query); err != nil {
			return nil, fmt.Errorf("rpc: decode query body: %w", err)
		}
	default:
		return nil, fmt.Errorf("rpc: unrecognized request kind %q", w.Kind)
	}
	return req, nil
}

// payloadEnvelope mirrors wireEnvelope's adjacently-tagged shape for
// RpcPayload, which (unlike Request) has no natural ID field shared
// across all variants.
type payloadEnvelope struct {
	Type string          `cbor:"type"`
	Body cbor.RawMessage `cbor:"body"`
}

// EncodeRpcPayload renders p as CBOR. Encoding a payload built with
// PayloadUnknown is a programmer error.
func EncodeRpcPayload(p RpcPayload) ([]byte, error) {
	env := payloadEnvelope{}
	switch p.Kind {
	case PayloadRequest:
		env.Type = "request"
		encoded, err := encodeRequest(p.Request)
		if err != nil {
			return nil, err
		}
		env.Body = encoded
	case PayloadResponse:
		env.Type = "response"
		encoded, err := cbor.Marshal(p.Response)
		if err != nil {
			return nil, fmt.Errorf("rpc: encode response body: %w", err)
		}
		env.Body = encoded
	case PayloadCancel:
		env.Type = "cancel"
		encoded, err := cbor.Marshal(p.Cancel)
		if err != nil {
			return nil, fmt.Errorf("rpc: encode cancel body: %w", err)
		}
		env.Body = encoded
	case PayloadProgress:
		env.Type = "progress"
		encoded, err := cbor.Marshal(p.Progress)
		if err != nil {
			return nil, fmt.Errorf("rpc: encode progress body: %w", err)
		}
		env.Body = encoded
	default:
		return nil, fmt.Errorf("rpc: cannot encode an Unknown rpc payload")
	}
	return cbor.Marshal(env)
}

// DecodeRpcPayload parses data as an RpcPayload. An unrecognized
// "type" tag, or a request body with an unrecognized request kind,
// decodes to PayloadUnknown rather than returning an error.
func DecodeRpcPayload(data []byte) (RpcPayload, error) {
	var env payloadEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return RpcPayload{}, fmt.Errorf("rpc: decode payload envelope: %w", err)
	}
	switch env.Type {
	case "request":
		req, err := decodeRequest(env.Body)
		if err != nil {
			return RpcPayload{Kind: PayloadUnknown}, nil
		}
		return RpcPayload{Kind: PayloadRequest, Request: req}, nil
	case "response":
		var r Response
		if err := cbor.Unmarshal(env.Body, &r); err != nil {
			return RpcPayload{}, fmt.Errorf("rpc: decode response body: %w", err)
		}
		return RpcPayload{Kind: PayloadResponse, Response: &r}, nil
	case "cancel":
		var c CancelPayload
		if err := cbor.Unmarshal(env.Body, &c); err != nil {
			return RpcPayload{}, fmt.Errorf("rpc: decode cancel body: %w", err)
		}
		return RpcPayload{Kind: PayloadCancel, Cancel: &c}, nil
	case "progress":
		var p ProgressPayload
		if err := cbor.Unmarshal(env.Body, &p); err != nil {
			return RpcPayload{}, fmt.Errorf("rpc: decode progress body: %w", err)
		}
		return RpcPayload{Kind: PayloadProgress, Progress: &p}, nil
	default:
		return RpcPayload{Kind: PayloadUnknown}, nil
	}
}
