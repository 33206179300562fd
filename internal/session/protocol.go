package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/gnolang/tsat/internal/rewrite"
	"github.com/gnolang/tsat/internal/runner"
)

// Kind names a request or response variant on the wire.
type Kind string

const (
	KindError          Kind = "error"
	KindVersion        Kind = "version"
	KindLoadRewrites   Kind = "load-rewrites"
	KindSimplify       Kind = "simplify-expressions"
	KindPerformRewrite Kind = "perform-rewrite"
)

var validate = validator.New()

// Request is a decoded request. Exactly the field matching Kind is set,
// except for Version which carries no payload.
type Request struct {
	Kind           Kind
	LoadRewrites   *LoadRewritesRequest
	Simplify       *SimplifyRequest
	PerformRewrite *PerformRewriteRequest
}

type versionRequest struct{}

type LoadRewritesRequest struct {
	Rewrites []rewrite.RuleDefinition `json:"rewrites" validate:"required,dive"`
}

type SimplifyRequest struct {
	Exprs []string `json:"exprs" validate:"required"`
	// ConstantFold and Prune default to true when absent.
	ConstantFold *bool `json:"constant-fold"`
	Prune        *bool `json:"prune"`
}

func (r *SimplifyRequest) constantFold() bool { return r.ConstantFold == nil || *r.ConstantFold }

type PerformRewriteRequest struct {
	Rewrites  []rewrite.RuleDefinition `json:"rewrites" validate:"required,dive"`
	TargetLHS string                   `json:"target-lhs" validate:"required"`
	TargetRHS string                   `json:"target-rhs" validate:"required"`
}

// DecodeRequest parses one request. The kind is read from the "request"
// field and may be spelled in kebab-case, snake_case or PascalCase; field
// names may use kebab-case or snake_case. Unknown kinds and unknown fields
// are rejected.
func DecodeRequest(data []byte) (*Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &TransportError{Err: err}
	}
	tag, ok := raw["request"]
	if !ok {
		return nil, &TransportError{Err: fmt.Errorf("missing field `request`")}
	}
	var kindName string
	if err := json.Unmarshal(tag, &kindName); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("field `request` must be a string")}
	}
	delete(raw, "request")

	fields := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		key := strings.ReplaceAll(k, "_", "-")
		if _, dup := fields[key]; dup {
			return nil, &TransportError{Err: fmt.Errorf("duplicate field `%s`", key)}
		}
		fields[key] = v
	}

	req := &Request{Kind: Kind(kebab(kindName))}
	var target any
	switch req.Kind {
	case KindVersion:
		target = &versionRequest{}
	case KindLoadRewrites:
		req.LoadRewrites = &LoadRewritesRequest{}
		target = req.LoadRewrites
	case KindSimplify:
		req.Simplify = &SimplifyRequest{}
		target = req.Simplify
	case KindPerformRewrite:
		req.PerformRewrite = &PerformRewriteRequest{}
		target = req.PerformRewrite
	default:
		return nil, &TransportError{Err: fmt.Errorf("unknown variant `%s`, expected one of `version`, `load-rewrites`, `simplify-expressions`, `perform-rewrite`", kindName)}
	}

	if err := decodeStrict(fields, target); err != nil {
		return nil, &TransportError{Err: err}
	}
	if err := validate.Struct(target); err != nil {
		return nil, &TransportError{Err: err}
	}
	return req, nil
}

func decodeStrict(fields map[string]json.RawMessage, target any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}

// kebab turns LoadRewrites, load_rewrites and load-rewrites into
// load-rewrites.
func kebab(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			sb.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 && s[i-1] != '_' && s[i-1] != '-' {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	Response Kind   `json:"response"`
	Error    string `json:"error"`
}

type VersionResponse struct {
	Response Kind   `json:"response"`
	Version  string `json:"version"`
}

type LoadRewritesResponse struct {
	Response Kind `json:"response"`
	N        int  `json:"n"`
}

// Comparison is the simplification result for one expression.
type Comparison struct {
	InitialExpr string  `json:"initial_expr"`
	InitialCost float64 `json:"initial_cost"`
	FinalExpr   string  `json:"final_expr"`
	FinalCost   float64 `json:"final_cost"`
}

type SimplifyResponse struct {
	Response   Kind               `json:"response"`
	Iterations []runner.Iteration `json:"iterations"`
	Best       []Comparison       `json:"best"`
}

type PerformRewriteResponse struct {
	Response    Kind     `json:"response"`
	Success     bool     `json:"success"`
	Explanation []string `json:"explanation"`
}

func errorResponse(err error) *ErrorResponse {
	return &ErrorResponse{Response: KindError, Error: err.Error()}
}
