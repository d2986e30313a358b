// Package decode turns raw model text into a validated classification result.
//
// Two strategies share the Decoder interface: Strict for replies produced in
// structured-output mode, and Lenient for free text that is expected to
// contain one JSON object somewhere inside it.
package decode

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"voiceguard/api/internal/config"
	"voiceguard/api/internal/detect/prompt"
	"voiceguard/api/internal/detect/types"
	"voiceguard/api/internal/util"
)

// MaxRawChars bounds the raw model text carried by an UnparseableError.
const MaxRawChars = 600

// Decoder normalizes raw model output.
type Decoder interface {
	Decode(raw string) (types.Result, error)
}

// UnparseableError carries a truncated copy of the model output for diagnosis.
type UnparseableError struct {
	Reason string
	Raw    string
}

func (e *UnparseableError) Error() string {
	return "model output unparseable: " + e.Reason
}

func unparseable(raw, reason string) *UnparseableError {
	return &UnparseableError{Reason: reason, Raw: util.Truncate(strings.TrimSpace(raw), MaxRawChars)}
}

// ForMode returns the decoder matching the response mode used for the call.
func ForMode(m config.ResponseMode) Decoder {
	if m == config.ModeText {
		return Lenient{}
	}
	return Strict{}
}

// Strict expects the whole reply to be the JSON object.
type Strict struct{}

func (Strict) Decode(raw string) (types.Result, error) {
	txt := util.StripCodeFences(raw)
	if !json.Valid([]byte(txt)) {
		return types.Result{}, unparseable(raw, "invalid JSON")
	}
	return validate(raw, txt)
}

// Lenient parses the trimmed reply and falls back to the span between the
// first '{' and the last '}'.
type Lenient struct{}

func (Lenient) Decode(raw string) (types.Result, error) {
	txt := strings.TrimSpace(raw)
	if json.Valid([]byte(txt)) {
		return validate(raw, txt)
	}
	start := strings.Index(txt, "{")
	end := strings.LastIndex(txt, "}")
	if start == -1 || end <= start {
		return types.Result{}, unparseable(raw, "no JSON object found")
	}
	chunk := txt[start : end+1]
	if !json.Valid([]byte(chunk)) {
		return types.Result{}, unparseable(raw, "invalid JSON")
	}
	return validate(raw, chunk)
}

var resultSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(prompt.ClassificationSchema))
})

func validate(raw, doc string) (types.Result, error) {
	schema, err := resultSchema()
	if err != nil {
		return types.Result{}, fmt.Errorf("classification schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return types.Result{}, unparseable(raw, err.Error())
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return types.Result{}, unparseable(raw, "schema: "+strings.Join(msgs, "; "))
	}

	var out types.Result
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return types.Result{}, unparseable(raw, err.Error())
	}
	if !out.Classification.Valid() || out.Confidence < 0 || out.Confidence > 1 {
		return types.Result{}, unparseable(raw, "result out of range")
	}
	return out, nil
}
