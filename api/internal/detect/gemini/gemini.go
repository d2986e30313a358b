package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"voiceguard/api/internal/config"
	"voiceguard/api/internal/detect"
	"voiceguard/api/internal/detect/decode"
	"voiceguard/api/internal/detect/prompt"
	"voiceguard/api/internal/detect/types"
	"voiceguard/api/internal/util"
)

// generator is the part of *genai.GenerativeModel the engine needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type modelFactory func(ctx context.Context, e *Engine) (generator, func() error, error)

type Engine struct {
	APIKey          string
	Model           string
	MaxOutputTokens int32
	Mode            config.ResponseMode

	decoder  decode.Decoder
	newModel modelFactory
}

func New(cfg config.Config) *Engine {
	return &Engine{
		APIKey:          strings.TrimSpace(cfg.GeminiAPIKey),
		Model:           strings.TrimSpace(cfg.GeminiModel),
		MaxOutputTokens: cfg.MaxOutputTokens,
		Mode:            cfg.ResponseMode,
		decoder:         decode.ForMode(cfg.ResponseMode),
		newModel:        sdkModel,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Detect sends the clip inline with the forensic prompt and decodes the verdict.
// Exactly one GenerateContent call is made; failures are returned as is.
func (e *Engine) Detect(ctx context.Context, in types.DetectRequest) (types.Result, error) {
	if e.APIKey == "" {
		return types.Result{}, errors.New("GEMINI_API_KEY is empty")
	}

	audio, err := util.DecodeBase64(in.AudioB64)
	if err != nil || len(audio) == 0 {
		return types.Result{}, fmt.Errorf("gemini detect: %w", detect.ErrInvalidAudio)
	}
	mime := util.PickMIME(in.MIMEType, in.MIMEHint, audio)

	m, closeFn, err := e.newModel(ctx, e)
	if err != nil {
		return types.Result{}, fmt.Errorf("gemini detect: %w", err)
	}
	defer closeFn()

	parts := []genai.Part{
		&genai.Blob{MIMEType: mime, Data: audio},
		genai.Text(prompt.Detect(in.Language)),
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return types.Result{}, fmt.Errorf("gemini detect: %w", err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return types.Result{}, fmt.Errorf("gemini detect: %w", detect.ErrEmptyResponse)
	}
	return e.decoder.Decode(txt)
}

// generationConfig is deterministic and bounded; structured mode adds the schema.
func generationConfig(mode config.ResponseMode, maxTokens int32) genai.GenerationConfig {
	gc := genai.GenerationConfig{
		Temperature:     ptrFloat32(0),
		MaxOutputTokens: ptrInt32(maxTokens),
	}
	if mode == config.ModeStructured {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = responseSchema()
	}
	return gc
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"classification": {
				Type: genai.TypeString,
				Enum: []string{string(types.AIGenerated), string(types.Human)},
			},
			"confidence":  {Type: genai.TypeNumber, Description: "certainty between 0.0 and 1.0"},
			"explanation": {Type: genai.TypeString, Description: "short technical explanation"},
		},
		Required: []string{"classification", "confidence", "explanation"},
	}
}

func sdkModel(ctx context.Context, e *Engine) (generator, func() error, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return nil, nil, err
	}
	m := cl.GenerativeModel(e.Model)
	if m == nil {
		_ = cl.Close()
		return nil, nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = generationConfig(e.Mode, e.MaxOutputTokens)
	return m, cl.Close, nil
}

// firstText joins the text parts of the first candidate that has content.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
