package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceguard/api/internal/config"
	"voiceguard/api/internal/detect"
	"voiceguard/api/internal/detect/decode"
	"voiceguard/api/internal/detect/types"
)

type fakeModel struct {
	resp   *genai.GenerateContentResponse
	err    error
	calls  int
	parts  []genai.Part
	closed bool
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.parts = parts
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text(s)}}}},
	}
}

func newTestEngine(t *testing.T, mode config.ResponseMode, fm *fakeModel) *Engine {
	t.Helper()
	cfg := config.Defaults()
	cfg.GeminiAPIKey = "test-key"
	cfg.ResponseMode = mode
	e := New(cfg)
	e.newModel = func(context.Context, *Engine) (generator, func() error, error) {
		return fm, func() error { fm.closed = true; return nil }, nil
	}
	return e
}

var wavClip = append([]byte("RIFF\x00\x00\x00\x00WAVEfmt "), make([]byte, 1600)...)

func request(audio []byte) types.DetectRequest {
	return types.DetectRequest{
		AudioB64: base64.StdEncoding.EncodeToString(audio),
		MIMEType: types.DefaultMIMEType,
		Language: "Hindi",
	}
}

func TestDetectSendsInlineAudioAndPrompt(t *testing.T) {
	fm := &fakeModel{resp: textResponse(`{"classification":"HUMAN","confidence":0.82,"explanation":"breaths"}`)}
	e := newTestEngine(t, config.ModeStructured, fm)

	got, err := e.Detect(context.Background(), request(wavClip))
	require.NoError(t, err)
	assert.Equal(t, types.Result{Classification: types.Human, Confidence: 0.82, Explanation: "breaths"}, got)

	assert.Equal(t, 1, fm.calls)
	assert.True(t, fm.closed)
	require.Len(t, fm.parts, 2)

	blob, ok := fm.parts[0].(*genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "audio/wav", blob.MIMEType, "wildcard MIME is resolved by sniffing")
	assert.Equal(t, wavClip, blob.Data)

	text, ok := fm.parts[1].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(text), "LANGUAGE: Hindi")
}

func TestDetectHonorsExplicitMIME(t *testing.T) {
	fm := &fakeModel{resp: textResponse(`{"classification":"HUMAN","confidence":0.5,"explanation":"x"}`)}
	e := newTestEngine(t, config.ModeStructured, fm)

	in := request(wavClip)
	in.MIMEType = "audio/ogg"
	_, err := e.Detect(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", fm.parts[0].(*genai.Blob).MIMEType)
}

func TestDetectTextModeRecoversEmbeddedJSON(t *testing.T) {
	fm := &fakeModel{resp: textResponse(`Sure! {"classification":"AI_GENERATED","confidence":0.7,"explanation":"x"} Thanks`)}
	e := newTestEngine(t, config.ModeText, fm)

	got, err := e.Detect(context.Background(), request(wavClip))
	require.NoError(t, err)
	assert.Equal(t, types.AIGenerated, got.Classification)
}

func TestDetectUnparseable(t *testing.T) {
	fm := &fakeModel{resp: textResponse("I am not able to help with that.")}
	e := newTestEngine(t, config.ModeText, fm)

	_, err := e.Detect(context.Background(), request(wavClip))
	var uerr *decode.UnparseableError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, "I am not able to help with that.", uerr.Raw)
}

func TestDetectErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		fm := &fakeModel{}
		e := newTestEngine(t, config.ModeStructured, fm)
		e.APIKey = ""
		_, err := e.Detect(context.Background(), request(wavClip))
		assert.ErrorContains(t, err, "GEMINI_API_KEY")
		assert.Zero(t, fm.calls)
	})

	t.Run("invalid base64", func(t *testing.T) {
		fm := &fakeModel{}
		e := newTestEngine(t, config.ModeStructured, fm)
		in := request(wavClip)
		in.AudioB64 = strings.Repeat("%", 2400)
		_, err := e.Detect(context.Background(), in)
		assert.ErrorIs(t, err, detect.ErrInvalidAudio)
		assert.Zero(t, fm.calls)
	})

	t.Run("upstream failure is not retried", func(t *testing.T) {
		fm := &fakeModel{err: errors.New("googleapi: Error 429: quota exceeded")}
		e := newTestEngine(t, config.ModeStructured, fm)
		_, err := e.Detect(context.Background(), request(wavClip))
		require.Error(t, err)
		assert.True(t, detect.IsRateLimited(err))
		assert.Equal(t, 1, fm.calls)
	})

	t.Run("empty response", func(t *testing.T) {
		fm := &fakeModel{resp: &genai.GenerateContentResponse{}}
		e := newTestEngine(t, config.ModeStructured, fm)
		_, err := e.Detect(context.Background(), request(wavClip))
		assert.ErrorIs(t, err, detect.ErrEmptyResponse)
	})
}

func TestGenerationConfig(t *testing.T) {
	gc := generationConfig(config.ModeStructured, 300)
	require.NotNil(t, gc.Temperature)
	assert.Equal(t, float32(0), *gc.Temperature)
	require.NotNil(t, gc.MaxOutputTokens)
	assert.Equal(t, int32(300), *gc.MaxOutputTokens)
	assert.Equal(t, "application/json", gc.ResponseMIMEType)
	require.NotNil(t, gc.ResponseSchema)
	assert.Equal(t, []string{"AI_GENERATED", "HUMAN"}, gc.ResponseSchema.Properties["classification"].Enum)
	assert.ElementsMatch(t, []string{"classification", "confidence", "explanation"}, gc.ResponseSchema.Required)

	gc = generationConfig(config.ModeText, 300)
	assert.Empty(t, gc.ResponseMIMEType)
	assert.Nil(t, gc.ResponseSchema)
	assert.Equal(t, float32(0), *gc.Temperature)
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "", firstText(nil))
	assert.Equal(t, "", firstText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
	}}
	assert.Equal(t, `{"a":1}`, firstText(resp))
}
