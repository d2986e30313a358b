package types

// Classification is the binary verdict for one clip.
type Classification string

const (
	AIGenerated Classification = "AI_GENERATED"
	Human       Classification = "HUMAN"
)

// Valid reports whether c is one of the two enumerated literals.
func (c Classification) Valid() bool {
	return c == AIGenerated || c == Human
}

const (
	DefaultLanguage = "English"
	DefaultMIMEType = "audio/*"

	// MinAudioChars is the shortest base64 payload accepted as plausible audio.
	MinAudioChars = 2000
)

// Submission is the body of POST /api/detect.
type Submission struct {
	Audio    string `json:"audio"`              // base64, optionally with a data:URL prefix
	Language string `json:"language,omitempty"` // "English" | "Hindi" | "Tamil" | ...
	MIMEType string `json:"mimeType,omitempty"` // "audio/wav" | "audio/*" | ...
}

// DetectRequest is a validated submission handed to the engine.
type DetectRequest struct {
	AudioB64 string // bare base64, data:URL prefix already stripped
	MIMEHint string // MIME from the stripped data:URL prefix, if any
	MIMEType string
	Language string
}

// Result is returned to callers on success.
type Result struct {
	Classification Classification `json:"classification"`
	Confidence     float64        `json:"confidence"`
	Explanation    string         `json:"explanation"`
}

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
	Raw     string `json:"raw,omitempty"`
}
