package prompt

import (
	"strings"

	"voiceguard/api/internal/detect/types"
)

// ClassificationSchema is the JSON schema every model reply must satisfy.
const ClassificationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "classification": { "type": "string", "enum": ["AI_GENERATED", "HUMAN"] },
    "confidence": { "type": "number", "minimum": 0, "maximum": 1 },
    "explanation": { "type": "string" }
  },
  "required": ["classification", "confidence", "explanation"]
}`

const detectTemplate = `You are an Audio Forensics AI. Classify the input audio as either "AI_GENERATED" or "HUMAN".
LANGUAGE: {{language}}
Use the language to set your expectations for natural rhythm, phonetics and intonation.

EVALUATION CRITERIA:
1. Breath & pauses: real speakers breathe. Synthetic speech often omits breaths or places them at unnatural intervals.
2. Prosody & intonation: human pitch curves are irregular. Synthetic speech tends to flat or perfectly cyclic pitch patterns.
3. Spectral artifacts: metallic ringing, phasing or high-frequency buzz typical of neural vocoders.
4. Micro-articulation: lip smacks, tongue clicks and throat clearing are strong indicators of HUMAN speech.
5. Background: absolute digital silence between words is a strong indicator of AI_GENERATED.

Return ONLY a valid JSON object (no markdown, no extra text) in this format:
{
  "classification": "AI_GENERATED" | "HUMAN",
  "confidence": 0.0-1.0,
  "explanation": "short technical explanation"
}`

// Detect returns the classification prompt for the given spoken language.
func Detect(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		language = types.DefaultLanguage
	}
	return strings.Replace(detectTemplate, "{{language}}", language, 1)
}
