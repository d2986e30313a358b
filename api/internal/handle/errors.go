package handle

import (
	"errors"
	"net/http"

	"voiceguard/api/internal/detect"
	"voiceguard/api/internal/detect/decode"
	"voiceguard/api/internal/detect/types"
)

// Category is the "error" field of an ErrorResponse.
type Category string

const (
	MethodNotAllowed       Category = "MethodNotAllowed"
	Unauthorized           Category = "Unauthorized"
	ServerMisconfigured    Category = "ServerMisconfigured"
	PayloadTooLarge        Category = "PayloadTooLarge"
	InvalidJSON            Category = "InvalidJSON"
	MissingField           Category = "MissingField"
	AudioTooShort          Category = "AudioTooShort"
	InvalidAudio           Category = "InvalidAudio"
	ModelOutputUnparseable Category = "ModelOutputUnparseable"
	UpstreamRateLimited    Category = "UpstreamRateLimited"
	DetectFailed           Category = "DetectFailed"
)

type apiError struct {
	Status   int
	Category Category
	Message  string
	Details  string
	Raw      string
}

func (e *apiError) Error() string {
	if e.Details != "" {
		return string(e.Category) + ": " + e.Details
	}
	return string(e.Category) + ": " + e.Message
}

func (e *apiError) body() types.ErrorResponse {
	return types.ErrorResponse{
		Error:   string(e.Category),
		Message: e.Message,
		Details: e.Details,
		Raw:     e.Raw,
	}
}

func newError(status int, c Category, msg string) *apiError {
	return &apiError{Status: status, Category: c, Message: msg}
}

// fromEngine maps an engine failure onto the error taxonomy.
func fromEngine(err error) *apiError {
	var uerr *decode.UnparseableError
	switch {
	case errors.Is(err, detect.ErrInvalidAudio):
		return newError(http.StatusBadRequest, InvalidAudio,
			"The 'audio' field is not valid base64. Send a real MP3/WAV/WEBM file encoded as base64.")
	case errors.As(err, &uerr):
		return &apiError{
			Status:   http.StatusInternalServerError,
			Category: ModelOutputUnparseable,
			Details:  uerr.Reason,
			Raw:      uerr.Raw,
		}
	case detect.IsRateLimited(err):
		return newError(http.StatusTooManyRequests, UpstreamRateLimited,
			"Service busy. Please try again in a few seconds.")
	default:
		return &apiError{
			Status:   http.StatusInternalServerError,
			Category: DetectFailed,
			Details:  err.Error(),
		}
	}
}
