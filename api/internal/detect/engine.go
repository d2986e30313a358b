package detect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"voiceguard/api/internal/detect/types"
)

// Engine classifies one validated submission with an external model.
type Engine interface {
	Name() string
	GetModel() string
	Detect(ctx context.Context, in types.DetectRequest) (types.Result, error)
}

var (
	// ErrInvalidAudio means the payload is not decodable base64.
	ErrInvalidAudio = errors.New("audio is not valid base64")
	// ErrEmptyResponse means the model returned no text part at all.
	ErrEmptyResponse = errors.New("empty model response")
)

// IsRateLimited reports whether err is an upstream quota or rate-limit signal.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if st, ok := status.FromError(err); ok && st.Code() == codes.ResourceExhausted {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota")
}
