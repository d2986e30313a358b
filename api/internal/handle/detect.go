package handle

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"voiceguard/api/internal/detect/types"
	"voiceguard/api/internal/metrics"
	"voiceguard/api/internal/util"
)

// Detect serves POST /api/detect. Checks run in a fixed order and the first
// failing one decides the reply.
func (h *Handle) Detect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := uuid.NewString()
	w.Header().Set("X-Request-ID", id)

	res, aerr := h.detect(w, r)
	if aerr != nil {
		if aerr.Status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", http.MethodPost)
		}
		if aerr.Raw != "" {
			log.Printf("detect id=%s unparseable model output: %q", id, util.Truncate(aerr.Raw, 200))
		}
		log.Printf("detect id=%s status=%d outcome=%s dur=%s err=%v", id, aerr.Status, aerr.Category, time.Since(start).Round(time.Millisecond), aerr)
		metrics.DetectResultsTotal.WithLabelValues(string(aerr.Category)).Inc()
		writeJSON(w, aerr.Status, aerr.body())
		return
	}

	log.Printf("detect id=%s status=200 outcome=%s confidence=%.2f dur=%s", id, res.Classification, res.Confidence, time.Since(start).Round(time.Millisecond))
	metrics.DetectResultsTotal.WithLabelValues(string(res.Classification)).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *Handle) detect(w http.ResponseWriter, r *http.Request) (types.Result, *apiError) {
	if r.Method != http.MethodPost {
		return types.Result{}, newError(http.StatusMethodNotAllowed, MethodNotAllowed, "Method Not Allowed. Use POST.")
	}
	if err := h.auth.Authorize(r); err != nil {
		return types.Result{}, newError(http.StatusUnauthorized, Unauthorized, "Invalid or missing 'x-api-key' header.")
	}
	if h.misconfig != "" {
		return types.Result{}, newError(http.StatusInternalServerError, ServerMisconfigured, h.misconfig)
	}

	var sub types.Submission
	if r.Body != nil {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
		err := dec.Decode(&sub)
		if err == nil {
			// exactly one JSON value per body
			if err = dec.Decode(&json.RawMessage{}); errors.Is(err, io.EOF) {
				err = nil
			} else if err == nil {
				err = errors.New("unexpected data after JSON value")
			}
		} else if errors.Is(err, io.EOF) {
			err = nil
		}
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return types.Result{}, newError(http.StatusRequestEntityTooLarge, PayloadTooLarge, "Request body exceeds the configured size limit.")
			}
			return types.Result{}, newError(http.StatusBadRequest, InvalidJSON, "bad json: "+err.Error())
		}
	}

	if strings.TrimSpace(sub.Audio) == "" {
		return types.Result{}, newError(http.StatusBadRequest, MissingField,
			"Send JSON body: { audio: <base64>, language: <string optional>, mimeType: <string optional> }")
	}

	payload, mimeHint := util.SplitDataURL(sub.Audio)
	if len(payload) < types.MinAudioChars {
		return types.Result{}, newError(http.StatusBadRequest, AudioTooShort,
			"Your base64 audio looks too small. Please send a real MP3/WAV/WEBM base64 (a few KB+).")
	}

	in := types.DetectRequest{
		AudioB64: payload,
		MIMEHint: mimeHint,
		MIMEType: strings.TrimSpace(sub.MIMEType),
		Language: strings.TrimSpace(sub.Language),
	}
	if in.MIMEType == "" {
		in.MIMEType = types.DefaultMIMEType
	}
	if in.Language == "" {
		in.Language = types.DefaultLanguage
	}

	called := time.Now()
	res, err := h.engine.Detect(r.Context(), in)
	metrics.UpstreamDuration.WithLabelValues(h.engine.Name(), h.engine.GetModel()).Observe(time.Since(called).Seconds())
	if err != nil {
		return types.Result{}, fromEngine(err)
	}
	return res, nil
}
