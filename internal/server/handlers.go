package server

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/internal/pipeline"
)

// maxUploadBytes caps multipart reads slightly above the 10MB document
// limit so an oversized file is rejected by the extractor's own check
// with a clear message rather than a transport error.
const maxUploadBytes = (models.MaxFileSizeMB + 2) << 20

// processTextRequest is the JSON body for pasted-text processing.
type processTextRequest struct {
	Text           *string  `json:"text"`
	Feature        string   `json:"feature" validate:"required"`
	Tier           string   `json:"tier" validate:"omitempty,max=32"`
	Questions      []string `json:"questions" validate:"omitempty,dive,min=1"`
	TargetLanguage string   `json:"target_language" validate:"omitempty,max=64"`
}

// errorResponse is the wire shape for every failure.
type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after_seconds,omitempty"`
}

func (s *Server) handleProcessText(w http.ResponseWriter, r *http.Request) {
	var req processTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondFault(w, fault.New(fault.CodeInvalidInput, "invalid request body"))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondFault(w, fault.Wrap(fault.CodeInvalidInput, "invalid request fields", err))
		return
	}
	if len(req.Questions) > 0 && !models.SequentiallyNumbered(req.Questions) {
		s.respondFault(w, fault.New(fault.CodeInvalidInput,
			"questions must be sequentially numbered starting at 1"))
		return
	}

	s.runPipeline(w, r, pipeline.Request{
		ClientKey:      clientKey(r),
		Tier:           tierOrDefault(req.Tier),
		Feature:        models.Feature(req.Feature),
		Text:           req.Text,
		Questions:      req.Questions,
		TargetLanguage: req.TargetLanguage,
	})
}

func (s *Server) handleProcessFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondFault(w, fault.Wrap(fault.CodeInvalidInput, "invalid multipart body", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondFault(w, fault.New(fault.CodeNullInput, "no file uploaded"))
		return
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondFault(w, fault.Wrap(fault.CodeInvalidInput, "unable to read uploaded file", err))
		return
	}

	questions := r.MultipartForm.Value["questions"]
	if len(questions) > 0 && !models.SequentiallyNumbered(questions) {
		s.respondFault(w, fault.New(fault.CodeInvalidInput,
			"questions must be sequentially numbered starting at 1"))
		return
	}

	s.runPipeline(w, r, pipeline.Request{
		ClientKey:      clientKey(r),
		Tier:           tierOrDefault(r.FormValue("tier")),
		Feature:        models.Feature(r.FormValue("feature")),
		File:           &pipeline.FileUpload{Filename: header.Filename, Content: content},
		Questions:      questions,
		TargetLanguage: r.FormValue("target_language"),
	})
}

// runPipeline executes the pipeline and writes the result or fault.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, req pipeline.Request) {
	result, err := s.pipeline.Process(r.Context(), req)
	if err != nil {
		s.logger.Debug("request rejected",
			zap.String("code", string(fault.CodeOf(err))),
			zap.String("feature", string(req.Feature)),
		)
		s.respondFault(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	actions, err := s.usage.ActionsToday(r.Context(), clientKey(r))
	if err != nil {
		s.logger.Error("usage lookup failed", zap.Error(err))
		s.respondFault(w, fault.Wrap(fault.CodeInternal, "unexpected processing error", err))
		return
	}
	s.respondJSON(w, http.StatusOK, models.UsageSnapshot{
		Tier:             tierOrDefault(r.URL.Query().Get("tier")),
		ActionsUsedToday: actions,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientKey identifies the caller for throttling and quota. RealIP
// middleware has already resolved forwarded addresses.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// tierOrDefault maps an absent tier label to the free tier.
func tierOrDefault(tier string) models.Tier {
	if tier == "" {
		return models.TierFree
	}
	return models.Tier(tier)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondFault writes the structured error for err, with a Retry-After
// header when the throttle supplied a hint.
func (s *Server) respondFault(w http.ResponseWriter, err error) {
	code := fault.CodeOf(err)
	resp := errorResponse{
		Error:      string(code),
		Message:    fault.MessageOf(err),
		RetryAfter: fault.RetryAfterOf(err),
	}
	if resp.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
	}
	s.respondJSON(w, fault.HTTPStatus(code), resp)
}
