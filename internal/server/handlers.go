package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

const errNoQuestion = "No question provided."

type chatRequest struct {
	Question string `json:"question"`
}

type suggestionJSON struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

// chatResponse mirrors the chat page's wire format. Question is a pointer so a
// fallback renders "question": null; Suggestions and Fallback are omitted when
// the corpus is unavailable.
type chatResponse struct {
	Answer      string           `json:"answer"`
	Question    *string          `json:"question,omitempty"`
	Score       float64          `json:"score"`
	Suggestions []suggestionJSON `json:"suggestions,omitempty"`
	Fallback    *bool            `json:"fallback,omitempty"`
	Timestamp   string           `json:"timestamp"`
}

// fallbackResponse is chatResponse with question always present.
type fallbackResponse struct {
	Answer      string           `json:"answer"`
	Question    *string          `json:"question"`
	Score       float64          `json:"score"`
	Suggestions []suggestionJSON `json:"suggestions"`
	Fallback    bool             `json:"fallback"`
	Timestamp   string           `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	// An unreadable body is treated like a missing question.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large."})
			return
		}
		req = chatRequest{}
	}

	res, err := s.engine.Ask(r.Context(), req.Question)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: errNoQuestion})
			return
		}
		s.internalError(w, r, err)
		return
	}

	switch {
	case res.Unavailable:
		writeJSON(w, http.StatusOK, chatResponse{
			Answer:    s.opts.UnavailableMessage,
			Score:     0,
			Timestamp: s.timestamp(),
		})
	case res.Fallback:
		writeJSON(w, http.StatusOK, fallbackResponse{
			Answer:      s.opts.FallbackMessage,
			Score:       res.Score,
			Suggestions: suggestions(res.Suggestions),
			Fallback:    true,
			Timestamp:   s.timestamp(),
		})
	default:
		question := res.Best.Question
		fallback := false
		writeJSON(w, http.StatusOK, chatResponse{
			Answer:      res.Best.Answer,
			Question:    &question,
			Score:       res.Score,
			Suggestions: suggestions(res.Suggestions),
			Fallback:    &fallback,
			Timestamp:   s.timestamp(),
		})
	}
}

func suggestions(in []match.Suggestion) []suggestionJSON {
	out := make([]suggestionJSON, len(in))
	for i, sg := range in {
		out[i] = suggestionJSON{Question: sg.Entry.Question, Answer: sg.Entry.Answer, Score: sg.Score}
	}
	return out
}

func (s *Server) handleFAQs(w http.ResponseWriter, _ *http.Request) {
	entries := s.engine.Entries()
	if entries == nil {
		entries = []faq.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type searchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := trimmed(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No query provided.", Code: apperrors.ErrCodeQueryEmpty})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer.", Code: apperrors.ErrCodeInvalidInput})
			return
		}
		limit = n
	}

	hits, err := s.engine.Search(r.Context(), q, limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Hits: hits})
}

type statsResponse struct {
	Corpus  search.Stats       `json:"corpus"`
	Queries telemetry.Snapshot `json:"queries"`
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Corpus:  s.engine.Stats(),
		Queries: s.engine.Metrics().Snapshot(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := s.engine.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"available":  st.Available,
		"entries":    st.Entries,
		"generation": st.Generation,
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{slog.String("request_id", RequestIDFrom(r.Context()))}
	for k, v := range apperrors.FormatForLog(err) {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.logger.Error("request failed", attrs...)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error.", Code: apperrors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
