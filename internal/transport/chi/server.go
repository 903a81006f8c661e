// Package chi implements the HTTP API over hand-written chi handlers.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
	analysisuc "github.com/tsalagi-lab/sequoyah/internal/usecase/analysis"
	groupuc "github.com/tsalagi-lab/sequoyah/internal/usecase/group"
	healthuc "github.com/tsalagi-lab/sequoyah/internal/usecase/health"
	searchuc "github.com/tsalagi-lab/sequoyah/internal/usecase/search"
	tagginguc "github.com/tsalagi-lab/sequoyah/internal/usecase/tagging"
)

// errorCode identifies the error class in the JSON error body.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeNotFound            errorCode = "not_found"
	codeAnalyzerUnavailable errorCode = "analyzer_unavailable"
	codeInternalError       errorCode = "internal_error"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes the linguistic search API.
type Server struct {
	search          *searchuc.Service
	tagging         *tagginguc.Service
	groups          *groupuc.Service
	analysis        *analysisuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	tagging *tagginguc.Service,
	groups *groupuc.Service,
	analysis *analysisuc.Service,
	health *healthuc.Service,
	defaultPageSize, maxPageSize int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		tagging:         tagging,
		groups:          groups,
		analysis:        analysis,
		health:          health,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrSentenceNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAnalyzerUnavailable, http.StatusBadGateway, codeAnalyzerUnavailable),
	}
	return s
}

// Routes registers all handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/verses/search", s.handleVerseSearch)

		r.Route("/sentences/{ref_id}/tags", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.Post("/", s.handleUpsertTag)
			r.Delete("/", s.handleRemoveTag)
		})

		r.Route("/tagging-groups", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Post("/", s.handleSavePreset)
			r.Delete("/{id}", s.handleDeletePreset)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", s.handleListGroups)
			r.Get("/{name}", s.handleGroupMembers)
			r.Post("/{name}/members", s.handleAddMember)
			r.Delete("/{name}/members", s.handleRemoveMember)
		})

		r.Get("/verb-stats", s.handleVerbStats)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// --- Search ---

type sentenceItem struct {
	RefID          string           `json:"ref_id"`
	English        string           `json:"english"`
	Syllabary      string           `json:"syllabary"`
	Phonetic       string           `json:"phonetic"`
	Audio          string           `json:"audio,omitempty"`
	Lemma          string           `json:"lemma"`
	IsCommand      bool             `json:"is_command"`
	IsHypothetical bool             `json:"is_hypothetical"`
	IsInability    bool             `json:"is_inability"`
	SubclauseTypes []string         `json:"subclause_types,omitempty"`
	Score          float64          `json:"score,omitempty"`
	Tags           []domain.WordTag `json:"tags"`
}

type searchMeta struct {
	Count         int     `json:"count"`
	Total         int     `json:"total"`
	ExecutionTime float64 `json:"execution_time"`
}

type searchResponse struct {
	Data []sentenceItem `json:"data"`
	Meta searchMeta     `json:"meta"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := bindSearchRequest(r.URL.Query(), s.defaultPageSize, s.maxPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	start := time.Now()
	page, total, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	data := make([]sentenceItem, len(page))
	for i := range page {
		data[i] = sentenceToItem(&page[i])
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Data: data,
		Meta: searchMeta{
			Count:         len(data),
			Total:         total,
			ExecutionTime: time.Since(start).Seconds(),
		},
	})
}

func sentenceToItem(a *domain.AnnotatedSentence) sentenceItem {
	return sentenceItem{
		RefID:          a.RefID,
		English:        a.English,
		Syllabary:      a.Syllabary,
		Phonetic:       a.Phonetic,
		Audio:          a.Audio,
		Lemma:          a.LemmaText,
		IsCommand:      a.IsCommand,
		IsHypothetical: a.IsHypothetical,
		IsInability:    a.IsInability,
		SubclauseTypes: a.SubclauseTypes,
		Score:          a.Score,
		Tags:           a.Tags,
	}
}

type verseItem struct {
	ID      string `json:"id"`
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Number  int    `json:"number"`
	Text    string `json:"text"`
}

type verseResponse struct {
	Data []verseItem `json:"data"`
	Meta searchMeta  `json:"meta"`
}

func (s *Server) handleVerseSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := s.defaultPageSize
	offset := 0
	useLemma := false
	if err := bindInt(query, "limit", &limit); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := bindInt(query, "offset", &offset); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := bindBool(query, "use_lemma", &useLemma); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	start := time.Now()
	verses, total, err := s.search.SearchVerses(r.Context(), query.Get("q"), useLemma, limit, offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	data := make([]verseItem, len(verses))
	for i, v := range verses {
		data[i] = verseItem{ID: v.ID, Book: v.Book, Chapter: v.Chapter, Number: v.Number, Text: v.Text}
	}

	writeJSON(w, http.StatusOK, verseResponse{
		Data: data,
		Meta: searchMeta{
			Count:         len(data),
			Total:         total,
			ExecutionTime: time.Since(start).Seconds(),
		},
	})
}

// --- Tag mutations ---

type upsertTagRequest struct {
	WordIndex *int   `json:"word_index"`
	Tag       string `json:"tag"`
}

func (s *Server) handleUpsertTag(w http.ResponseWriter, r *http.Request) {
	refID := chi.URLParam(r, "ref_id")

	var req upsertTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.WordIndex == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "word_index is required")
		return
	}
	if req.Tag == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "tag is required")
		return
	}

	if err := s.tagging.UpsertTag(r.Context(), refID, *req.WordIndex, req.Tag); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

type removeTagRequest struct {
	WordIndex *int `json:"word_index"`
}

func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	refID := chi.URLParam(r, "ref_id")

	var req removeTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.WordIndex == nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "word_index is required")
		return
	}

	deleted, err := s.tagging.RemoveTag(r.Context(), refID, *req.WordIndex)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "deleted": deleted})
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tagging.ListTags(r.Context(), chi.URLParam(r, "ref_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tags})
}

// --- Tagging-group presets ---

type presetItem struct {
	RefID string          `json:"ref_id"`
	Name  string          `json:"name"`
	Tags  []string        `json:"tags"`
	Query json.RawMessage `json:"query"`
}

func presetToItem(tg *domain.TaggingGroup) presetItem {
	query, _ := json.Marshal(tg.Query)
	tags := tg.Tags
	if tags == nil {
		tags = []string{}
	}
	return presetItem{RefID: tg.RefID, Name: tg.Name, Tags: tags, Query: query}
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.groups.ListPresets(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]presetItem, len(presets))
	for i := range presets {
		items[i] = presetToItem(&presets[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var tg domain.TaggingGroup
	if err := json.NewDecoder(r.Body).Decode(&tg); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := s.groups.SavePreset(r.Context(), &tg)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, presetToItem(&saved))
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.DeletePreset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

// --- Sentence groups ---

type memberRequest struct {
	RefID string `json:"ref_id"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	names, err := s.groups.ListGroups(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": names})
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	recs, err := s.groups.Members(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	data := make([]sentenceItem, len(recs))
	for i := range recs {
		data[i] = sentenceToItem(&domain.AnnotatedSentence{SentenceRecord: recs[i], Tags: []domain.WordTag{}})
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "data": data})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.RefID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "ref_id is required")
		return
	}

	added, err := s.groups.AddMember(r.Context(), chi.URLParam(r, "name"), req.RefID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "added": added})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.RefID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "ref_id is required")
		return
	}

	removed, err := s.groups.RemoveMember(r.Context(), chi.URLParam(r, "name"), req.RefID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "removed": removed})
}

// --- Verb statistics ---

type verbStatItem struct {
	Form           string `json:"form"`
	SubclauseCount int    `json:"subclause_count"`
	MatrixCount    int    `json:"matrix_count"`
	TotalCount     int    `json:"total_count"`
}

func (s *Server) handleVerbStats(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if err := bindInt(r.URL.Query(), "limit", &limit); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	stats, err := s.analysis.Top(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	data := make([]verbStatItem, len(stats))
	for i, st := range stats {
		data[i] = verbStatItem{
			Form:           st.Form,
			SubclauseCount: st.SubclauseCount,
			MatrixCount:    st.MatrixCount,
			TotalCount:     st.TotalCount,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// --- Health and metrics ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Error plumbing ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrSentenceNotFound,
		domain.ErrNotFound,
		domain.ErrAnalyzerUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
