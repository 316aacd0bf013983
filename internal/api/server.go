package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"huntier/internal/apperr"
	"huntier/internal/logger"
	"huntier/internal/match"
	"huntier/internal/model"
	"huntier/internal/suggest"

	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 1 << 20

// IntakeService 处理申请提交。
type IntakeService interface {
	Submit(ctx context.Context, raw map[string]any) (model.Applicant, error)
}

// Catalog 提供职位目录。
type Catalog interface {
	Postings() []model.JobPosting
}

// MetaProvider 返回前端元数据。
type MetaProvider interface {
	Snapshot() MetaResponse
}

// ApplicantLister 供管理端分页查看申请。
type ApplicantLister interface {
	ListApplicants(ctx context.Context, limit, offset int) ([]model.Applicant, error)
	CountApplicants(ctx context.Context) (int64, error)
}

// MetaResponse 暴露表单选项。
type MetaResponse struct {
	ExperienceBuckets []string `json:"experienceBuckets"`
	EducationLevels   []string `json:"educationLevels"`
	Languages         []string `json:"languages"`
	Roles             []string `json:"roles"`
	Skills            []string `json:"skills"`
}

// Options 为 HTTP 层配置。
type Options struct {
	AdminToken   string
	AllowOrigin  string
	StaticDir    string
	MaxBodyBytes int64
}

// Deps 汇总 handler 依赖，为 nil 的依赖对应的路由返回 503。
type Deps struct {
	Intake     IntakeService
	Matcher    match.MatchScorer
	Suggester  suggest.Suggester
	Catalog    Catalog
	Meta       MetaProvider
	Applicants ApplicantLister
	Log        *zap.Logger
	Options    Options
}

// MatchRequest 为匹配接口请求体，limit 缺省时使用默认值。
type MatchRequest struct {
	Skills       []string `json:"skills"`
	DesiredRoles []string `json:"desiredRoles"`
	Limit        *int     `json:"limit"`
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type handler struct {
	deps Deps
	log  *zap.Logger
}

// NewHandler 构造 HTTP 多路复用器。
func NewHandler(deps Deps) http.Handler {
	if deps.Options.MaxBodyBytes <= 0 {
		deps.Options.MaxBodyBytes = defaultMaxBodyBytes
	}
	h := &handler{deps: deps, log: logger.Named(deps.Log, "api")}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/applicants", h.applicants)
	mux.HandleFunc("/api/matches", h.matches)
	mux.HandleFunc("/api/suggestions", h.suggestions)
	mux.HandleFunc("/api/jobs", h.jobs)
	mux.HandleFunc("/api/meta", h.meta)
	mux.HandleFunc("/", h.static)

	return withRequestID(h.log, withCORS(deps.Options.AllowOrigin, mux))
}

func (h *handler) applicants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitApplicant(w, r)
	case http.MethodGet:
		h.listApplicants(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *handler) submitApplicant(w http.ResponseWriter, r *http.Request) {
	if h.deps.Intake == nil {
		writeFail(w, http.StatusServiceUnavailable, "intake disabled")
		return
	}
	var raw map[string]any
	if err := h.decode(w, r, &raw); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	applicant, err := h.deps.Intake.Submit(r.Context(), raw)
	if err != nil {
		h.writeError(w, r, err, "failed to save submission")
		return
	}
	writeOK(w, applicant)
}

func (h *handler) listApplicants(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeFail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.deps.Applicants == nil {
		writeFail(w, http.StatusServiceUnavailable, "listing disabled")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			if v > 100 {
				v = 100
			}
			limit = v
		}
	}
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	offset := (page - 1) * limit

	applicants, err := h.deps.Applicants.ListApplicants(r.Context(), limit+1, offset)
	if err != nil {
		h.writeError(w, r, err, "failed to list applicants")
		return
	}
	total, err := h.deps.Applicants.CountApplicants(r.Context())
	if err != nil {
		h.writeError(w, r, err, "failed to list applicants")
		return
	}

	hasMore := false
	if len(applicants) > limit {
		hasMore = true
		applicants = applicants[:limit]
	}
	if applicants == nil {
		applicants = []model.Applicant{}
	}

	w.Header().Set("X-Page", strconv.Itoa(page))
	w.Header().Set("X-Limit", strconv.Itoa(limit))
	w.Header().Set("X-Has-More", strconv.FormatBool(hasMore))
	w.Header().Set("X-Total", strconv.FormatInt(total, 10))
	writeOK(w, applicants)
}

// authorized 校验 Bearer token；未配置 token 时管理接口始终关闭。
func (h *handler) authorized(r *http.Request) bool {
	want := h.deps.Options.AdminToken
	if want == "" {
		return false
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(want)) == 1
}

func (h *handler) matches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if h.deps.Matcher == nil {
		writeFail(w, http.StatusServiceUnavailable, "matching disabled")
		return
	}
	var req MatchRequest
	if err := h.decode(w, r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := match.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	jobs, err := h.deps.Matcher.Rank(r.Context(), match.Request{
		Skills:       req.Skills,
		DesiredRoles: req.DesiredRoles,
		Limit:        limit,
	})
	if err != nil {
		h.writeError(w, r, err, "failed to rank jobs")
		return
	}
	writeOK(w, jobs)
}

func (h *handler) suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if h.deps.Suggester == nil {
		writeFail(w, http.StatusServiceUnavailable, "suggestions disabled")
		return
	}
	var req suggest.Request
	if err := h.decode(w, r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.deps.Suggester.Suggest(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "failed to build suggestions")
		return
	}
	writeOK(w, out)
}

func (h *handler) jobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	jobs := []model.JobPosting{}
	if h.deps.Catalog != nil {
		jobs = append(jobs, h.deps.Catalog.Postings()...)
	}
	writeOK(w, jobs)
}

func (h *handler) meta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	var data MetaResponse
	if h.deps.Meta != nil {
		data = h.deps.Meta.Snapshot()
	}
	writeOK(w, data)
}

func (h *handler) static(w http.ResponseWriter, r *http.Request) {
	dir := h.deps.Options.StaticDir
	if dir == "" {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "huntier api"})
		return
	}
	if r.URL.Path != "/" {
		http.FileServer(http.Dir(dir)).ServeHTTP(w, r)
		return
	}
	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "huntier api"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode 读取有上限的 JSON 请求体，任何解析失败都归为 ErrMalformedBody。
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.deps.Options.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if err == nil {
		// 请求体只能包含一个 JSON 值
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = fmt.Errorf("trailing data after JSON body")
		}
	}
	if err != nil {
		h.log.Debug("decode body", zap.Error(err), zap.String("request_id", RequestID(r.Context())))
		return apperr.ErrMalformedBody
	}
	return nil
}

// writeError 将校验错误映射为 400，其余错误记录日志后返回固定的 500 消息。
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		writeFail(w, http.StatusBadRequest, verr.Error())
		return
	}
	h.log.Error(internalMsg,
		zap.Error(err),
		zap.String("request_id", RequestID(r.Context())),
	)
	writeFail(w, http.StatusInternalServerError, internalMsg)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
