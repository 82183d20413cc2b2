package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ziadkadry99/decrypt/internal/animator"
	"github.com/ziadkadry99/decrypt/internal/blog"
	"github.com/ziadkadry99/decrypt/internal/canvas"
)

const (
	defaultBackgroundW = 1920
	defaultBackgroundH = 1080
	maxBackgroundSide  = 2048
)

// HandlerConfig wires a Handler to its collaborators.
type HandlerConfig struct {
	Index  blog.Index
	Bodies blog.BodyLoader
	Pages  *Pages

	Animation animator.Config
	Seed      uint64

	// StaticDir, when set, is served under /static/.
	StaticDir string
	// Hub enables /ws/reload and the reload snippet on pages.
	Hub *Hub

	Logger *zap.Logger
}

// Handler serves the blog over HTTP.
type Handler struct {
	cfg    HandlerConfig
	logger *zap.Logger
}

// NewHandler creates a new blog handler.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cfg: cfg, logger: logger}
}

// RegisterRoutes mounts the blog routes on the given chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/", h.handleListing)
		r.Get("/index.html", h.handleListing)
		r.Get("/post.html", h.handleDetail)
		r.Get("/style.css", h.handleStyle)
		r.Get("/background.png", h.handleBackground)

		r.Route("/api", func(r chi.Router) {
			r.Get("/posts", h.handleAPIPosts)
			r.Get("/posts/{slug}", h.handleAPIPost)
			r.Get("/categories", h.handleAPICategories)
		})

		if h.cfg.StaticDir != "" {
			r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.cfg.StaticDir))))
		}
	})

	// Websocket connections outlive the request timeout.
	if h.cfg.Hub != nil {
		r.Get("/ws/reload", h.cfg.Hub.ServeWS)
	}
}

func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = blog.CategoryAll
	}
	query := r.URL.Query().Get("q")

	data := ListingData{
		Category:   category,
		Query:      query,
		Searchable: true,
		LiveReload: h.cfg.Hub != nil,
	}

	status := http.StatusOK
	all, err := h.cfg.Index.Posts(r.Context(), blog.CategoryAll, "")
	if err != nil {
		h.logger.Error("listing failed", zap.Error(err))
		status = statusFor(err)
		data.Error = ListingErrorMessage
		data.Filters = h.cfg.Pages.Filters([]string{blog.CategoryAll}, category, func(c string) string {
			return ListingHref(c, query)
		})
	} else {
		data.Filters = h.cfg.Pages.Filters(blog.Categories(all), category, func(c string) string {
			return ListingHref(c, query)
		})
		cards, err := h.cfg.Pages.Cards(blog.ApplyFilter(all, category, query), blog.QueryHref)
		if err != nil {
			h.serverError(w, err)
			return
		}
		data.Cards = cards
	}

	h.writePage(w, status, func(buf *bytes.Buffer) error {
		return h.cfg.Pages.Listing(buf, data)
	})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	data := DetailData{LiveReload: h.cfg.Hub != nil}

	status := http.StatusOK
	d, err := blog.ResolveDetail(r.Context(), h.cfg.Index, h.cfg.Bodies, slug)
	if d != nil {
		data.Post = d.Post
		data.DisplayDate = d.DisplayDate
		data.PageTitle = h.cfg.Pages.PostTitle(d.Post)
		data.Body = d.Body
	}
	if err != nil {
		h.logger.Warn("detail view failed", zap.String("slug", slug), zap.Error(err))
		status = statusFor(err)
		data.Error = DetailErrorMessage(err)
	}

	h.writePage(w, status, func(buf *bytes.Buffer) error {
		return h.cfg.Pages.Detail(buf, data)
	})
}

func (h *Handler) handleStyle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(cssContent))
}

func (h *Handler) handleBackground(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width := intParam(q, "w", defaultBackgroundW, 1, maxBackgroundSide)
	height := intParam(q, "h", defaultBackgroundH, 1, maxBackgroundSide)
	dpr := 1.0
	if v, err := strconv.ParseFloat(q.Get("dpr"), 64); err == nil && v > 0 {
		dpr = v
	}

	img := canvas.Background(h.cfg.Animation, float64(width), float64(height), dpr, h.cfg.Seed, h.logger)
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

func (h *Handler) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	posts, err := h.cfg.Index.Posts(r.Context(), q.Get("category"), q.Get("q"))
	if err != nil {
		h.logger.Error("api listing failed", zap.Error(err))
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// apiPost is a post record enriched with its display fields.
type apiPost struct {
	blog.Post
	DisplayDate string `json:"display_date"`
	Href        string `json:"href"`
}

func (h *Handler) handleAPIPost(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, leaving the param escaped.
	slug := chi.URLParam(r, "slug")
	if r.URL.RawPath != "" {
		var err error
		if slug, err = url.PathUnescape(slug); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
	}
	p, err := h.cfg.Index.Post(r.Context(), slug)
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, apiPost{
		Post:        p,
		DisplayDate: blog.FormatDate(p.Date),
		Href:        blog.QueryHref(p.Slug),
	})
}

func (h *Handler) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	all, err := h.cfg.Index.Posts(r.Context(), blog.CategoryAll, "")
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, blog.Categories(all))
}

func (h *Handler) writePage(w http.ResponseWriter, status int, fill func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error("internal error", zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// statusFor maps blog errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, blog.ErrMissingParam):
		return http.StatusBadRequest
	case errors.Is(err, blog.ErrNotFound), errors.Is(err, blog.ErrMissingResource):
		return http.StatusNotFound
	case errors.Is(err, blog.ErrLoad), errors.Is(err, blog.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func intParam(q url.Values, key string, def, lo, hi int) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return def
	}
	return min(max(v, lo), hi)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
