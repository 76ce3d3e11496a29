package server

import (
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/internal/notify"
	"github.com/mithrel/mdpreview/internal/preview"
	"github.com/mithrel/mdpreview/internal/render"
	"github.com/mithrel/mdpreview/pkg/markdown"
)

const maxBodyBytes = 4 << 20

//go:embed assets/index.html
var indexSource string

var indexTmpl = template.Must(template.New("index").Parse(indexSource))

// Config holds what the server needs besides the engine.
type Config struct {
	Options     markdown.Options
	InitialText string
	Export      export.Options
	Filename    string

	// PingInterval is how often /ws connections are pinged. Zero uses a
	// period inside the pong deadline.
	PingInterval time.Duration
}

// Server serves the live preview page and its render endpoints.
type Server struct {
	cfg    Config
	engine render.Engine
	log    *slog.Logger
	page   *preview.Session
	clock  *preview.Clock

	notes    *notify.Recorder
	notifier notify.Notifier
}

func New(cfg Config, engine render.Engine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Filename == "" {
		cfg.Filename = export.DefaultFilename
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = wsPingPeriod
	}
	clock := &preview.Clock{}
	notes := notify.NewRecorder(0)
	return &Server{
		cfg:      cfg,
		engine:   engine,
		log:      log,
		page:     preview.NewSessionWithClock(engine, cfg.Options, cfg.InitialText, log, clock),
		clock:    clock,
		notes:    notes,
		notifier: notify.Multi{notify.Log{Logger: log}, notes},
	}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/notifications", s.handleNotifications)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// renderRequest is the body of /api/render, /api/export and each /ws
// message.
type renderRequest struct {
	Source             string                 `json:"source"`
	PreserveLineBreaks bool                   `json:"preserve_line_breaks"`
	EnableFormatting   *bool                  `json:"enable_formatting"`
	Substitute         *markdown.Substitution `json:"substitute"`
}

func (r renderRequest) options() markdown.Options {
	opts := markdown.Options{
		PreserveLineBreaks: r.PreserveLineBreaks,
		EnableFormatting:   true,
		Substitute:         r.Substitute,
	}
	if r.EnableFormatting != nil {
		opts.EnableFormatting = *r.EnableFormatting
	}
	return opts
}

func decodeRequest(body io.Reader) (renderRequest, error) {
	var req renderRequest
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	return req, err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cur := s.page.Current()
	opts := s.page.Options()
	data := struct {
		Options     markdown.Options
		Pattern     string
		Replacement string
		Text        string
		Display     template.HTML
		Filename    string
	}{
		Options:  opts,
		Text:     s.page.Text(),
		Display:  template.HTML(cur.Display),
		Filename: s.cfg.Filename,
	}
	if opts.Substitute != nil {
		data.Pattern = opts.Substitute.Pattern
		data.Replacement = opts.Substitute.Replacement
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.Error("render index", "error", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeRequest(r.Body)
	if err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	res := s.page.Update(req.Source, req.options())
	if res.Error != "" {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	etag := ETag(res.HTML)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeRequest(r.Body)
	if err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	frag, err := s.engine.Render(req.Source, req.options())
	if err != nil {
		s.notifier.Notify(r.Context(), notify.Failure(err, "Could not render %s", s.cfg.Filename))
		http.Error(w, "render failed", http.StatusUnprocessableEntity)
		return
	}
	doc, err := export.Document(frag, s.cfg.Export)
	if err != nil {
		s.notifier.Notify(r.Context(), notify.Failure(err, "Could not build %s", s.cfg.Filename))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	s.notifier.Notify(r.Context(), notify.Success("Exported %s", s.cfg.Filename))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(s.cfg.Filename, `"`, "")+`"`)
	_, _ = io.WriteString(w, doc)
}

// handleNotifications lists the notifications that are still visible.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	active := s.notes.Active(time.Now(), notify.DefaultTTL)
	if active == nil {
		active = []notify.Notification{}
	}
	writeJSON(w, http.StatusOK, active)
}

// ETag is a strong validator for a rendered fragment.
func ETag(html string) string {
	sum := blake3.Sum256([]byte(html))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
