// Package web is the thin upload front-end over the shared pipeline.
package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xuri/excelize/v2"

	"lagardere/internal/config"
	"lagardere/internal/fetch"
	"lagardere/internal/pipeline"
	"lagardere/internal/report"
	"lagardere/internal/rows"
	"lagardere/internal/storage"
)

const uploadLimit = 32 << 20

type Server struct {
	router chi.Router
	cfg    config.Config
	db     *storage.DB
	engine *report.Engine
}

// NewServer wires the routes. db may be nil when run records and the link
// cache are disabled.
func NewServer(cfg config.Config, db *storage.DB) (*Server, error) {
	engine, err := report.NewEngine(report.DefaultCatalog())
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, db: db, engine: engine}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Get("/", s.handleIndex)
	r.Post("/report", s.handleReport)
	s.router = r

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, s.cfg.ClientPrefix)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	if err := r.ParseMultipartForm(uploadLimit); err != nil {
		http.Error(w, "невалидна заявка: "+err.Error(), http.StatusBadRequest)
		return
	}
	upload, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "липсва Excel файл", http.StatusBadRequest)
		return
	}
	defer upload.Close()

	prefix := strings.TrimSpace(r.FormValue("prefix"))
	if prefix == "" {
		prefix = s.cfg.ClientPrefix
	}

	f, err := excelize.OpenReader(upload)
	if err != nil {
		http.Error(w, "грешка при четене на Excel: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer f.Close()

	opts := rows.OptionsFromConfig(s.cfg)
	opts.ClientPrefix = prefix
	receipts, err := rows.Load(f, opts)
	if err != nil {
		http.Error(w, "грешка при четене на Excel: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(receipts) == 0 {
		http.Error(w, "няма редове за този клиент", http.StatusUnprocessableEntity)
		return
	}

	resolver := fetch.NewResolver(fetch.NewClient(s.cfg), fetch.NewPacer(time.Duration(s.cfg.FetchDelayMs)*time.Millisecond))
	if s.db != nil && s.cfg.LinkCacheEnabled {
		if cached, err := s.db.AllLinks(); err == nil {
			resolver.Seed(cached)
		}
	}

	result := pipeline.Resolve(r.Context(), receipts, resolver, nil)

	buf := bytes.NewBuffer(nil)
	if err := report.WriteWorkbook(buf, report.Groups(result.Rows), s.engine); err != nil {
		http.Error(w, "грешка при запис: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if s.db != nil {
		if s.cfg.LinkCacheEnabled {
			_ = s.db.UpsertLinks(resolver.Resolved())
		}
		pipeline.RecordRun(s.db, "web:report", header.Filename, result, started)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="lagardere_output.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

const indexPage = `<!doctype html>
<html lang="bg">
<head><meta charset="utf-8"><title>Лагардер – Стокови разписки</title></head>
<body>
<h1>Извличане на стокови разписки</h1>
<form method="post" action="/report" enctype="multipart/form-data">
  <p><label>Файл (.xlsx): <input type="file" name="file" accept=".xlsx" required></label></p>
  <p><label>Фирма започва с: <input type="text" name="prefix" value="%s"></label></p>
  <p><button type="submit">Обработи</button></p>
</form>
</body>
</html>
`
