package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CK6170/sensorcal-go/chart"
	"github.com/CK6170/sensorcal-go/models"
	"github.com/CK6170/sensorcal-go/modern"
	"github.com/CK6170/sensorcal-go/ui"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	maxUpload  = 32 << 20
	maxHistory = 32
)

type Server struct {
	router *mux.Router
	params *models.PARAMETERS
	store  *RunStore
	wsRuns *WSHub
}

// New serves runs over the sensors in p. Uploaded CSVs replace the
// configured paths for a single run.
func New(p *models.PARAMETERS) (*Server, error) {
	if p == nil {
		p = modern.DefaultParameters()
	}
	if err := modern.Validate(p); err != nil {
		return nil, err
	}
	s := &Server{
		router: mux.NewRouter(),
		params: p,
		store:  NewRunStore(maxHistory),
		wsRuns: NewWSHub(),
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.handleListRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs", s.handleCreateRun).Methods(http.MethodPost)
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}/panels", s.handlePanels).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}/grid.svg", s.handleGridSVG).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}/panels/{n:[1-6]}.svg", s.handlePanelSVG).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/runs", s.handleWSRuns)
	s.router.PathPrefix("/").Handler(webHandler())
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, APIError{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		OK:        true,
		Sensors:   len(s.params.SENSORS),
		Runs:      s.store.Len(),
		Timestamp: time.Now(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	recs := s.store.List()
	out := make([]RunResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Response())
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleCreateRun analyses either the uploaded sensor_<i> files or, when the
// form carries none, the configured paths. THRESHOLD and REFERENCE may be
// overridden with the threshold and reference form values.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	p := s.params.Clone()
	if err := parseOverrides(r, p); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := modern.Validate(p); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	series, err := uploadedSeries(r, p)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	id := uuid.NewString()
	onUpdate := func(u modern.StageUpdate) {
		s.wsRuns.Broadcast(WSMessage{Type: "stage", Data: RunEvent{RunID: id, StageUpdate: &u}})
	}
	log := ui.L()
	log.Info("run started", "run", id, "uploaded", series != nil, "threshold", p.THRESHOLD)

	var res *modern.Result
	if series == nil {
		res, err = modern.Run(r.Context(), p, onUpdate)
	} else {
		res, err = modern.Analyze(r.Context(), p, series, onUpdate)
	}
	if err != nil {
		log.Warn("run failed", "run", id, "err", err)
		s.wsRuns.Broadcast(WSMessage{Type: "error", Data: RunEvent{RunID: id, Error: err.Error()}})
		s.writeError(w, statusFor(err), err)
		return
	}

	rec := s.store.Put(id, res)
	log.Info("run finished", "run", id, "inliers", len(res.Inliers), "warnings", len(res.Warnings))
	s.wsRuns.Broadcast(WSMessage{Type: "done", Data: rec.Response()})
	s.writeJSON(w, http.StatusCreated, rec.Response())
}

func parseOverrides(r *http.Request, p *models.PARAMETERS) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return err
		}
	} else if err := r.ParseForm(); err != nil {
		return err
	}
	if v := strings.TrimSpace(r.FormValue("threshold")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid threshold %q", v)
		}
		p.THRESHOLD = f
	}
	if v := strings.TrimSpace(r.FormValue("reference")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid reference %q", v)
		}
		p.REFERENCE = n
	}
	return nil
}

// uploadedSeries returns nil when no sensor file was uploaded. A partial
// upload is an error.
func uploadedSeries(r *http.Request, p *models.PARAMETERS) ([]*models.Series, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		return nil, nil
	}
	series := make([]*models.Series, len(p.SENSORS))
	for i, sensor := range p.SENSORS {
		field := fmt.Sprintf("sensor_%d", i)
		f, hdr, err := r.FormFile(field)
		if err != nil {
			return nil, fmt.Errorf("%w: missing %s", errBadUpload, field)
		}
		s, err := parseUpload(sensor.NAME, f)
		if err != nil {
			return nil, err
		}
		s.Path = hdr.Filename
		series[i] = s
	}
	return series, nil
}

func parseUpload(name string, f multipart.File) (*models.Series, error) {
	defer f.Close()
	return modern.ParseCSV(name, io.LimitReader(f, maxUpload))
}

var errBadUpload = errors.New("bad upload")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadUpload):
		return http.StatusBadRequest
	case errors.Is(err, modern.ErrParse),
		errors.Is(err, modern.ErrNoInliers),
		errors.Is(err, modern.ErrMisaligned):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*RunRecord, bool) {
	id := mux.Vars(r)["id"]
	rec, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("run %q not found", id))
	}
	return rec, ok
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if rec, ok := s.lookup(w, r); ok {
		s.writeJSON(w, http.StatusOK, rec.Response())
	}
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	if rec, ok := s.lookup(w, r); ok {
		s.writeJSON(w, http.StatusOK, rec.Panels)
	}
}

func (s *Server) handleGridSVG(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.WriteGrid(w, rec.Panels); err != nil {
		ui.L().Error("grid svg", "run", rec.ID, "err", err)
	}
}

func (s *Server) handlePanelSVG(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	n, _ := strconv.Atoi(mux.Vars(r)["n"])
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.WriteSVG(w, rec.Panels[n-1]); err != nil {
		ui.L().Error("panel svg", "run", rec.ID, "panel", n, "err", err)
	}
}
