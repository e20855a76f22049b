package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"energy-dashboard-go/internal/config"
	"energy-dashboard-go/internal/dashboard"
	"energy-dashboard-go/internal/logger"
	"energy-dashboard-go/internal/render"
	"energy-dashboard-go/internal/types"
	"energy-dashboard-go/internal/viewmodel"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	shutdownTimeout = 10 * time.Second
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview one live dashboard session over local HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address of the local preview")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, addr string) error {
	log := logger.New()
	log.WithField("service", "energy-dashboard").Info("starting service")

	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		return err
	}
	board := render.NewBoard(cfg.Theme)
	session, err := startSession(cfg, board, ds)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      newServer(session, board, log).routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// server exposes one dashboard session: the page, its state and an event
// endpoint driving it.
type server struct {
	session *dashboard.Dashboard
	board   *render.Board
	log     *logger.Logger
}

// stateResponse is the body of /state and /events.
type stateResponse struct {
	Year   types.Year           `json:"year"`
	Source types.Source         `json:"source"`
	Mode   viewmodel.DetailMode `json:"mode"`
	Slots  []viewmodel.Slot     `json:"slots"`
}

func newServer(session *dashboard.Dashboard, board *render.Board, log *logger.Logger) *server {
	return &server{session: session, board: board, log: log}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /{$}", s.page)
	mux.HandleFunc("GET /state", s.state)
	mux.HandleFunc("POST /events", s.event)
	return mux
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (s *server) page(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "page")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.board.Render(w); err != nil {
		reqLog.WithError(err).Error("failed to render page")
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (s *server) state(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, s.log.WithRequest(r).WithField("handler", "state"))
}

// event applies one form-encoded event: kind, value, and for legend
// toggles slot and index.
func (s *server) event(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "events")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ev := dashboard.Event{
		Kind:  dashboard.EventKind(r.Form.Get("kind")),
		Value: r.Form.Get("value"),
		Slot:  viewmodel.Slot(r.Form.Get("slot")),
	}
	if raw := r.Form.Get("index"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}
		ev.Index = index
	}
	reqLog = reqLog.WithField("kind", ev.Kind).WithField("value", ev.Value)

	if err := s.session.Handle(ev); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, types.ErrInvalidSelection):
			status = http.StatusBadRequest
		case errors.Is(err, types.ErrDatasetNotLoaded):
			status = http.StatusServiceUnavailable
		}
		reqLog.WithError(err).Warn("event rejected")
		http.Error(w, err.Error(), status)
		return
	}
	reqLog.Info("event applied")
	s.writeState(w, reqLog)
}

func (s *server) writeState(w http.ResponseWriter, reqLog *logrus.Entry) {
	snap, err := s.session.Current()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	mode, err := s.session.Mode()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stateResponse{Year: snap.Year, Source: snap.Source, Mode: mode, Slots: s.board.Live()}); err != nil {
		reqLog.WithError(err).Error("failed to write response")
	}
}
