// Package web hosts the operator console for the shooter: a JSON status
// endpoint plus manual ranging, target adjustment, and firing over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/utils"
	"goji.io"
	"goji.io/pat"

	"github.com/ArthurAllshire/pyinfiniterecharge/shooter"
)

// Server routes operator console requests to a shooter.
type Server struct {
	shooter *shooter.Shooter
	logger  golog.Logger
	mux     *goji.Mux
}

// NewServer builds the console routes for the given shooter.
func NewServer(s *shooter.Shooter, logger golog.Logger) *Server {
	srv := &Server{shooter: s, logger: logger}
	mux := goji.NewMux()
	mux.HandleFunc(pat.Get("/status"), srv.status)
	mux.HandleFunc(pat.Post("/fire"), srv.fire)
	mux.HandleFunc(pat.Put("/targets"), srv.setTargets)
	mux.HandleFunc(pat.Put("/range"), srv.setRange)
	srv.mux = mux
	return srv
}

// ServeHTTP implements http.Handler.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.mux.ServeHTTP(w, r)
}

func (srv *Server) status(w http.ResponseWriter, r *http.Request) {
	status, err := srv.shooter.Status(r.Context())
	if err != nil {
		srv.logger.Errorw("couldn't read shooter status", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, status)
}

func (srv *Server) fire(w http.ResponseWriter, r *http.Request) {
	srv.shooter.Fire()
	w.WriteHeader(http.StatusAccepted)
}

type targetsRequest struct {
	CentreRPS float64 `json:"centre_rps"`
	OuterRPS  float64 `json:"outer_rps"`
}

func (srv *Server) setTargets(w http.ResponseWriter, r *http.Request) {
	var req targetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	srv.shooter.SetTargets(req.CentreRPS, req.OuterRPS)
	writeJSON(w, srv.shooter.Targets())
}

type rangeRequest struct {
	DistanceM float64 `json:"distance_m"`
}

func (srv *Server) setRange(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	srv.shooter.SetRange(req.DistanceM)
	writeJSON(w, srv.shooter.Targets())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RunServer serves the operator console on the given port. This function
// will block until the context is done.
func RunServer(ctx context.Context, port int, s *shooter.Shooter, logger golog.Logger) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:           listener.Addr().String(),
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Handler:        NewServer(s, logger),
	}

	utils.PanicCapturingGo(func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Errorw("error shutting down console", "error", err)
		}
	})

	logger.Infow("serving operator console", "url", fmt.Sprintf("http://%s", listener.Addr().String()))
	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
