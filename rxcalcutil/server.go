/*
Copyright © 2026 the RxCalc authors.
This file is part of RxCalc.

RxCalc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RxCalc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RxCalc.  If not, see <http://www.gnu.org/licenses/>.
*/

package rxcalcutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/ctessum/requestcache"
	"github.com/rxcalc/rxcalc"
	"github.com/rxcalc/rxcalc/internal/hash"
	"github.com/sirupsen/logrus"
)

// Request is the body of a JSON API request. Fields that are not set
// keep the defaults of a new calculation session.
type Request struct {
	Reaction        *rxcalc.Reaction `json:"reaction,omitempty"`
	K               *rxcalc.Value    `json:"k,omitempty"`
	CoerceSymbolicK bool             `json:"coerceSymbolicK,omitempty"`
	Numeric         bool             `json:"numeric,omitempty"`

	// Conditions is decoded on top of the default conditions of the
	// selected mode.
	Conditions json.RawMessage `json:"conditions,omitempty"`

	Interval *rxcalc.ConversionInterval `json:"interval,omitempty"`
	Reactors int                        `json:"reactors,omitempty"`
	Rule     string                     `json:"rule,omitempty"`
	Steps    int                        `json:"steps,omitempty"`
}

// Session creates a calculation session from the request.
func (req *Request) Session() (*rxcalc.Session, error) {
	s := rxcalc.NewSession()
	if req.Reaction != nil {
		r := req.Reaction.Clone()
		if err := r.Validate(); err != nil {
			return nil, err
		}
		s.Reaction = r
	}
	if req.K != nil {
		s.K = *req.K
	}
	s.CoerceSymbolicK = req.CoerceSymbolicK
	s.UseNumerical = req.Numeric
	if len(req.Conditions) > 0 {
		pc := s.Conditions()
		if err := json.Unmarshal(req.Conditions, &pc); err != nil {
			return nil, fmt.Errorf("rxcalc: decoding conditions: %v", err)
		}
		if s.UseNumerical {
			s.NumericConditions = pc
		} else {
			s.SymbolicConditions = pc
		}
	}
	if req.Interval != nil {
		s.PFR.Interval = *req.Interval
		s.CSTR.Interval = *req.Interval
		s.Batch.Interval = *req.Interval
	}
	if req.Reactors != 0 {
		s.CSTR.Reactors = req.Reactors
	}
	var err error
	if s.Rule, err = rxcalc.ParseRule(req.Rule); err != nil {
		return nil, err
	}
	if req.Steps > 0 {
		s.Steps = req.Steps
	}
	return s, nil
}

// RateResponse is the response of the rate endpoint.
type RateResponse struct {
	Reaction string `json:"reaction"`
	rxcalc.RateCalculation
}

// TableResponse is the response of the table endpoint.
type TableResponse struct {
	*rxcalc.Table
	TotalFinalFormula     string `json:"totalFinalFormula"`
	VolumetricFlowFormula string `json:"volumetricFlowFormula"`
}

// Server answers calculation requests over HTTP. Identical requests
// are answered from a cache.
type Server struct {
	// Log receives a message for every request. The default is the
	// standard logrus logger.
	Log logrus.FieldLogger

	cache *requestcache.Cache
	mux   *http.ServeMux
}

type job struct {
	op      string
	session *rxcalc.Session
}

// Operations of the JSON API, which are also the endpoint paths.
const (
	opRate  = "/rate"
	opTable = "/table"
	opPFR   = "/size/pfr"
	opCSTR  = "/size/cstr"
	opBatch = "/size/batch"
)

// ServerConfig holds the settings of a standalone JSON API server.
type ServerConfig struct {
	// Address is the address to listen on, for example ":8080".
	Address string

	// CacheSize is the number of results kept in memory.
	CacheSize int

	// LogLevel is the logging threshold.
	LogLevel string
}

// HTTPServer returns an HTTP server that listens at c.Address and
// passes requests to h.
func (c *ServerConfig) HTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.Address,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// NewServer returns a server that caches up to cacheSize results.
func NewServer(cacheSize int) *Server {
	if cacheSize < 1 {
		cacheSize = 1
	}
	s := &Server{
		Log: logrus.StandardLogger(),
		mux: http.NewServeMux(),
	}
	s.cache = requestcache.NewCache(process, runtime.GOMAXPROCS(-1),
		requestcache.Deduplicate(), requestcache.Memory(cacheSize))
	for _, op := range []string{opRate, opTable, opPFR, opCSTR, opBatch} {
		s.mux.HandleFunc(op, s.handle(op))
	}
	return s
}

// Requests returns the number of requests received by each cache level,
// with the number of calculations performed last.
func (s *Server) Requests() []int { return s.cache.Requests() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func process(ctx context.Context, payload interface{}) (interface{}, error) {
	j := payload.(job)
	s := j.session
	switch j.op {
	case opRate:
		c, err := s.CalculateRateLaw()
		if err != nil {
			return nil, err
		}
		return &RateResponse{Reaction: s.Reaction.String(), RateCalculation: c}, nil
	case opTable:
		t, err := s.Table()
		if err != nil {
			return nil, err
		}
		return &TableResponse{
			Table:                 t,
			TotalFinalFormula:     t.TotalFinalFormula(),
			VolumetricFlowFormula: t.VolumetricFlowFormula(),
		}, nil
	case opPFR:
		return s.SizePFR()
	case opCSTR:
		return s.SizeCSTR()
	case opBatch:
		return s.SizeBatch()
	}
	return nil, fmt.Errorf("rxcalc: invalid operation %q", j.op)
}

func (s *Server) handle(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.Log.WithFields(logrus.Fields{"op": op, "remote": r.RemoteAddr})
		if r.Method != http.MethodPost {
			log.WithField("method", r.Method).Warn("method not allowed")
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "rxcalc: only POST requests are allowed", http.StatusMethodNotAllowed)
			return
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.WithError(err).Warn("decoding request")
			http.Error(w, fmt.Sprintf("rxcalc: decoding request: %v", err), http.StatusBadRequest)
			return
		}
		session, err := req.Session()
		if err != nil {
			log.WithError(err).Warn("invalid request")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, err := s.cache.NewRequest(r.Context(), job{op: op, session: session}, hash.Key(op, req)).Result()
		if err != nil {
			log.WithError(err).Warn("calculation failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.WithError(err).Error("writing response")
			return
		}
		log.WithField("duration", time.Since(start)).Info("request complete")
	}
}
