package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cherrypick14/polkadot-hot-potato/chain"
	"github.com/Cherrypick14/polkadot-hot-potato/contract"
	"github.com/Cherrypick14/polkadot-hot-potato/sdk"
)

type server struct {
	chain *chain.Chain
	log   *zap.Logger
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tx", s.handleTx)
	mux.HandleFunc("GET /game", s.handleGame)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type txRequest struct {
	Sender  string `json:"sender"`
	Op      string `json:"op"`
	Payload string `json:"payload"`
}

// handleTx submits a transaction to the chain and returns its receipt.
func (s *server) handleTx(w http.ResponseWriter, r *http.Request) {
	var req txRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Sender == "" || req.Op == "" {
		http.Error(w, "sender and op are required", http.StatusBadRequest)
		return
	}

	rec, err := s.chain.Submit(sdk.Address(req.Sender), req.Op, req.Payload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleGame returns the full contract snapshot.
func (s *server) handleGame(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.chain.Snapshot()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleEvents streams contract events over SSE until the client leaves.
func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events, cancel := s.chain.Subscribe(16)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("event: " + ev.Type + "\ndata: " + string(data) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type errorResponse struct {
	Error string        `json:"error"`
	Code  contract.Code `json:"code,omitempty"`
}

// writeError maps domain rejections to 422 and host faults to 500.
func (s *server) writeError(w http.ResponseWriter, err error) {
	code := contract.CodeOf(err)
	status := http.StatusUnprocessableEntity
	if code == "" {
		status = http.StatusInternalServerError
		s.log.Error("host fault", zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
