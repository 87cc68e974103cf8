package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/log"
)

// handleFrames answers every request on the stream with one frame, in
// request order, until the client sends its shutdown message or leaves.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	simID := r.PathValue("id")
	if _, err := s.src.Simulation(simID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("upgrade failed for simulation %s: %v", simID, err)
		return
	}
	defer conn.Close()

	logger := log.WithFields(log.Fields{"connection": uuid.NewString(), "simulation": simID})
	logger.Info("frame stream opened")

	served := 0
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WithError(err).Warn("frame stream broken")
			}
			return
		}

		var req frame.Request
		if err := json.Unmarshal(payload, &req); err != nil {
			logger.WithError(err).Warn("discarding malformed request")
			continue
		}

		if req.Shutdown {
			logger.WithField("served", served).Info("frame stream shut down by client")
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}

		if req.SimulationID != "" && req.SimulationID != simID {
			logger.WithField("requested", req.SimulationID).Warn("request for another simulation ignored")
			continue
		}
		req.SimulationID = simID

		state, err := s.src.State(simID, req.Number)
		if err != nil {
			if errors.Is(err, ErrFrameOutOfRange) {
				logger.WithField("frame", req.Number).Debug("frame out of range ignored")
				continue
			}
			logger.WithError(err).Error("frame not produced")
			return
		}

		data, err := json.Marshal(frame.Response{Request: req, State: state})
		if err != nil {
			logger.WithError(err).Error("frame not encoded")
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.WithError(err).Warn("frame not delivered")
			return
		}
		served++
	}
}
