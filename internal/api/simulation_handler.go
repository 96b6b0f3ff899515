package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nucgen/app"
	"nucgen/domain/core"
	"nucgen/ports"
)

// defaultResponseEvents caps the events embedded in a simulate response
// when the client does not choose. The run record always counts the full
// stream; pass max_events = -1 for everything.
const defaultResponseEvents = 10000

type simulateRequest struct {
	app.SimulateRequest
	// Stream names the SSE stream progress is broadcast on; empty means no
	// progress events.
	Stream string `json:"stream,omitempty"`
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.MaxEvents == 0 {
		req.MaxEvents = defaultResponseEvents
	}

	if req.Stream != "" {
		s.hub.Broadcast(RunEvent{
			Stream:  req.Stream,
			Phase:   "accepted",
			Nuclide: req.Nuclide,
			Total:   req.Chains,
		})
		stream := req.Stream
		nuclide := req.Nuclide
		req.Progress = func(done, total int64) {
			s.hub.Broadcast(RunEvent{
				Stream:  stream,
				Phase:   "running",
				Nuclide: nuclide,
				Done:    done,
				Total:   total,
			})
		}
	}

	res, err := s.simulation.Run(c.Request.Context(), req.SimulateRequest)
	if err != nil {
		if req.Stream != "" {
			s.hub.Broadcast(RunEvent{
				Stream:  req.Stream,
				Phase:   "failed",
				Nuclide: req.Nuclide,
				Error:   err.Error(),
			})
		}
		s.renderError(c, err)
		return
	}

	if req.Stream != "" {
		s.hub.Broadcast(RunEvent{
			Stream:     req.Stream,
			Phase:      "done",
			RunID:      res.Run.ID.String(),
			Nuclide:    res.Run.Nuclide,
			Done:       res.Run.Chains,
			Total:      res.Run.Chains,
			EventCount: res.Run.EventCount,
		})
	}
	s.log.Info("run %s: %d chains of %s -> %d events in %dms",
		res.Run.ID, res.Run.Chains, res.Run.Nuclide, res.Run.EventCount, res.Run.RuntimeMS)
	c.JSON(http.StatusOK, gin.H{
		"run":         res.Run,
		"fingerprint": res.Run.Fingerprint(),
		"events":      res.Events,
		"truncated":   int64(len(res.Events)) < res.Run.EventCount,
	})
}

func (s *Server) handleRunList(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run persistence is not configured"})
		return
	}

	filters := ports.RunFilters{Nuclide: c.Query("nuclide"), Limit: 50}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		filters.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be non-negative"})
			return
		}
		filters.Offset = n
	}

	recs, err := s.runs.ListRuns(c.Request.Context(), filters)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": recs, "count": len(recs)})
}

func (s *Server) handleRunGet(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run persistence is not configured"})
		return
	}
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.runs.GetRun(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": rec, "fingerprint": rec.Fingerprint()})
}
