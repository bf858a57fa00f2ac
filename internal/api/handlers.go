package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"WTISentinel/internal/checklist"
	"WTISentinel/internal/model"
)

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleBias(c *gin.Context) {
	ev, err := s.dashboard.Evaluate(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, ev)
}

type waveResponse struct {
	Interval model.Interval           `json:"interval"`
	Label    string                   `json:"label"`
	Wave     model.WaveClassification `json:"wave"`
}

// handleWave answers 200 with an Unavailable tag when the series is too short.
func (s *Server) handleWave(c *gin.Context) {
	interval := model.Interval(c.DefaultQuery("interval", string(model.Interval2h)))
	if interval != model.Interval2h && interval != model.Interval1d {
		errorResponse(c, http.StatusBadRequest, "interval must be 2h or 1d")
		return
	}
	window := 0
	if v := c.Query("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errorResponse(c, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = n
	}

	w, err := s.dashboard.Wave(c.Request.Context(), interval, window)
	if err != nil {
		errorResponse(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, waveResponse{Interval: interval, Label: w.Tag.Label(), Wave: w})
}

func (s *Server) handleSignal(c *gin.Context) {
	sig := s.dashboard.Technical(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"signal": sig, "bullish": sig.Bullish()})
}

func (s *Server) handleGetChecklist(c *gin.Context) {
	c.JSON(http.StatusOK, s.checklist.GetState())
}

type setFactorRequest struct {
	Pass *bool `json:"pass" binding:"required"`
}

func (s *Server) handleSetFactor(c *gin.Context) {
	id, ok := s.parseFactor(c)
	if !ok {
		return
	}
	var req setFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if err := s.checklist.Set(id, *req.Pass); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, s.checklist.GetState())
}

func (s *Server) handleClearFactor(c *gin.Context) {
	id, ok := s.parseFactor(c)
	if !ok {
		return
	}
	if err := s.checklist.Clear(id); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, s.checklist.GetState())
}

func (s *Server) parseFactor(c *gin.Context) (model.FactorID, bool) {
	id, err := checklist.ParseFactor(c.Param("factor"))
	if errors.Is(err, checklist.ErrUnknownFactor) {
		errorResponse(c, http.StatusNotFound, err.Error())
		return "", false
	}
	return id, true
}
