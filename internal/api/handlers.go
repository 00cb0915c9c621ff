package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gowtham-1301/cardiopulse/internal/config"
	"github.com/Gowtham-1301/cardiopulse/internal/ecg"
	"github.com/Gowtham-1301/cardiopulse/internal/monitor"
	"github.com/Gowtham-1301/cardiopulse/internal/risk"
	"github.com/Gowtham-1301/cardiopulse/internal/storage"
)

// Handler holds dependencies for API handlers
type Handler struct {
	config    *config.Config
	monitor   *monitor.Monitor
	startTime time.Time
}

// NewHandler creates a new Handler with the given configuration
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetMonitor sets the monitor for the handler
func (h *Handler) SetMonitor(m *monitor.Monitor) {
	h.monitor = m
}

// StatusResponse represents the response for the status endpoint
type StatusResponse struct {
	Status       string  `json:"status"`
	Uptime       string  `json:"uptime"`
	UptimeSecs   float64 `json:"uptime_secs"`
	SessionCount int     `json:"session_count"`
	Version      string  `json:"version"`
}

// GetStatus returns the current system status
func (h *Handler) GetStatus(c *gin.Context) {
	uptime := time.Since(h.startTime)

	response := StatusResponse{
		Status:       "ok",
		Uptime:       uptime.Round(time.Second).String(),
		UptimeSecs:   uptime.Seconds(),
		SessionCount: len(h.config.Sessions),
		Version:      "0.1.0",
	}

	c.JSON(http.StatusOK, response)
}

// SessionResponse represents a monitoring session in API responses
type SessionResponse struct {
	Name   string              `json:"name"`
	Source string              `json:"source"`
	Path   string              `json:"path,omitempty"`
	BPM    float64             `json:"bpm,omitempty"`
	Stats  *storage.TrendStats `json:"stats,omitempty"`
}

// GetSessions returns the list of all monitoring sessions
func (h *Handler) GetSessions(c *gin.Context) {
	sessions := make([]SessionResponse, len(h.config.Sessions))

	// Get stats if monitor is available
	var allStats map[string]*storage.TrendStats
	if h.monitor != nil {
		allStats = h.monitor.GetAllStats()
	}

	for i, s := range h.config.Sessions {
		sessions[i] = SessionResponse{
			Name:   s.Name,
			Source: s.Source,
			Path:   s.Path,
			BPM:    s.BPM,
		}
		if allStats != nil {
			sessions[i].Stats = allStats[s.Name]
		}
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession returns details for a specific session
func (h *Handler) GetSession(c *gin.Context) {
	name := c.Param("name")

	for _, s := range h.config.Sessions {
		if s.Name == name {
			response := SessionResponse{
				Name:   s.Name,
				Source: s.Source,
				Path:   s.Path,
				BPM:    s.BPM,
			}
			if h.monitor != nil {
				response.Stats = h.monitor.GetStats(name)
			}
			c.JSON(http.StatusOK, response)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": "Session not found: " + name,
	})
}

// GetSessionStats returns trend statistics for a specific session
func (h *Handler) GetSessionStats(c *gin.Context) {
	name := c.Param("name")

	if !h.sessionExists(name) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Session not found: " + name,
		})
		return
	}

	if h.monitor == nil {
		c.JSON(http.StatusOK, &storage.TrendStats{Session: name})
		return
	}

	c.JSON(http.StatusOK, h.monitor.GetStats(name))
}

// MetricsResponse carries the latest detection result for a session
type MetricsResponse struct {
	Session     string     `json:"session"`
	Result      ecg.Result `json:"result"`
	SDNNMs      float64    `json:"sdnn_ms"`
	RMSSDMs     float64    `json:"rmssd_ms"`
	RetrievedAt time.Time  `json:"retrieved_at"`
}

// GetSessionMetrics returns the latest detection result for a session
func (h *Handler) GetSessionMetrics(c *gin.Context) {
	name := c.Param("name")

	if !h.sessionExists(name) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Session not found: " + name,
		})
		return
	}

	var result ecg.Result
	if h.monitor != nil {
		result, _ = h.monitor.LatestResult(name)
	}

	c.JSON(http.StatusOK, MetricsResponse{
		Session:     name,
		Result:      result,
		SDNNMs:      ecg.SDNN(result.RRIntervals),
		RMSSDMs:     ecg.RMSSD(result.RRIntervals),
		RetrievedAt: time.Now(),
	})
}

// AssessSessionRisk fuses the latest detection result with a clinical
// profile posted by the caller
func (h *Handler) AssessSessionRisk(c *gin.Context) {
	name := c.Param("name")

	if !h.sessionExists(name) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Session not found: " + name,
		})
		return
	}

	var profile risk.ClinicalProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid clinical profile: " + err.Error(),
		})
		return
	}

	var result ecg.Result
	if h.monitor != nil {
		result, _ = h.monitor.LatestResult(name)
	}

	c.JSON(http.StatusOK, risk.Evaluate(result, profile))
}

// HistoryQuery represents query parameters for historical data
type HistoryQuery struct {
	From       string `form:"from"`
	To         string `form:"to"`
	Resolution string `form:"resolution"`
}

// TrendPoint represents a single trend point in history
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	HR        *float64  `json:"hr"`   // nil for gaps
	SDNN      *float64  `json:"sdnn"` // nil when not computable
}

// HistoryResponse contains historical trend points
type HistoryResponse struct {
	Session    string       `json:"session"`
	From       time.Time    `json:"from"`
	To         time.Time    `json:"to"`
	Resolution string       `json:"resolution"`
	Points     []TrendPoint `json:"points"`
}

// GetSessionHistory returns historical trend data for a specific session
func (h *Handler) GetSessionHistory(c *gin.Context) {
	name := c.Param("name")

	if !h.sessionExists(name) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Session not found: " + name,
		})
		return
	}

	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid query parameters: " + err.Error(),
		})
		return
	}

	// Set defaults
	to := time.Now()
	from := to.Add(-1 * time.Hour)
	resolution := "raw"

	if query.From != "" {
		if parsed, err := time.Parse(time.RFC3339, query.From); err == nil {
			from = parsed
		}
	}
	if query.To != "" {
		if parsed, err := time.Parse(time.RFC3339, query.To); err == nil {
			to = parsed
		}
	}
	if query.Resolution != "" {
		resolution = query.Resolution
	}

	var points []TrendPoint
	if h.monitor != nil {
		raw, err := h.monitor.FetchHistory(name, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to fetch history: " + err.Error(),
			})
			return
		}

		points = make([]TrendPoint, len(raw))
		for i, p := range raw {
			tp := TrendPoint{Timestamp: p.Timestamp}
			if !math.IsNaN(p.HR) {
				hr := p.HR
				tp.HR = &hr
			}
			if !math.IsNaN(p.SDNN) {
				sdnn := p.SDNN
				tp.SDNN = &sdnn
			}
			points[i] = tp
		}
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Session:    name,
		From:       from,
		To:         to,
		Resolution: resolution,
		Points:     points,
	})
}

// GetConfig returns the current configuration (read-only)
func (h *Handler) GetConfig(c *gin.Context) {
	response := gin.H{
		"server": gin.H{
			"address":    h.config.Server.Address,
			"enable_tui": h.config.Server.EnableTUI,
		},
		"monitor": gin.H{
			"sample_rate":    h.config.Monitor.SampleRate,
			"buffer_seconds": h.config.Monitor.BufferSeconds,
			"frame_interval": h.config.Monitor.FrameInterval.String(),
			"data_dir":       h.config.Monitor.DataDir,
		},
		"storage": gin.H{
			"enabled":     h.config.Storage.Enabled,
			"retention":   h.config.Storage.Retention,
			"aggregation": h.config.Storage.Aggregation,
			"xff":         h.config.Storage.XFF,
		},
		"session_count": len(h.config.Sessions),
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) sessionExists(name string) bool {
	for _, s := range h.config.Sessions {
		if s.Name == name {
			return true
		}
	}
	return false
}
