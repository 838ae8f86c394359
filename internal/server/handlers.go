package server

import (
	"net/http"
	"time"

	"github.com/jcnlabs/folio/internal/common"
)

// healthResponse reports process liveness and cache occupancy
type healthResponse struct {
	Status       string `json:"status"`
	Environment  string `json:"environment"`
	UptimeSecs   int64  `json:"uptime_secs"`
	CacheEntries int    `json:"cache_entries"`
}

// handleHealth reports service health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Environment:  s.app.Config.Environment,
		UptimeSecs:   int64(time.Since(s.app.StartupTime) / time.Second),
		CacheEntries: s.app.Cache.Len(),
	})
}

// versionResponse reports build information
type versionResponse struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	GitCommit string `json:"git_commit"`
}

// handleVersion reports build information
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}

	s.writeJSON(w, http.StatusOK, versionResponse{
		Version:   common.GetVersion(),
		Build:     common.GetBuild(),
		GitCommit: common.GetGitCommit(),
	})
}
