package server

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/maxbolgarin/servex/v2"
)

const (
	defaultPeriodDays = 7
	maxPeriodDays     = 730
	defaultEventsDays = 7
)

// allValue is the select option that disables a filter
const allValue = "all"

type errorResponse struct {
	Error string          `json:"error"`
	Code  model.ErrorCode `json:"code"`
}

// parseFilter reads period, project, contributor, today and stats query parameters
func parseFilter(q url.Values) (model.ActivityFilter, error) {
	filter := model.ActivityFilter{
		PeriodDays:  defaultPeriodDays,
		ProjectID:   model.AllProjects,
		Contributor: model.AllContributors,
	}

	if v := q.Get("period"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 || days > maxPeriodDays {
			return filter, model.NewBadRequestError("Invalid period: " + v)
		}
		filter.PeriodDays = days
	}

	if v := q.Get("project"); v != "" && v != allValue {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return filter, model.NewBadRequestError("Invalid project: " + v)
		}
		filter.ProjectID = id
	}

	if v := q.Get("contributor"); v != allValue {
		filter.Contributor = strings.TrimSpace(v)
	}

	var err error
	if filter.IncludeToday, err = parseBool(q.Get("today")); err != nil {
		return filter, model.NewBadRequestError("Invalid today flag")
	}
	if filter.WithStats, err = parseBool(q.Get("stats")); err != nil {
		return filter, model.NewBadRequestError("Invalid stats flag")
	}

	return filter, nil
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// parseDays reads a positive number of days or returns def when the parameter is absent
func parseDays(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	days, err := strconv.Atoi(v)
	if err != nil || days <= 0 || days > maxPeriodDays {
		return 0, model.NewBadRequestError("Invalid " + name + ": " + v)
	}
	return days, nil
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, model.NewBadRequestError("Invalid id")
	}
	return id, nil
}

// viewerID is the X-Viewer-ID header or the remote host of the request
func viewerID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(ViewerHeader)); v != "" {
		return v
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// location is the tz query parameter or the configured location
func (s *Server) location(q url.Values) *time.Location {
	if tz := q.Get("tz"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return s.loc
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, out any) error {
	body, err := servex.NewContext(w, r).Read()
	if err != nil {
		return model.NewBadRequestError("Failed to read request body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return model.NewBadRequestError("Invalid JSON body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Err(err, "failed to write response")
	}
}

// writeError responds with {error, code} and the status of the classified error
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := model.AsAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.log.Err(err, "request failed", "path", r.URL.Path, "code", apiErr.Code)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "code", apiErr.Code, "error", err)
	}
	s.writeJSON(w, apiErr.Status, errorResponse{Error: apiErr.Message, Code: apiErr.Code})
}
