package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/maxbolgarin/gitpulse/internal/activity"
	"github.com/maxbolgarin/gitpulse/internal/export"
	"github.com/maxbolgarin/gitpulse/internal/model"
)

type reportResponse struct {
	Report string `json:"report"`
}

// summarize fetches commits of the filter and builds every derived view of them
func (s *Server) summarize(ctx context.Context, filter model.ActivityFilter, q url.Values) (*model.Summary, error) {
	commits, err := s.fetcher.FetchCommits(ctx, filter)
	if err != nil {
		return nil, err
	}
	return activity.Summarize(commits, filter, s.now(), s.location(q)), nil
}

// handleActivity returns the activity summary; a newer request of the same viewer
// cancels this one and its result is never stored
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, ticket := s.guard.Begin(r.Context(), viewerID(r))
	defer s.guard.Release(ticket)

	summary, err := s.summarize(ctx, filter, q)
	if err != nil {
		if ctx.Err() != nil && r.Context().Err() == nil {
			err = model.NewSupersededError()
		}
		s.writeError(w, r, err)
		return
	}

	if !s.guard.Complete(ticket, summary) {
		s.writeError(w, r, model.NewSupersededError())
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleLatestActivity(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.guard.Latest(viewerID(r))
	if !ok {
		s.writeError(w, r, model.NewStatusError(http.StatusNotFound, "", nil))
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	commits, err := s.fetcher.FetchCommits(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	commits = activity.FilterCommits(commits, filter)

	filename := fmt.Sprintf("commits-%s-%dd.parquet", s.now().Format(activity.DateLayout), filter.PeriodDays)
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteCommits(w, commits); err != nil {
		s.log.Err(err, "failed to export commits", "commits", len(commits))
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.fetcher.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.fetcher.ProjectStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := s.fetcher.FetchCommit(r.Context(), projectID, mux.Vars(r)["sha"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.fetcher.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleContributions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		since, err = time.Parse(activity.DateLayout, v)
		if err != nil {
			s.writeError(w, r, model.NewBadRequestError("Invalid since date: "+v))
			return
		}
	}

	contributions, err := s.fetcher.FetchContributions(r.Context(), userID, since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, contributions)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, err := parseDays(q, "timeRange", defaultEventsDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	projectID := model.AllProjects
	if v := q.Get("projectId"); v != "" && v != allValue {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			s.writeError(w, r, model.NewBadRequestError("Invalid projectId: "+v))
			return
		}
		projectID = id
	}

	events, err := s.fetcher.ListEvents(r.Context(), days, projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.fetcher.FetchPushSummary(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.fetcher.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req model.ReportRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.reporter.Generate(r.Context(), req.Date, req.Commits)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reportResponse{Report: out})
}

func (s *Server) handleAnalyzeCommit(w http.ResponseWriter, r *http.Request) {
	var req model.CommitAnalysisRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	analysis, err := s.reporter.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req model.SpeechRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	n, err := s.reporter.Speak(r.Context(), req, w)
	if err != nil {
		if n == 0 {
			s.writeError(w, r, err)
			return
		}
		s.log.Err(err, "audio stream interrupted", "written", n)
	}
}
