package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

type periodOption struct {
	Label string
	Days  int
}

var periodOptions = []periodOption{
	{"24 hours", 1},
	{"7 days", 7},
	{"14 days", 14},
	{"30 days", 30},
	{"60 days", 60},
	{"3 months", 90},
	{"6 months", 180},
	{"1 year", 365},
	{"2 years", 730},
}

type activityPage struct {
	Filter   model.ActivityFilter
	Query    string
	Periods  []periodOption
	Projects []*model.Project
	Summary  *model.Summary
	Error    string
}

// ReportURL links the report fragment of a date group with the current filters
func (p activityPage) ReportURL(label string) template.URL {
	q, _ := url.ParseQuery(p.Query)
	if q == nil {
		q = url.Values{}
	}
	q.Set("label", label)
	return template.URL("/activity/report?" + q.Encode())
}

type reportPage struct {
	Label   string
	Commits int
	Report  template.HTML
}

func (s *Server) handleActivityPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := activityPage{Periods: periodOptions, Query: r.URL.RawQuery}

	filter, err := parseFilter(q)
	if err != nil {
		s.renderActivity(w, http.StatusBadRequest, page, err)
		return
	}
	page.Filter = filter

	projects, err := s.fetcher.ListProjects(r.Context())
	if err != nil {
		s.log.Warn("cannot list projects for filter", "error", err)
	}
	page.Projects = projects

	page.Summary, err = s.summarize(r.Context(), filter, q)
	if err != nil {
		s.renderActivity(w, model.AsAPIError(err).Status, page, err)
		return
	}

	s.renderActivity(w, http.StatusOK, page, nil)
}

func (s *Server) renderActivity(w http.ResponseWriter, status int, page activityPage, err error) {
	if err != nil {
		page.Error = model.AsAPIError(err).Message
	}
	s.render(w, status, "activity.html", page)
}

// handleReportPage renders an LLM report of one date group, or of all filtered commits
// when the label does not match a group. Failures are rendered in place of the report.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.summarize(r.Context(), filter, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	label := q.Get("label")
	commits := summary.Commits
	for _, group := range summary.Groups {
		if group.Label == label {
			commits = group.Commits
			break
		}
	}
	if label == "" {
		label = "last " + strconv.Itoa(filter.PeriodDays) + " days"
	}

	page := reportPage{
		Label:   label,
		Commits: len(commits),
		Report:  template.HTML(s.reporter.Render(r.Context(), label, model.ToReportCommits(commits))),
	}
	s.render(w, http.StatusOK, "report.html", page)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Err(err, "failed to execute template", "template", name)
	}
}
