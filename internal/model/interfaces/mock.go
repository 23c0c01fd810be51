package interfaces

import (
	"context"
	"io"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockSourceControl is a mock of SourceControl for tests
type MockSourceControl struct {
	mock.Mock
}

var _ SourceControl = &MockSourceControl{} // Compile-time check

func (m *MockSourceControl) ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, error) {
	ret := m.Called(ctx, filter)
	projects, _ := ret.Get(0).([]*model.Project)
	return projects, ret.Error(1)
}

func (m *MockSourceControl) GetProject(ctx context.Context, projectID int) (*model.Project, error) {
	ret := m.Called(ctx, projectID)
	project, _ := ret.Get(0).(*model.Project)
	return project, ret.Error(1)
}

func (m *MockSourceControl) ListBranches(ctx context.Context, projectID int) ([]*model.Branch, error) {
	ret := m.Called(ctx, projectID)
	branches, _ := ret.Get(0).([]*model.Branch)
	return branches, ret.Error(1)
}

func (m *MockSourceControl) ListContributors(ctx context.Context, projectID int) ([]model.ProjectContributor, error) {
	ret := m.Called(ctx, projectID)
	contributors, _ := ret.Get(0).([]model.ProjectContributor)
	return contributors, ret.Error(1)
}

func (m *MockSourceControl) GetLanguages(ctx context.Context, projectID int) (map[string]float32, error) {
	ret := m.Called(ctx, projectID)
	languages, _ := ret.Get(0).(map[string]float32)
	return languages, ret.Error(1)
}

// ListCommits returns copies of the configured commits, callers are allowed to modify them
func (m *MockSourceControl) ListCommits(ctx context.Context, projectID int, filter model.CommitFilter) ([]*model.Commit, error) {
	ret := m.Called(ctx, projectID, filter)
	commits, _ := ret.Get(0).([]*model.Commit)
	out := make([]*model.Commit, 0, len(commits))
	for _, c := range commits {
		cp := *c
		out = append(out, &cp)
	}
	return out, ret.Error(1)
}

func (m *MockSourceControl) GetCommit(ctx context.Context, projectID int, sha string) (*model.Commit, error) {
	ret := m.Called(ctx, projectID, sha)
	commit, _ := ret.Get(0).(*model.Commit)
	return commit, ret.Error(1)
}

func (m *MockSourceControl) GetCommitDiff(ctx context.Context, projectID int, sha string) ([]*model.FileDiff, error) {
	ret := m.Called(ctx, projectID, sha)
	diffs, _ := ret.Get(0).([]*model.FileDiff)
	return diffs, ret.Error(1)
}

func (m *MockSourceControl) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	ret := m.Called(ctx, filter)
	users, _ := ret.Get(0).([]*model.User)
	return users, ret.Error(1)
}

func (m *MockSourceControl) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	ret := m.Called(ctx, filter)
	events, _ := ret.Get(0).([]*model.Event)
	return events, ret.Error(1)
}

// MockAgentAPI is a mock of AgentAPI for tests
type MockAgentAPI struct {
	mock.Mock
}

var _ AgentAPI = &MockAgentAPI{} // Compile-time check

func (m *MockAgentAPI) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	ret := m.Called(ctx, req)
	resp, _ := ret.Get(0).(model.APIResponse)
	return resp, ret.Error(1)
}

// MockSpeechAPI is a mock of SpeechAPI for tests
type MockSpeechAPI struct {
	mock.Mock
}

var _ SpeechAPI = &MockSpeechAPI{} // Compile-time check

func (m *MockSpeechAPI) Synthesize(ctx context.Context, req model.SpeechRequest) (io.ReadCloser, error) {
	ret := m.Called(ctx, req)
	body, _ := ret.Get(0).(io.ReadCloser)
	return body, ret.Error(1)
}
