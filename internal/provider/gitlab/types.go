package gitlab

import "time"

// gitlabEvent is an item of the events API, it is decoded directly to keep push data
type gitlabEvent struct {
	ID             int       `json:"id"`
	ProjectID      int       `json:"project_id"`
	ActionName     string    `json:"action_name"`
	TargetType     string    `json:"target_type"`
	TargetTitle    string    `json:"target_title"`
	AuthorID       int       `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	Author         struct {
		ID        int    `json:"id"`
		Username  string `json:"username"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"author"`
	PushData *struct {
		CommitCount int    `json:"commit_count"`
		Action      string `json:"action"`
		RefType     string `json:"ref_type"`
		Ref         string `json:"ref"`
		CommitTitle string `json:"commit_title"`
	} `json:"push_data"`
}

// listEventsOptions are query parameters of the events endpoints
type listEventsOptions struct {
	Page    int    `url:"page,omitempty"`
	PerPage int    `url:"per_page,omitempty"`
	Action  string `url:"action,omitempty"`
	Scope   string `url:"scope,omitempty"`
	After   string `url:"after,omitempty"`
	Before  string `url:"before,omitempty"`
	Sort    string `url:"sort,omitempty"`
}
