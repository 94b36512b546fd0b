package universe

import "repo-universe/internal/shipyard"

// Message types exchanged with the activity feed
const (
	MessageOpen       = "open"
	MessageRepos      = "repos"
	MessageCommitters = "committers"
	MessageCommits    = "commits"
	MessageComplexity = "complexity"

	MessageLogin     = "login"
	MessageSubscribe = "subscribe"
)

type LoginMessage struct {
	Login string `json:"login"`
}

type SubscribeMessage struct {
	Repos []string `json:"repos"`
}

type RepoRef struct {
	FullName string `json:"full_name"`
}

type ReposPayload struct {
	Login string    `json:"login,omitempty"`
	Repos []RepoRef `json:"repos"`
}

type Committer struct {
	Login string `json:"login"`
}

type CommittersPayload struct {
	Repo       string      `json:"repo"`
	Committers []Committer `json:"committers"`
}

type Commit struct {
	Committer string             `json:"committer"`
	Added     shipyard.FileStats `json:"added"`
	Modified  shipyard.FileStats `json:"modified"`
	Removed   shipyard.FileStats `json:"removed"`
}

type CommitsPayload struct {
	Repo    string   `json:"repo"`
	Commits []Commit `json:"commits"`
}

type ComplexityPayload struct {
	Repo       string  `json:"repo"`
	Complexity float64 `json:"complexity"`
}

// Open is published on universe:open each time the feed connects
type Open struct {
	Login string   `json:"login"`
	Repos []string `json:"repos"`
}
