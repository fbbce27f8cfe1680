package cmd

import (
	"strconv"
	"strings"

	"github.com/masmgr/changed-files-go/internal/changes"
	"github.com/urfave/cli/v2"
)

// EventKind is the type of CI event being resolved.
type EventKind int

const (
	EventPush EventKind = iota
	EventPullRequest
)

func (k EventKind) String() string {
	if k == EventPullRequest {
		return "pull_request"
	}
	return "push"
}

// EventContext holds the CI event fields a run depends on. It is built once
// from flags bound to the GitHub Actions environment.
type EventContext struct {
	Workspace   string
	OutputFile  string
	StepSummary string

	EventName string
	Ref       string
	RefName   string
	BaseRef   string
	Before    string
	Forced    bool

	HeadRepoFork       bool
	PullRequestNumber  string
	PullRequestBaseRef string
	PullRequestHeadRef string
	PullRequestBaseSHA string
}

// NewEventContext reads the event fields from CLI flags.
func NewEventContext(c *cli.Context) EventContext {
	return EventContext{
		Workspace:          c.String("workspace"),
		OutputFile:         c.String("github-output"),
		StepSummary:        c.String("github-step-summary"),
		EventName:          c.String("event-name"),
		Ref:                c.String("ref"),
		RefName:            c.String("ref-name"),
		BaseRef:            c.String("event-base-ref"),
		Before:             c.String("event-before"),
		Forced:             parseBoolString(c.String("event-forced")),
		HeadRepoFork:       parseBoolString(c.String("head-repo-fork")),
		PullRequestNumber:  c.String("pr-number"),
		PullRequestBaseRef: c.String("pr-base-ref"),
		PullRequestHeadRef: c.String("pr-head-ref"),
		PullRequestBaseSHA: c.String("pr-base-sha"),
	}
}

// Kind selects the resolver. Named events win; otherwise a pull request
// base ref marks a pull request.
func (e EventContext) Kind() EventKind {
	switch {
	case strings.HasPrefix(e.EventName, "pull_request"):
		return EventPullRequest
	case e.EventName == "push":
		return EventPush
	case e.PullRequestBaseRef != "":
		return EventPullRequest
	default:
		return EventPush
	}
}

// IsTag reports whether the triggering ref is a tag.
func (e EventContext) IsTag() bool {
	return strings.HasPrefix(e.Ref, "refs/tags/")
}

// SourceBranch is the branch a pushed tag was created from.
func (e EventContext) SourceBranch() string {
	if !e.IsTag() {
		return ""
	}
	return strings.TrimPrefix(e.BaseRef, "refs/heads/")
}

// PushOptions builds push resolver options from the event and range flags.
func (e EventContext) PushOptions(c *cli.Context) changes.PushOptions {
	return changes.PushOptions{
		RefName:               e.RefName,
		IsTag:                 e.IsTag(),
		SourceBranch:          e.SourceBranch(),
		Before:                e.Before,
		Forced:                e.Forced,
		SHA:                   c.String("sha"),
		BaseSHA:               c.String("base-sha"),
		Since:                 c.String("since"),
		Until:                 c.String("until"),
		SinceLastRemoteCommit: c.Bool("since-last-remote-commit"),
	}
}

// PullRequestOptions builds pull request resolver options from the event and range flags.
func (e EventContext) PullRequestOptions(c *cli.Context) changes.PullRequestOptions {
	return changes.PullRequestOptions{
		Number:                e.PullRequestNumber,
		BaseRef:               e.PullRequestBaseRef,
		HeadRef:               e.PullRequestHeadRef,
		BaseCommit:            e.PullRequestBaseSHA,
		HeadRepoFork:          e.HeadRepoFork,
		Before:                e.Before,
		SHA:                   c.String("sha"),
		BaseSHA:               c.String("base-sha"),
		Until:                 c.String("until"),
		SinceLastRemoteCommit: c.Bool("since-last-remote-commit"),
	}
}

func parseBoolString(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
