// Package hierarchy walks a GitLab group hierarchy and builds a labeled tree
// of its subgroups and projects.
//
// The walk is sequential and depth first. It is bounded by the requested
// maximum depth, by a hard ceiling that no request can lift, and by a page
// limit per listing. A failure listing one group's children is recorded in
// the tree as an error node; only a failure resolving the root group is
// returned to the caller.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrGroupNotFound is reported by a Source when a group does not exist.
	ErrGroupNotFound = errors.New("gitlab group not found")
	// ErrForbidden is reported by a Source when the token cannot read an entity.
	ErrForbidden = errors.New("gitlab access forbidden")
)

const (
	// DepthCeiling bounds recursion regardless of Request.MaxDepth.
	DepthCeiling = 20
	// MaxErrorLen is the number of runes of an error message kept in an
	// error node label.
	MaxErrorLen = 60
	// MaxPageSize is the largest per_page GitLab honours.
	MaxPageSize = 100

	DefaultMaxDepth      = 3
	DefaultProjectLimit  = 20
	DefaultSubgroupLimit = 15

	MaxDepthLabel     = "... max depth reached"
	NotAccessibleText = "error: not accessible"
)

// Entity is anything the inactive filter can be applied to.
type Entity interface {
	Inactive() bool
}

// Group is a GitLab group or subgroup as seen by the walker.
type Group struct {
	ID              int
	Name            string
	FullPath        string
	ParentID        *int
	PendingDeletion bool
}

// Inactive reports whether the group is scheduled for deletion.
func (g *Group) Inactive() bool { return g.PendingDeletion }

// Project is a GitLab project as seen by the walker.
type Project struct {
	ID                int
	Name              string
	PathWithNamespace string
	Archived          bool
	PendingDeletion   bool
}

// Inactive reports whether the project is scheduled for deletion.
func (p *Project) Inactive() bool { return p.PendingDeletion }

// Source is the remote API the walker reads from. Implementations return an
// error wrapping ErrGroupNotFound when a group does not exist.
type Source interface {
	Group(id string) (*Group, error)
	GroupProjects(groupID int, limit int) ([]*Project, error)
	Subgroups(groupID int, limit int) ([]*Group, error)
}

// Keep is the single inactive-entity policy: an inactive entity is kept
// only when includeInactive is set.
func Keep(includeInactive bool, e Entity) bool {
	return includeInactive || !e.Inactive()
}

// Request describes one traversal.
type Request struct {
	// RootID is a numeric group id or a full group path.
	RootID          string
	MaxDepth        int
	IncludeInactive bool
	ProjectLimit    int
	SubgroupLimit   int
}

func (r Request) normalize() (Request, error) {
	r.RootID = strings.TrimSpace(r.RootID)
	if r.RootID == "" {
		return r, errors.New("root group id must not be empty")
	}
	if r.MaxDepth < 0 {
		return r, errors.Errorf("max depth must not be negative, got %d", r.MaxDepth)
	}
	if r.MaxDepth > DepthCeiling {
		r.MaxDepth = DepthCeiling
	}
	r.ProjectLimit = pageSize(r.ProjectLimit, DefaultProjectLimit)
	r.SubgroupLimit = pageSize(r.SubgroupLimit, DefaultSubgroupLimit)
	return r, nil
}

func pageSize(n, def int) int {
	switch {
	case n <= 0:
		return def
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// RootError is returned by Walk when the root group cannot be resolved. No
// tree is produced in that case.
type RootError struct {
	RootID string
	Err    error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("resolving root group %s: %s", e.RootID, e.Err)
}

// Cause lets errors.Cause reach the Source error.
func (e *RootError) Cause() error { return e.Err }

func (e *RootError) Unwrap() error { return e.Err }

// NotFound reports whether the root group does not exist.
func (e *RootError) NotFound() bool {
	return errors.Is(e.Err, ErrGroupNotFound)
}

// Logger receives debug output of the walk.
type Logger interface {
	Debugf(format string, values ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Option configures a walk.
type Option func(*walker)

// WithObserver registers fn to be called each time a node is attached to the
// tree, in attachment order and on the walking goroutine.
func WithObserver(fn func(parent, child *Node)) Option {
	return func(w *walker) {
		w.observe = fn
	}
}

// WithLogger sends per-fetch debug messages to l.
func WithLogger(l Logger) Option {
	return func(w *walker) {
		if l != nil {
			w.log = l
		}
	}
}

type walker struct {
	src     Source
	req     Request
	observe func(parent, child *Node)
	log     Logger
}

// listing is the outcome of fetching one kind of children of a group: either
// the nodes to attach or the error that replaces them.
type listing struct {
	nodes []*Node
	err   error
}

// Walk resolves req.RootID and returns the tree rooted at it. The returned
// error is either a *RootError or a request validation error; failures below
// the root never surface here.
func Walk(src Source, req Request, opts ...Option) (*Node, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, err
	}
	w := &walker{src: src, req: req, log: nopLogger{}}
	for _, opt := range opts {
		opt(w)
	}

	g, err := src.Group(req.RootID)
	if err != nil {
		return nil, &RootError{RootID: req.RootID, Err: err}
	}
	root := &Node{
		Label:    GroupLabel(g),
		Kind:     KindRoot,
		ID:       g.ID,
		Inactive: g.PendingDeletion,
	}
	w.expand(root, 0)
	return root, nil
}

func (w *walker) attach(parent, child *Node) *Node {
	parent.add(child)
	if w.observe != nil {
		w.observe(parent, child)
	}
	return child
}

func (w *walker) expand(node *Node, depth int) {
	if depth > w.req.MaxDepth || depth > DepthCeiling {
		w.attach(node, &Node{Label: MaxDepthLabel, Kind: KindDepthMarker})
		return
	}

	projects := w.projects(node.ID)
	for _, p := range projects.nodes {
		w.attach(node, p)
	}
	if projects.err != nil {
		w.attach(node, ErrorNode(projects.err))
		return
	}

	subgroups := w.subgroups(node.ID)
	if subgroups.err != nil {
		w.attach(node, ErrorNode(subgroups.err))
		return
	}
	for _, sg := range subgroups.nodes {
		w.expand(w.attach(node, sg), depth+1)
	}
}

func (w *walker) projects(groupID int) listing {
	projects, err := w.src.GroupProjects(groupID, w.req.ProjectLimit)
	if err != nil {
		w.log.Debugf("listing projects of group %d: %s", groupID, err)
		return listing{err: err}
	}
	w.log.Debugf("group %d: %d projects", groupID, len(projects))

	var l listing
	for _, p := range projects {
		if !Keep(w.req.IncludeInactive, p) {
			continue
		}
		l.nodes = append(l.nodes, &Node{
			Label:    ProjectLabel(p),
			Kind:     KindProject,
			ID:       p.ID,
			Inactive: p.PendingDeletion,
		})
	}
	return l
}

func (w *walker) subgroups(groupID int) listing {
	groups, err := w.src.Subgroups(groupID, w.req.SubgroupLimit)
	if err != nil {
		w.log.Debugf("listing subgroups of group %d: %s", groupID, err)
		return listing{err: err}
	}
	w.log.Debugf("group %d: %d subgroups", groupID, len(groups))

	var l listing
	for _, g := range groups {
		if !Keep(w.req.IncludeInactive, g) {
			continue
		}
		l.nodes = append(l.nodes, &Node{
			Label:    GroupLabel(g),
			Kind:     KindGroup,
			ID:       g.ID,
			Inactive: g.PendingDeletion,
		})
	}
	return l
}

const pendingDeletionNote = " [pending deletion]"

// GroupLabel is the display label of a group node.
func GroupLabel(g *Group) string {
	label := fmt.Sprintf("%s (%d)", g.Name, g.ID)
	if g.PendingDeletion {
		label += pendingDeletionNote
	}
	return label
}

// ProjectLabel is the display label of a project node.
func ProjectLabel(p *Project) string {
	label := fmt.Sprintf("%s (%d)", p.Name, p.ID)
	if p.Archived {
		label += " [archived]"
	}
	if p.PendingDeletion {
		label += pendingDeletionNote
	}
	return label
}

// ErrorNode builds the leaf that stands in for children that could not be
// fetched.
func ErrorNode(err error) *Node {
	return &Node{Label: ErrorLabel(err), Kind: KindError}
}

// ErrorLabel describes err in at most MaxErrorLen runes of message.
func ErrorLabel(err error) string {
	if errors.Is(err, ErrGroupNotFound) || errors.Is(err, ErrForbidden) {
		return NotAccessibleText
	}
	return "API error: " + truncate(err.Error(), MaxErrorLen)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
