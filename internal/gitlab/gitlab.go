// Package gitlab is an internal wrapper for the go-gitlab package
//
// It owns the single authenticated client used by glarch. Functions map
// HTTP 404 responses to sentinel errors and accept group and project ids as
// either numeric ids or full paths.
package gitlab

import (
	"bytes"
	"crypto/tls"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/glarch/glarch/internal/logger"
	"github.com/pkg/errors"
	"github.com/xanzy/go-gitlab"
)

var (
	ErrProjectNotFound = errors.New("gitlab project not found")
	ErrGroupNotFound   = hierarchy.ErrGroupNotFound
	ErrForbidden       = hierarchy.ErrForbidden
	ErrNotInitialized  = errors.New("gitlab client not initialized")
)

var (
	lab  *gitlab.Client
	host string
	user string
	log  = logger.GetInstance()
)

// Host exposes the GitLab scheme://hostname used to interact with the API
func Host() string {
	return host
}

// User exposes the authenticated GitLab user
func User() string {
	return user
}

// Init initializes a gitlab client for use throughout glarch. Requests are
// never retried; a failed request is reported to the caller as is.
func Init(_host, _token string, timeout time.Duration, allowInsecure bool) error {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: allowInsecure,
			},
		},
	}
	client, err := gitlab.NewClient(_token,
		gitlab.WithHTTPClient(httpClient),
		gitlab.WithBaseURL(_host+"/api/v4"),
		gitlab.WithCustomLeveledLogger(log),
		gitlab.WithoutRetries(),
	)
	if err != nil {
		return errors.Wrap(err, "creating gitlab client")
	}
	lab = client
	host = _host
	user = ""
	return nil
}

// Authenticate checks the token against the instance and records the
// username it belongs to.
func Authenticate() (string, error) {
	if lab == nil {
		return "", ErrNotInitialized
	}
	u, _, err := lab.Users.CurrentUser()
	if err != nil {
		return "", errors.Wrap(err, "authenticating")
	}
	user = u.Username
	return user, nil
}

// apiGroup and apiProject decode the fields the hierarchy needs, including
// the pending deletion markers the typed client does not expose.
type apiGroup struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	FullPath            string  `json:"full_path"`
	ParentID            *int    `json:"parent_id"`
	MarkedForDeletionOn *string `json:"marked_for_deletion_on"`
}

func (g *apiGroup) toGroup() *hierarchy.Group {
	return &hierarchy.Group{
		ID:              g.ID,
		Name:            g.Name,
		FullPath:        g.FullPath,
		ParentID:        g.ParentID,
		PendingDeletion: marked(g.MarkedForDeletionOn),
	}
}

type apiProject struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	PathWithNamespace   string  `json:"path_with_namespace"`
	Archived            bool    `json:"archived"`
	MarkedForDeletionAt *string `json:"marked_for_deletion_at"`
	MarkedForDeletionOn *string `json:"marked_for_deletion_on"`
}

func (p *apiProject) toProject() *hierarchy.Project {
	return &hierarchy.Project{
		ID:                p.ID,
		Name:              p.Name,
		PathWithNamespace: p.PathWithNamespace,
		Archived:          p.Archived,
		PendingDeletion:   marked(p.MarkedForDeletionAt) || marked(p.MarkedForDeletionOn),
	}
}

func marked(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

type listOptions struct {
	gitlab.ListOptions
	IncludeSubgroups *bool `url:"include_subgroups,omitempty" json:"include_subgroups,omitempty"`
}

// do issues a request through the shared client so authentication, rate
// limiting and error decoding stay the client's concern.
func do(method, path string, opt interface{}, v interface{}) (*gitlab.Response, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	req, err := lab.NewRequest(method, path, opt, nil)
	if err != nil {
		return nil, err
	}
	return lab.Do(req, v)
}

func groupPath(gid string, parts ...string) string {
	return strings.Join(append([]string{"groups", url.PathEscape(gid)}, parts...), "/")
}

// mapError turns 404 and 403 responses into sentinel errors.
func mapError(resp *gitlab.Response, err error, notFound error, what string) error {
	if err == nil {
		return nil
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return errors.Wrap(notFound, what)
		case http.StatusForbidden, http.StatusUnauthorized:
			return errors.Wrap(ErrForbidden, what)
		}
	}
	return errors.Wrap(err, what)
}

// GroupGet looks up a group by numeric id or full path.
func GroupGet(gid string) (*hierarchy.Group, error) {
	var g apiGroup
	resp, err := do(http.MethodGet, groupPath(gid), nil, &g)
	if err != nil {
		return nil, mapError(resp, err, ErrGroupNotFound, "group "+gid)
	}
	return g.toGroup(), nil
}

// GroupProjects lists one page of at most limit projects owned directly by
// the group.
func GroupProjects(groupID int, limit int) ([]*hierarchy.Project, error) {
	gid := strconv.Itoa(groupID)
	opt := &listOptions{
		ListOptions:      gitlab.ListOptions{Page: 1, PerPage: limit},
		IncludeSubgroups: gitlab.Bool(false),
	}
	var list []*apiProject
	resp, err := do(http.MethodGet, groupPath(gid, "projects"), opt, &list)
	if err != nil {
		return nil, mapError(resp, err, ErrGroupNotFound, "projects of group "+gid)
	}
	projects := make([]*hierarchy.Project, 0, len(list))
	for _, p := range list {
		projects = append(projects, p.toProject())
	}
	return projects, nil
}

// Subgroups lists one page of at most limit direct subgroups of the group.
func Subgroups(groupID int, limit int) ([]*hierarchy.Group, error) {
	gid := strconv.Itoa(groupID)
	opt := &listOptions{
		ListOptions: gitlab.ListOptions{Page: 1, PerPage: limit},
	}
	var list []*apiGroup
	resp, err := do(http.MethodGet, groupPath(gid, "subgroups"), opt, &list)
	if err != nil {
		return nil, mapError(resp, err, ErrGroupNotFound, "subgroups of group "+gid)
	}
	groups := make([]*hierarchy.Group, 0, len(list))
	for _, g := range list {
		groups = append(groups, g.toGroup())
	}
	return groups, nil
}

// Source hands the package level client to the hierarchy walker.
type Source struct{}

func (Source) Group(id string) (*hierarchy.Group, error) {
	return GroupGet(id)
}

func (Source) GroupProjects(groupID int, limit int) ([]*hierarchy.Project, error) {
	return GroupProjects(groupID, limit)
}

func (Source) Subgroups(groupID int, limit int) ([]*hierarchy.Group, error) {
	return Subgroups(groupID, limit)
}

// SubgroupPath derives a URL path from a display name the way the GitLab UI
// suggests one: lower case with spaces replaced by dashes.
func SubgroupPath(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// GroupCreate creates a subgroup named name under parent.
func GroupCreate(parentID int, name string) (*gitlab.Group, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("subgroup name must not be empty")
	}
	g, resp, err := lab.Groups.CreateGroup(&gitlab.CreateGroupOptions{
		Name:     gitlab.String(name),
		Path:     gitlab.String(SubgroupPath(name)),
		ParentID: gitlab.Int(parentID),
	})
	if err != nil {
		return nil, mapError(resp, err, ErrGroupNotFound, "creating subgroup "+name)
	}
	return g, nil
}

// GroupDelete deletes a group. GitLab may only schedule the deletion.
func GroupDelete(gid string) error {
	if lab == nil {
		return ErrNotInitialized
	}
	resp, err := lab.Groups.DeleteGroup(gid)
	return mapError(resp, err, ErrGroupNotFound, "deleting group "+gid)
}

type transferOptions struct {
	GroupID *int `url:"group_id,omitempty" json:"group_id,omitempty"`
}

// GroupTransfer moves a group under a new parent group.
func GroupTransfer(gid string, newParentID int) (*gitlab.Group, error) {
	var g gitlab.Group
	opt := &transferOptions{GroupID: gitlab.Int(newParentID)}
	resp, err := do(http.MethodPost, groupPath(gid, "transfer"), opt, &g)
	if err != nil {
		return nil, mapError(resp, err, ErrGroupNotFound, "transferring group "+gid)
	}
	return &g, nil
}

// GroupLabelList lists every label of a group. GitLab has no label search
// on this endpoint, so search is matched here against name and description.
func GroupLabelList(gid string, search string) ([]*gitlab.GroupLabel, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	search = strings.ToLower(search)
	opt := &gitlab.ListGroupLabelsOptions{}
	opt.PerPage = hierarchy.MaxPageSize

	var labels []*gitlab.GroupLabel
	for {
		list, resp, err := lab.GroupLabels.ListGroupLabels(gid, opt)
		if err != nil {
			return nil, mapError(resp, err, ErrGroupNotFound, "labels of group "+gid)
		}
		for _, l := range list {
			if search != "" &&
				!(strings.Contains(strings.ToLower(l.Name), search) || strings.Contains(strings.ToLower(l.Description), search)) {
				continue
			}
			labels = append(labels, l)
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return labels, nil
}

// GroupLabelCreate creates a label on a group.
func GroupLabelCreate(gid, name, color, description string) (*gitlab.GroupLabel, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	l, resp, err := lab.GroupLabels.CreateGroupLabel(gid, &gitlab.CreateGroupLabelOptions{
		Name:        gitlab.String(name),
		Color:       gitlab.String(color),
		Description: gitlab.String(description),
	})
	if err != nil {
		return nil, mapError(resp, err, ErrGroupNotFound, "creating label "+name)
	}
	return l, nil
}

// ProjectArchive archives a project.
func ProjectArchive(pid string) (*gitlab.Project, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	p, resp, err := lab.Projects.ArchiveProject(pid)
	if err != nil {
		return nil, mapError(resp, err, ErrProjectNotFound, "archiving project "+pid)
	}
	return p, nil
}

// ProjectUnarchive unarchives a project.
func ProjectUnarchive(pid string) (*gitlab.Project, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	p, resp, err := lab.Projects.UnarchiveProject(pid)
	if err != nil {
		return nil, mapError(resp, err, ErrProjectNotFound, "unarchiving project "+pid)
	}
	return p, nil
}

// ProjectDelete deletes a project. GitLab may only schedule the deletion.
func ProjectDelete(pid string) error {
	if lab == nil {
		return ErrNotInitialized
	}
	resp, err := lab.Projects.DeleteProject(pid)
	return mapError(resp, err, ErrProjectNotFound, "deleting project "+pid)
}

// ProjectSearch returns one page of projects matching query. Only the
// simple project representation is requested, which keeps large instances
// from timing out on the search.
func ProjectSearch(query string, limit int) ([]*gitlab.Project, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	if limit <= 0 || limit > hierarchy.MaxPageSize {
		limit = 10
	}
	list, _, err := lab.Projects.ListProjects(&gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{
			PerPage: limit,
		},
		Search:  gitlab.String(query),
		Simple:  gitlab.Bool(true),
		OrderBy: gitlab.String("id"),
		Sort:    gitlab.String("asc"),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "searching projects for %q", query)
	}
	return list, nil
}

// RawMethods are the methods accepted by Raw.
var RawMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Raw sends an arbitrary request to the API and returns the status code and
// the unparsed body. endpoint is relative to /api/v4 and may carry a query
// string.
func Raw(method, endpoint string) (int, []byte, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	valid := false
	for _, m := range RawMethods {
		valid = valid || m == method
	}
	if !valid {
		return 0, nil, errors.Errorf("unsupported method %q", method)
	}
	if lab == nil {
		return 0, nil, ErrNotInitialized
	}

	path, query := SplitEndpoint(endpoint)
	if path == "" {
		return 0, nil, errors.New("endpoint must not be empty")
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "parsing query of %s", endpoint)
	}
	req, err := lab.NewRequest(method, path, nil, nil)
	if err != nil {
		return 0, nil, err
	}
	req.URL.RawQuery = values.Encode()

	var body bytes.Buffer
	resp, err := lab.Do(req, &body)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if err != nil {
		return status, body.Bytes(), errors.Wrapf(err, "%s %s", method, endpoint)
	}
	return status, body.Bytes(), nil
}

// SplitEndpoint normalizes a user supplied endpoint into a path relative to
// /api/v4 and its raw query.
func SplitEndpoint(endpoint string) (string, string) {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = strings.TrimPrefix(endpoint, "/")
	endpoint = strings.TrimPrefix(endpoint, "api/v4/")
	path, query := endpoint, ""
	if i := strings.Index(endpoint, "?"); i >= 0 {
		path, query = endpoint[:i], endpoint[i+1:]
	}
	return path, query
}

// GroupSearch lists groups visible to the user that match search. It backs
// shell completion of group arguments.
func GroupSearch(search string) ([]*gitlab.Group, error) {
	if lab == nil {
		return nil, ErrNotInitialized
	}
	list, _, err := lab.Groups.ListGroups(&gitlab.ListGroupsOptions{
		ListOptions: gitlab.ListOptions{PerPage: hierarchy.MaxPageSize},
		Search:      gitlab.String(search),
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing groups")
	}
	return list, nil
}
