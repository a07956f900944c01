package hierarchy

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory hierarchy. Errors can be injected per group id
// for the project or subgroup listing.
type fakeSource struct {
	groups      map[int]*Group
	projects    map[int][]*Project
	subgroups   map[int][]int
	projectErr  map[int]error
	subgroupErr map[int]error

	calls  []string
	limits []int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		groups:      map[int]*Group{},
		projects:    map[int][]*Project{},
		subgroups:   map[int][]int{},
		projectErr:  map[int]error{},
		subgroupErr: map[int]error{},
	}
}

func (f *fakeSource) addGroup(parent, id int, name string, inactive bool) {
	f.groups[id] = &Group{ID: id, Name: name, PendingDeletion: inactive}
	if parent != 0 {
		p := parent
		f.groups[id].ParentID = &p
		f.subgroups[parent] = append(f.subgroups[parent], id)
	}
}

func (f *fakeSource) addProject(group, id int, name string, inactive bool) {
	f.projects[group] = append(f.projects[group], &Project{ID: id, Name: name, PendingDeletion: inactive})
}

func (f *fakeSource) Group(id string) (*Group, error) {
	f.calls = append(f.calls, "group "+id)
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, errors.Wrapf(ErrGroupNotFound, "group %s", id)
	}
	g, ok := f.groups[n]
	if !ok {
		return nil, errors.Wrapf(ErrGroupNotFound, "group %s", id)
	}
	return g, nil
}

func (f *fakeSource) GroupProjects(groupID int, limit int) ([]*Project, error) {
	f.calls = append(f.calls, "projects "+strconv.Itoa(groupID))
	f.limits = append(f.limits, limit)
	if err := f.projectErr[groupID]; err != nil {
		return nil, err
	}
	ps := f.projects[groupID]
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return ps, nil
}

func (f *fakeSource) Subgroups(groupID int, limit int) ([]*Group, error) {
	f.calls = append(f.calls, "subgroups "+strconv.Itoa(groupID))
	f.limits = append(f.limits, limit)
	if err := f.subgroupErr[groupID]; err != nil {
		return nil, err
	}
	var gs []*Group
	for _, id := range f.subgroups[groupID] {
		gs = append(gs, f.groups[id])
	}
	if len(gs) > limit {
		gs = gs[:limit]
	}
	return gs, nil
}

// chain builds groups 1 -> 2 -> ... -> n, each holding one project.
func chain(n int) *fakeSource {
	src := newFakeSource()
	for i := 1; i <= n; i++ {
		src.addGroup(i-1, i, "g"+strconv.Itoa(i), false)
		src.addProject(i, 100+i, "p"+strconv.Itoa(i), false)
	}
	return src
}

// shape renders a tree as indented labels so whole trees can be compared.
func shape(n *Node) string {
	var b strings.Builder
	n.Visit(func(node *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(node.Label)
		b.WriteString("\n")
	})
	return b.String()
}

func TestWalkScenario(t *testing.T) {
	src := newFakeSource()
	src.addGroup(0, 1, "G1", false)
	src.addProject(1, 11, "P1", false)
	src.addProject(1, 12, "P2", true)
	src.addGroup(1, 2, "S1", false)

	tree, err := Walk(src, Request{RootID: "1", MaxDepth: 1})
	require.NoError(t, err)

	assert.Equal(t, "G1 (1)", tree.Label)
	assert.Equal(t, KindRoot, tree.Kind)
	require.Equal(t, []string{"P1 (11)", "S1 (2)"}, tree.Labels())
	assert.Equal(t, KindProject, tree.Children[0].Kind)
	assert.Equal(t, KindGroup, tree.Children[1].Kind)
	assert.Empty(t, tree.Children[1].Children)
}

func TestWalkDepthBound(t *testing.T) {
	for d := 0; d <= 4; d++ {
		t.Run("depth "+strconv.Itoa(d), func(t *testing.T) {
			src := chain(7)
			tree, err := Walk(src, Request{RootID: "1", MaxDepth: d})
			require.NoError(t, err)

			markers := 0
			tree.Visit(func(node *Node, depth int) {
				switch node.Kind {
				case KindProject:
					// a project sits one edge below its group
					require.LessOrEqual(t, depth-1, d, node.Label)
				case KindGroup:
					require.LessOrEqual(t, depth, d+1, node.Label)
					if depth == d+1 {
						require.Len(t, node.Children, 1)
						require.Equal(t, KindDepthMarker, node.Children[0].Kind)
					}
				case KindDepthMarker:
					markers++
					require.Equal(t, d+2, depth)
				}
			})
			assert.Equal(t, 1, markers)
			assert.Equal(t, d+1, tree.Count(KindProject))

			// the truncated group at depth d+1 is never listed
			assert.NotContains(t, src.calls, "projects "+strconv.Itoa(d+2))
			assert.NotContains(t, src.calls, "subgroups "+strconv.Itoa(d+2))
		})
	}
}

func TestWalkDepthCeiling(t *testing.T) {
	src := chain(DepthCeiling + 5)
	tree, err := Walk(src, Request{RootID: "1", MaxDepth: 1000})
	require.NoError(t, err)

	deepest := 0
	tree.Visit(func(node *Node, depth int) {
		if node.Kind == KindGroup && depth > deepest {
			deepest = depth
		}
	})
	assert.Equal(t, DepthCeiling+1, deepest)
	assert.Equal(t, 1, tree.Count(KindDepthMarker))
}

func TestWalkInactiveFilter(t *testing.T) {
	src := newFakeSource()
	src.addGroup(0, 1, "root", false)
	src.addProject(1, 10, "live", false)
	src.addProject(1, 11, "doomed", true)
	src.addGroup(1, 2, "kept", false)
	src.addProject(2, 20, "nested-doomed", true)
	src.addGroup(1, 3, "gone", true)
	src.addProject(3, 30, "under-gone", false)

	active, err := Walk(src, Request{RootID: "1", MaxDepth: 3})
	require.NoError(t, err)
	active.Visit(func(node *Node, _ int) {
		require.False(t, node.Inactive, node.Label)
	})

	all, err := Walk(src, Request{RootID: "1", MaxDepth: 3, IncludeInactive: true})
	require.NoError(t, err)

	activeLabels := map[string]bool{}
	active.Visit(func(node *Node, _ int) { activeLabels[node.Label] = true })

	var added []string
	all.Visit(func(node *Node, _ int) {
		if !activeLabels[node.Label] {
			added = append(added, node.Label)
		}
	})
	assert.ElementsMatch(t, []string{
		"doomed (11) [pending deletion]",
		"nested-doomed (20) [pending deletion]",
		"gone (3) [pending deletion]",
		"under-gone (30)",
	}, added)
	assert.Equal(t, active.Count(KindGroup)+1, all.Count(KindGroup))
}

func TestWalkIdempotent(t *testing.T) {
	src := chain(4)
	src.addProject(2, 500, "extra", false)
	req := Request{RootID: "1", MaxDepth: 2, ProjectLimit: 5, SubgroupLimit: 5}

	first, err := Walk(src, req)
	require.NoError(t, err)
	second, err := Walk(src, req)
	require.NoError(t, err)
	require.Equal(t, shape(first), shape(second))
	require.Equal(t, first, second)
}

func TestWalkFaultIsolation(t *testing.T) {
	src := newFakeSource()
	src.addGroup(0, 1, "root", false)
	src.addGroup(1, 2, "A", false)
	src.addProject(2, 20, "a-project", false)
	src.addGroup(2, 4, "A-child", false)
	src.addGroup(1, 3, "B", false)
	src.projectErr[3] = errors.New("500 Internal Server Error: something went badly wrong while listing the projects of this group")

	tree, err := Walk(src, Request{RootID: "1", MaxDepth: 3})
	require.NoError(t, err)

	a := tree.Find("A (2)")
	require.NotNil(t, a)
	require.Equal(t, []string{"a-project (20)", "A-child (4)"}, a.Labels())

	b := tree.Find("B (3)")
	require.NotNil(t, b)
	require.Len(t, b.Children, 1)
	assert.Equal(t, KindError, b.Children[0].Kind)
	assert.True(t, strings.HasPrefix(b.Children[0].Label, "API error: 500 Internal"))
	assert.True(t, strings.HasSuffix(b.Children[0].Label, "..."))
	assert.Equal(t, 1, tree.Count(KindError))

	// B's subgroups are never requested once its projects failed
	assert.NotContains(t, src.calls, "subgroups 3")
}

func TestWalkSubgroupFailureKeepsProjects(t *testing.T) {
	src := newFakeSource()
	src.addGroup(0, 1, "root", false)
	src.addProject(1, 10, "p", false)
	src.subgroupErr[1] = errors.Wrap(ErrForbidden, "listing subgroups")

	tree, err := Walk(src, Request{RootID: "1", MaxDepth: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"p (10)", NotAccessibleText}, tree.Labels())
}

func TestWalkRootFailure(t *testing.T) {
	src := chain(2)

	tree, err := Walk(src, Request{RootID: "404", MaxDepth: 2})
	require.Nil(t, tree)
	require.Error(t, err)

	var rootErr *RootError
	require.True(t, errors.As(err, &rootErr))
	assert.True(t, rootErr.NotFound())
	assert.Equal(t, "404", rootErr.RootID)
	assert.True(t, errors.Is(err, ErrGroupNotFound))
	assert.Equal(t, ErrGroupNotFound, errors.Cause(err))

	// a branch failure is not a root failure
	src.projectErr[2] = errors.Wrap(ErrGroupNotFound, "group 2")
	tree, err = Walk(src, Request{RootID: "1", MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Count(KindError))
}

func TestWalkInvalidRequest(t *testing.T) {
	src := chain(1)

	_, err := Walk(src, Request{RootID: " ", MaxDepth: 1})
	require.Error(t, err)
	_, err = Walk(src, Request{RootID: "1", MaxDepth: -1})
	require.Error(t, err)

	var rootErr *RootError
	assert.False(t, errors.As(err, &rootErr))
	assert.Empty(t, src.calls)
}

func TestWalkPageLimits(t *testing.T) {
	tests := []struct {
		desc                   string
		projects, subgroups    int
		wantProject, wantGroup int
	}{
		{"defaults", 0, 0, DefaultProjectLimit, DefaultSubgroupLimit},
		{"explicit", 3, 2, 3, 2},
		{"capped", 500, 101, MaxPageSize, MaxPageSize},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			src := chain(1)
			_, err := Walk(src, Request{RootID: "1", ProjectLimit: test.projects, SubgroupLimit: test.subgroups})
			require.NoError(t, err)
			require.Equal(t, []int{test.wantProject, test.wantGroup}, src.limits)
		})
	}
}

func TestWalkOrderAndObserver(t *testing.T) {
	src := newFakeSource()
	src.addGroup(0, 1, "root", false)
	src.addGroup(1, 3, "zeta", false)
	src.addGroup(1, 2, "alpha", false)
	src.addProject(1, 12, "b-project", false)
	src.addProject(1, 11, "a-project", false)

	var seen []string
	tree, err := Walk(src, Request{RootID: "1", MaxDepth: 0}, WithObserver(func(parent, child *Node) {
		seen = append(seen, parent.Label+" > "+child.Label)
	}))
	require.NoError(t, err)

	// remote order, projects first, no sorting
	require.Equal(t, []string{"b-project (12)", "a-project (11)", "zeta (3)", "alpha (2)"}, tree.Labels())
	require.Equal(t, []string{
		"root (1) > b-project (12)",
		"root (1) > a-project (11)",
		"root (1) > zeta (3)",
		"zeta (3) > " + MaxDepthLabel,
		"root (1) > alpha (2)",
		"alpha (2) > " + MaxDepthLabel,
	}, seen)
}

func TestKeep(t *testing.T) {
	live := &Project{ID: 1}
	doomed := &Group{ID: 2, PendingDeletion: true}

	assert.True(t, Keep(false, live))
	assert.True(t, Keep(true, live))
	assert.False(t, Keep(false, doomed))
	assert.True(t, Keep(true, doomed))
}

func TestErrorLabel(t *testing.T) {
	tests := []struct {
		desc     string
		err      error
		expected string
	}{
		{"not found", errors.Wrap(ErrGroupNotFound, "group 9"), NotAccessibleText},
		{"forbidden", ErrForbidden, NotAccessibleText},
		{"short", errors.New("timeout"), "API error: timeout"},
		{"long", errors.New(strings.Repeat("é", MaxErrorLen+1)), "API error: " + strings.Repeat("é", MaxErrorLen) + "..."},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require.Equal(t, test.expected, ErrorLabel(test.err))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "web (7) [archived] [pending deletion]", ProjectLabel(&Project{ID: 7, Name: "web", Archived: true, PendingDeletion: true}))
	assert.Equal(t, "infra (3)", GroupLabel(&Group{ID: 3, Name: "infra"}))
	assert.Equal(t, "depth-marker", KindDepthMarker.String())
}
