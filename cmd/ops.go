package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	lab "github.com/glarch/glarch/internal/gitlab"
	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/glarch/glarch/internal/render"
	"github.com/pkg/errors"
)

// Operations shared by the subcommands and the interactive menu. Each one
// writes its result to w and returns the failure for the caller to report.

func showTree(w io.Writer, req hierarchy.Request, live bool) error {
	walk := func(observe func(parent, child *hierarchy.Node)) (*hierarchy.Node, error) {
		return hierarchy.Walk(lab.Source{}, req, hierarchy.WithObserver(observe), hierarchy.WithLogger(log))
	}
	var (
		tree *hierarchy.Node
		err  error
	)
	if live {
		tree, err = render.NewLiveView("Exploring group " + req.RootID).Run(walk)
	} else {
		tree, err = walk(nil)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to display tree for group %s", req.RootID)
	}
	render.PrintTree(w, tree)
	fmt.Fprintln(w, render.Summary(tree))
	return nil
}

func createSubgroup(w io.Writer, parent, name string) error {
	parentID, err := parseID("parent group", parent)
	if err != nil {
		return err
	}
	g, err := lab.GroupCreate(parentID, name)
	if err != nil {
		return err
	}
	success(w, "Created subgroup %s (%d)", g.FullPath, g.ID)
	return nil
}

func deleteGroup(w io.Writer, gid string) error {
	if err := lab.GroupDelete(strings.TrimSpace(gid)); err != nil {
		return err
	}
	success(w, "Deleted group %s", gid)
	return nil
}

func transferGroup(w io.Writer, gid, newParent string) error {
	parentID, err := parseID("new parent group", newParent)
	if err != nil {
		return err
	}
	g, err := lab.GroupTransfer(strings.TrimSpace(gid), parentID)
	if err != nil {
		return err
	}
	success(w, "Transferred group %s to %s", gid, g.FullPath)
	return nil
}

func listLabels(w io.Writer, gid, search string) error {
	labels, err := lab.GroupLabelList(strings.TrimSpace(gid), search)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		fmt.Fprintln(w, "No labels found")
		return nil
	}
	render.LabelTable(w, labels)
	return nil
}

func createLabel(w io.Writer, gid, name, color, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("label name must not be empty")
	}
	l, err := lab.GroupLabelCreate(strings.TrimSpace(gid), name, color, description)
	if err != nil {
		return err
	}
	success(w, "Created label %s (%s)", l.Name, l.Color)
	return nil
}

func archiveProject(w io.Writer, pid string) error {
	p, err := lab.ProjectArchive(strings.TrimSpace(pid))
	if err != nil {
		return err
	}
	success(w, "Archived project %s", p.PathWithNamespace)
	return nil
}

func unarchiveProject(w io.Writer, pid string) error {
	p, err := lab.ProjectUnarchive(strings.TrimSpace(pid))
	if err != nil {
		return err
	}
	success(w, "Unarchived project %s", p.PathWithNamespace)
	return nil
}

func deleteProject(w io.Writer, pid string) error {
	if err := lab.ProjectDelete(strings.TrimSpace(pid)); err != nil {
		return err
	}
	success(w, "Deleted project %s", pid)
	return nil
}

func searchProjects(w io.Writer, query string, limit int) error {
	projects, err := lab.ProjectSearch(strings.TrimSpace(query), limit)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintf(w, "No projects match %q\n", query)
		return nil
	}
	render.ProjectTable(w, projects)
	return nil
}

func rawRequest(w io.Writer, method, endpoint string) error {
	status, body, err := lab.Raw(method, endpoint)
	if status != 0 {
		fmt.Fprintf(w, "HTTP %d\n", status)
	}
	if len(body) > 0 {
		fmt.Fprintln(w, prettyJSON(body))
	}
	return err
}

// prettyJSON indents body when it is JSON and returns it unchanged
// otherwise.
func prettyJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
