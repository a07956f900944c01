package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// menu is the interactive surface started when glarch runs without
// arguments. Failures of an action are printed and the menu is shown again;
// end of input leaves the menu.
type menu struct {
	in  *bufio.Reader
	out io.Writer
	// live grows trees on screen, only useful on a terminal
	live bool
}

type menuEntry struct {
	key   string
	title string
	run   func(m *menu) error
}

func newMenu(in io.Reader, out io.Writer) *menu {
	return &menu{in: bufio.NewReader(in), out: out}
}

var mainMenu = []menuEntry{
	{"1", "Tree view", (*menu).tree},
	{"2", "Subgroup management (create/delete/transfer)", (*menu).subgroups},
	{"3", "Label management (list/create)", (*menu).labels},
	{"4", "Project lifecycle (archive/unarchive/delete)", (*menu).projects},
	{"5", "Search projects", (*menu).search},
	{"6", "Raw API request", (*menu).raw},
}

func (m *menu) run() error {
	for {
		m.print("glarch", mainMenu, "Exit")
		choice, err := m.prompt(">>", "0")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}
		e := findEntry(mainMenu, choice)
		if e == nil {
			failure(m.out, errors.Errorf("unknown option %q", choice))
			continue
		}
		switch err := e.run(m); err {
		case nil:
		case io.EOF:
			return nil
		case errCancelled:
			fmt.Fprintln(m.out, "Cancelled")
		default:
			failure(m.out, err)
		}
	}
}

func findEntry(entries []menuEntry, key string) *menuEntry {
	for i := range entries {
		if entries[i].key == key {
			return &entries[i]
		}
	}
	return nil
}

func (m *menu) print(title string, entries []menuEntry, zero string) {
	if title != "" {
		headingColor.Fprintln(m.out, title)
	}
	for _, e := range entries {
		fmt.Fprintf(m.out, "  %s. %s\n", e.key, e.title)
	}
	fmt.Fprintf(m.out, "  0. %s\n", zero)
}

// submenu shows entries and runs the chosen one. 0 goes back.
func (m *menu) submenu(entries []menuEntry) error {
	m.print("", entries, "Back")
	choice, err := m.prompt("Select", "0")
	if err != nil {
		return err
	}
	if choice == "0" {
		return nil
	}
	e := findEntry(entries, choice)
	if e == nil {
		return errors.Errorf("unknown option %q", choice)
	}
	return e.run(m)
}

// prompt reads one line. An empty answer selects def.
func (m *menu) prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(m.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(m.out, "%s: ", label)
	}
	line, err := m.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		line = def
	}
	return line, nil
}

// require prompts until it gets a non empty answer.
func (m *menu) require(label string) (string, error) {
	for {
		answer, err := m.prompt(label, "")
		if err != nil || answer != "" {
			return answer, err
		}
	}
}

func (m *menu) promptInt(label string, def int) (int, error) {
	answer, err := m.prompt(label, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, errors.Errorf("%s must be a number, got %q", strings.ToLower(label), answer)
	}
	return n, nil
}

func (m *menu) confirm(question string) (bool, error) {
	answer, err := m.prompt(question+" (y/n)", "n")
	if err != nil {
		return false, err
	}
	return parseConfirm(answer), nil
}

// confirmed turns a declined question into errCancelled.
func (m *menu) confirmed(question string) error {
	ok, err := m.confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}

func (m *menu) tree() error {
	gid, err := m.require("Root group id or path")
	if err != nil {
		return err
	}
	req := treeRequest(gid)
	if req.MaxDepth, err = m.promptInt("Maximum depth", req.MaxDepth); err != nil {
		return err
	}
	if req.IncludeInactive, err = m.confirm("Include groups and projects pending deletion?"); err != nil {
		return err
	}
	return showTree(m.out, req, m.live)
}

func (m *menu) subgroups() error {
	return m.submenu([]menuEntry{
		{"1", "Create", func(m *menu) error {
			parent, err := m.require("Parent group id")
			if err != nil {
				return err
			}
			name, err := m.require("Name")
			if err != nil {
				return err
			}
			return createSubgroup(m.out, parent, name)
		}},
		{"2", "Delete", func(m *menu) error {
			gid, err := m.require("Group id to delete")
			if err != nil {
				return err
			}
			if err := m.confirmed(fmt.Sprintf("Delete group %s and everything below it?", gid)); err != nil {
				return err
			}
			return deleteGroup(m.out, gid)
		}},
		{"3", "Transfer", func(m *menu) error {
			gid, err := m.require("Group id to move")
			if err != nil {
				return err
			}
			parent, err := m.require("New parent group id")
			if err != nil {
				return err
			}
			return transferGroup(m.out, gid, parent)
		}},
	})
}

func (m *menu) labels() error {
	return m.submenu([]menuEntry{
		{"1", "List", func(m *menu) error {
			gid, err := m.require("Group id or path")
			if err != nil {
				return err
			}
			search, err := m.prompt("Search (empty for all)", "")
			if err != nil {
				return err
			}
			return listLabels(m.out, gid, search)
		}},
		{"2", "Create", func(m *menu) error {
			gid, err := m.require("Group id or path")
			if err != nil {
				return err
			}
			name, err := m.require("Label name")
			if err != nil {
				return err
			}
			color, err := m.prompt("Color", defaultLabelColor)
			if err != nil {
				return err
			}
			desc, err := m.prompt("Description", "")
			if err != nil {
				return err
			}
			return createLabel(m.out, gid, name, color, desc)
		}},
	})
}

func (m *menu) projects() error {
	project := func(run func(w io.Writer, pid string) error) func(m *menu) error {
		return func(m *menu) error {
			pid, err := m.require("Project id or path")
			if err != nil {
				return err
			}
			return run(m.out, pid)
		}
	}
	return m.submenu([]menuEntry{
		{"1", "Archive", project(archiveProject)},
		{"2", "Unarchive", project(unarchiveProject)},
		{"3", "Delete", project(func(w io.Writer, pid string) error {
			if err := m.confirmed(fmt.Sprintf("Delete project %s?", pid)); err != nil {
				return err
			}
			return deleteProject(w, pid)
		})},
	})
}

func (m *menu) search() error {
	query, err := m.require("Project name")
	if err != nil {
		return err
	}
	return searchProjects(m.out, query, 10)
}

func (m *menu) raw() error {
	line, err := m.require("Request (e.g. GET /groups/42)")
	if err != nil {
		return err
	}
	method, endpoint, err := parseRawLine(line)
	if err != nil {
		return err
	}
	return rawRequest(m.out, method, endpoint)
}

// parseRawLine splits a "METHOD endpoint" line. The endpoint may be quoted.
func parseRawLine(line string) (string, string, error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return "", "", errors.Wrap(err, "parsing request")
	}
	if len(fields) != 2 {
		return "", "", errors.Errorf("expected <METHOD> <endpoint>, got %q", line)
	}
	return strings.ToUpper(fields[0]), fields[1], nil
}
