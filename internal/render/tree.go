// Package render draws hierarchy trees and result tables on the terminal.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/glarch/glarch/internal/hierarchy"
)

const (
	treeBranch   = "├── "
	treeCorner   = "└── "
	treeVertical = "│   "
	treeSpace    = "    "
)

var (
	rootColor     = color.New(color.FgMagenta, color.Bold)
	groupColor    = color.New(color.FgYellow, color.Bold)
	projectColor  = color.New(color.FgCyan)
	markerColor   = color.New(color.Faint, color.Italic)
	errorColor    = color.New(color.FgRed)
	inactiveColor = color.New(color.FgHiBlack)
)

// Decorate returns the label of n with its icon, coloured for its kind.
// Colour is dropped automatically when stdout is not a terminal.
func Decorate(n *hierarchy.Node) string {
	switch n.Kind {
	case hierarchy.KindRoot:
		return rootColor.Sprint("Group: " + n.Label)
	case hierarchy.KindGroup:
		if n.Inactive {
			return inactiveColor.Sprint("📁 " + n.Label)
		}
		return groupColor.Sprint("📁 " + n.Label)
	case hierarchy.KindProject:
		if n.Inactive {
			return inactiveColor.Sprint("📦 " + n.Label)
		}
		return projectColor.Sprint("📦 " + n.Label)
	case hierarchy.KindDepthMarker:
		return markerColor.Sprint(n.Label)
	case hierarchy.KindError:
		return errorColor.Sprint("⚠ " + n.Label)
	}
	return n.Label
}

// PrintTree writes root and its descendants to w with box drawing
// connectors, one node per line.
func PrintTree(w io.Writer, root *hierarchy.Node) {
	fmt.Fprintln(w, Decorate(root))
	printChildren(w, root, "")
}

func printChildren(w io.Writer, n *hierarchy.Node, prefix string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		connector, childPrefix := treeBranch, prefix+treeVertical
		if last {
			connector, childPrefix = treeCorner, prefix+treeSpace
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, Decorate(c))
		printChildren(w, c, childPrefix)
	}
}

// Summary is a one line count of what a tree holds.
func Summary(root *hierarchy.Node) string {
	s := fmt.Sprintf("%d groups, %d projects", root.Count(hierarchy.KindGroup)+1, root.Count(hierarchy.KindProject))
	if n := root.Count(hierarchy.KindError); n > 0 {
		s += fmt.Sprintf(", %d unreadable", n)
	}
	if root.Count(hierarchy.KindDepthMarker) > 0 {
		s += ", truncated at max depth"
	}
	return s
}
