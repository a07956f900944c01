package render

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/xanzy/go-gitlab"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	return table
}

// ProjectTable prints search results as ID, name and full path columns.
func ProjectTable(w io.Writer, projects []*gitlab.Project) {
	table := newTable(w, "ID", "Name", "Path")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, p := range projects {
		table.Append([]string{strconv.Itoa(p.ID), p.Name, p.PathWithNamespace})
	}
	table.Render()
}

// LabelTable prints group labels as name, colour and description columns.
func LabelTable(w io.Writer, labels []*gitlab.GroupLabel) {
	table := newTable(w, "Name", "Color", "Description")
	for _, l := range labels {
		table.Append([]string{l.Name, l.Color, l.Description})
	}
	table.Render()
}
