// Package action holds the shell completion actions shared by commands.
package action

import (
	"strconv"
	"time"

	lab "github.com/glarch/glarch/internal/gitlab"
	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/rsteube/carapace"
	"github.com/rsteube/carapace/pkg/cache"
	"github.com/xanzy/go-gitlab"
)

// Groups completes group ids, described by their full path.
func Groups() carapace.Action {
	return carapace.ActionCallback(func(c carapace.Context) carapace.Action {
		groups, err := lab.GroupSearch("")
		if err != nil {
			return carapace.ActionMessage(err.Error())
		}
		return carapace.ActionValuesDescribed(groupValues(groups)...)
	}).Cache(5*time.Minute, hostKey())
}

// hostKey scopes cached completions to the instance the client points at.
// The host is read when the key is computed, commands register their actions
// before the client is initialized.
func hostKey(parts ...string) cache.Key {
	return func() (string, error) {
		return cache.String(append([]string{lab.Host()}, parts...)...)()
	}
}

func groupValues(groups []*gitlab.Group) []string {
	values := make([]string, len(groups)*2)
	for index, group := range groups {
		values[index*2] = strconv.Itoa(group.ID)
		values[index*2+1] = group.FullPath
	}
	return values
}

// Labels completes label names of the group passed as argument groupArg.
func Labels(groupArg int) carapace.Action {
	return carapace.ActionCallback(func(c carapace.Context) carapace.Action {
		if groupArg >= len(c.Args) {
			return carapace.ActionMessage("group id required")
		}
		group := c.Args[groupArg]
		return carapace.ActionCallback(func(c carapace.Context) carapace.Action {
			labels, err := lab.GroupLabelList(group, "")
			if err != nil {
				return carapace.ActionMessage(err.Error())
			}
			return carapace.ActionValuesDescribed(labelValues(labels)...)
		}).Cache(5*time.Minute, hostKey(group))
	})
}

func labelValues(labels []*gitlab.GroupLabel) []string {
	values := make([]string, len(labels)*2)
	for index, label := range labels {
		values[index*2] = label.Name
		values[index*2+1] = label.Description
	}
	return values
}

// Depths completes the accepted --depth values.
func Depths() carapace.Action {
	values := make([]string, 0, hierarchy.DepthCeiling+1)
	for d := 0; d <= hierarchy.DepthCeiling; d++ {
		values = append(values, strconv.Itoa(d))
	}
	return carapace.ActionValues(values...)
}

// Methods completes the request methods accepted by raw.
func Methods() carapace.Action {
	return carapace.ActionValues(lab.RawMethods...)
}
