package cmd

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/glarch/glarch/internal/config"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func Test_parseConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{" yes ", true},
		{"YES", true},
		{"n", false},
		{"no", false},
		{"", false},
		{"s", false},
		{"yep", false},
	}
	for _, test := range tests {
		t.Run(test.answer, func(t *testing.T) {
			assert.Equal(t, test.want, parseConfirm(test.answer))
		})
	}
}

func Test_parseID(t *testing.T) {
	id, err := parseID("parent group", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "acme", "0", "-3", "4.2"} {
		_, err := parseID("parent group", bad)
		assert.Error(t, err, bad)
	}
}

func Test_flagConfig(t *testing.T) {
	old := config.MainConfig
	defer func() { config.MainConfig = old }()

	v := viper.New()
	v.Set("tree.depth", 5)
	v.Set("tree.project_limit", 50)
	v.Set("tree.include_inactive", true)
	config.MainConfig = v

	var depth, projects, subgroups int
	var inactive bool
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.IntVarP(&depth, "depth", "d", 3, "")
	fs.IntVar(&projects, "project-limit", 20, "")
	fs.IntVar(&subgroups, "subgroup-limit", 15, "")
	fs.BoolVarP(&inactive, "include-inactive", "i", false, "")
	require.NoError(t, fs.Parse([]string{"--depth", "2"}))

	flagConfig(fs, "tree.")
	assert.Equal(t, 2, depth, "command line wins over the environment")
	assert.Equal(t, 50, projects)
	assert.Equal(t, 15, subgroups)
	assert.True(t, inactive)
}

func Test_flagConfigWithoutConfig(t *testing.T) {
	old := config.MainConfig
	defer func() { config.MainConfig = old }()
	config.MainConfig = nil

	var depth int
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.IntVar(&depth, "depth", 3, "")
	flagConfig(fs, "tree.")
	assert.Equal(t, 3, depth)
}

func Test_prettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"id\": 1\n}", prettyJSON([]byte(`{"id":1}`)))
	assert.Equal(t, "not json", prettyJSON([]byte("not json")))
}

func Test_treeRequest(t *testing.T) {
	old := config.Current
	defer func() { config.Current = old }()

	config.Current = nil
	req := treeRequest("acme")
	assert.Equal(t, "acme", req.RootID)
	assert.Equal(t, []int{3, 20, 15}, []int{req.MaxDepth, req.ProjectLimit, req.SubgroupLimit})
	assert.False(t, req.IncludeInactive)

	config.Current = &config.Config{TreeDepth: 7, ProjectLimit: 50, SubgroupLimit: 5}
	req = treeRequest("42")
	assert.Equal(t, []int{7, 50, 5}, []int{req.MaxDepth, req.ProjectLimit, req.SubgroupLimit})
}
