// This file contains common functions that are shared in the glarch package
package cmd

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/glarch/glarch/internal/config"
	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	headingColor = color.New(color.FgCyan, color.Bold)
)

// flagConfig compares command line flags and the values set in the
// environment. The command line value will always override any value set in
// the environment. A flag named project-limit under prefix "tree." is read
// from the key tree.project_limit.
func flagConfig(fs *flag.FlagSet, prefix string) {
	cfg := getMainConfig()
	if cfg == nil {
		return
	}
	fs.VisitAll(func(f *flag.Flag) {
		var configString string
		key := prefix + strings.Replace(f.Name, "-", "_", -1)
		if !cfg.IsSet(key) {
			return
		}

		switch f.Value.Type() {
		case "bool":
			configString = strconv.FormatBool(cfg.GetBool(key))
		case "string":
			configString = cfg.GetString(key)
		case "int":
			configString = strconv.FormatInt(cfg.GetInt64(key), 10)
		default:
			log.Fatal("ERROR: found unidentified flag: ", f.Value.Type(), f)
		}

		// if set, always use the command line option (flag) value
		if f.Changed {
			return
		}
		// o/w use the value from the environment
		if configString != "" && configString != f.DefValue {
			f.Value.Set(configString)
		}
	})
}

// getMainConfig returns the configuration loaded by main, nil before that.
func getMainConfig() *viper.Viper {
	return config.MainConfig
}

// configPersistentPreRun returns a PersistentPreRun merging the environment
// under prefix into the command's flags.
func configPersistentPreRun(prefix string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		flagConfig(cmd.Flags(), prefix)
	}
}

func success(w io.Writer, format string, a ...interface{}) {
	successColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func failure(w io.Writer, err error) {
	failureColor.Fprintf(w, "✗ %s\n", err)
}

// fatal prints err as a failure and exits with status 1.
func fatal(err error) {
	failure(os.Stderr, err)
	os.Exit(1)
}

// parseID parses a numeric group or project id.
func parseID(what, s string) (int, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("%s must be a positive numeric id, got %q", what, s)
	}
	return id, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return terminal.IsTerminal(int(f.Fd()))
}

// parseConfirm reports whether answer accepts a (y/n) question.
func parseConfirm(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// confirmDestructive asks on stdin before a destructive subcommand runs.
// Without a terminal the caller has to pass --yes.
func confirmDestructive(cmd *cobra.Command, question string) error {
	if ok, err := cmd.Flags().GetBool("yes"); err == nil && ok {
		return nil
	}
	if !isTerminal(os.Stdin) {
		return errors.New("refusing to continue without confirmation, pass --yes")
	}
	ok, err := newMenu(os.Stdin, cmd.OutOrStdout()).confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}

var errCancelled = errors.New("cancelled")

// treeRequest returns a walk of root with the loaded tree settings, or the
// built-in defaults before the configuration is loaded.
func treeRequest(root string) hierarchy.Request {
	cfg := config.Current
	if cfg == nil {
		cfg = &config.Config{
			TreeDepth:     hierarchy.DefaultMaxDepth,
			ProjectLimit:  hierarchy.DefaultProjectLimit,
			SubgroupLimit: hierarchy.DefaultSubgroupLimit,
		}
	}
	return cfg.TreeRequest(root)
}
