// Repomgr is a command line program that manages local clones of Mercurial,
// Git and Bazaar repositories through one uniform interface.
//
// Repositories can be defined once in an INI configuration file and referred
// to by name afterwards:
//
//	[vcs-repo-mgr]
//	type = git
//	local = ~/projects/vcs-repo-mgr
//	remote = git@github.com:xolox/python-vcs-repo-mgr.git
//	release-scheme = tags
//	release-filter = .*
//
// Repositories that aren't configured can be referred to by their remote
// location, optionally prefixed with the repository type:
//
//	repomgr tags https://github.com/git/git.git
//	repomgr branches hg+https://www.mercurial-scm.org/repo/hg
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/repomgr/repomgr/action"
	"github.com/repomgr/repomgr/msg"
)

var version = "dev"

const usage = `Manage local clones of Mercurial, Git and Bazaar repositories.

Repositories are referred to by a name defined in /etc/repomgr.ini or
~/.repomgr.ini, by a remote location ending in .git, or by a remote location
prefixed with its type (e.g. hg+https://..., bzr+lp:...).`

func main() {
	app := cli.NewApp()
	app.Name = "repomgr"
	app.Usage = usage
	app.Version = version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "Quiet (no info or debug messages)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Print debug verbose informational messages",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "Turn off colored output",
		},
		cli.StringSliceFlag{
			Name:  "config, c",
			Usage: "Read repository definitions from `FILE` instead of the default locations",
		},
	}
	app.Before = startup
	app.Commands = commands()

	if err := app.Run(os.Args); err != nil {
		msg.Error("%s", err)
		os.Exit(1)
	}
}

func commands() []cli.Command {
	revFlag := cli.StringFlag{
		Name:  "revision, r",
		Usage: "The revision expression to resolve (defaults to the default branch)",
	}
	return []cli.Command{
		{
			Name:  "branches",
			Usage: "List the branches of a repository in natural order",
			Action: func(c *cli.Context) error {
				action.Branches(c.Args().First())
				return nil
			},
		},
		{
			Name:  "tags",
			Usage: "List the tags of a repository in natural order",
			Action: func(c *cli.Context) error {
				action.Tags(c.Args().First())
				return nil
			},
		},
		{
			Name:  "releases",
			Usage: "List the releases of a repository in natural order",
			Action: func(c *cli.Context) error {
				action.Releases(c.Args().First())
				return nil
			},
		},
		{
			Name:      "select",
			Usage:     "Select the newest release that doesn't exceed the given release",
			ArgsUsage: "<repository> <release>",
			Action: func(c *cli.Context) error {
				action.SelectRelease(c.Args().Get(0), c.Args().Get(1))
				return nil
			},
		},
		{
			Name:      "release-to-branch",
			Usage:     "Translate a release identifier to a branch name",
			ArgsUsage: "<repository> <release>",
			Action: func(c *cli.Context) error {
				action.ReleaseToBranch(c.Args().Get(0), c.Args().Get(1))
				return nil
			},
		},
		{
			Name:      "release-to-tag",
			Usage:     "Translate a release identifier to a tag name",
			ArgsUsage: "<repository> <release>",
			Action: func(c *cli.Context) error {
				action.ReleaseToTag(c.Args().Get(0), c.Args().Get(1))
				return nil
			},
		},
		{
			Name:  "latest",
			Usage: "Print the newest release that parses as a semantic version",
			Action: func(c *cli.Context) error {
				action.Latest(c.Args().First())
				return nil
			},
		},
		{
			Name:  "revno",
			Usage: "Print the local revision number of a revision",
			Flags: []cli.Flag{revFlag},
			Action: func(c *cli.Context) error {
				action.RevisionNumber(c.Args().First(), c.String("revision"))
				return nil
			},
		},
		{
			Name:  "revid",
			Usage: "Print the global revision id of a revision",
			Flags: []cli.Flag{revFlag},
			Action: func(c *cli.Context) error {
				action.RevisionID(c.Args().First(), c.String("revision"))
				return nil
			},
		},
		{
			Name:  "control",
			Usage: "Print a Debian control file field referencing a revision",
			Flags: []cli.Flag{revFlag},
			Action: func(c *cli.Context) error {
				action.ControlField(c.Args().First(), c.String("revision"))
				return nil
			},
		},
		{
			Name:      "update",
			ShortName: "up",
			Usage:     "Create or update the local clones of one or more repositories",
			ArgsUsage: "<repository>...",
			Action: func(c *cli.Context) error {
				action.Update(c.Args())
				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Export the tree of a revision to a directory",
			ArgsUsage: "<repository> <directory>",
			Flags:     []cli.Flag{revFlag},
			Action: func(c *cli.Context) error {
				action.Export(c.Args().Get(0), c.Args().Get(1), c.String("revision"))
				return nil
			},
		},
		{
			Name:      "sum",
			Usage:     "Sum the revision numbers of repository/revision pairs",
			ArgsUsage: "<repository> <revision> [<repository> <revision>]...",
			Action: func(c *cli.Context) error {
				action.SumRevisions(c.Args())
				return nil
			},
		},
		{
			Name:  "directory",
			Usage: "Print the directory of the local clone",
			Action: func(c *cli.Context) error {
				action.FindDirectory(c.Args().First())
				return nil
			},
		},
		{
			Name:  "info",
			Usage: "Print a YAML summary of a repository",
			Action: func(c *cli.Context) error {
				action.Info(c.Args().First())
				return nil
			},
		},
	}
}

// startup sets up the message output and configuration sources from the
// global flags.
func startup(c *cli.Context) error {
	if c.Bool("quiet") {
		msg.Default.Quiet = true
	}
	if c.Bool("debug") {
		msg.Default.IsDebugging = true
	}
	if c.Bool("no-color") {
		msg.Default.NoColor = true
	}
	if files := c.StringSlice("config"); len(files) > 0 {
		for _, f := range files {
			if _, err := os.Stat(f); err != nil {
				return fmt.Errorf("configuration file %s: %w", f, err)
			}
		}
		action.SetConfigFiles(files)
	}
	return nil
}
