package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/codehost"
	"github.com/marque-dev/marque/internal/config"
	"github.com/marque-dev/marque/internal/errors"
	"github.com/marque-dev/marque/internal/gitx"
	"github.com/marque-dev/marque/internal/logger"
	"github.com/marque-dev/marque/internal/panel"
	"github.com/marque-dev/marque/internal/share"
	"github.com/marque-dev/marque/internal/store"
	"github.com/marque-dev/marque/internal/summary"
	"github.com/marque-dev/marque/internal/web"
)

// cliEnv bundles the collaborators CLI commands operate on.
type cliEnv struct {
	st   *store.Store
	cfg  *config.Config
	git  *gitx.Adapter
	root string
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *cliEnv) *cli.App {
	app := &cli.App{
		Name:    "marque",
		Usage:   "Collaborative bookmarks for your working tree",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(env),
			removeCmd(env),
			removeAllCmd(env),
			listCmd(env),
			childrenCmd(env),
			sectionCmd(env),
			reorderCmd(env),
			commentCmd(env),
			commentsCmd(env),
			resolveCmd(env),
			reactCmd(env),
			tagCmd(env),
			untagCmd(env),
			statusCmd(env),
			priorityCmd(env),
			watchCmd(env),
			unwatchCmd(env),
			activityCmd(env),
			gitCmd(env),
			prCmd(env),
			hostCmd(env),
			summaryCmd(env),
			exportCmd(env),
			syncCmd(env),
			panelCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// absArg resolves a positional path argument against the working directory.
func absArg(c *cli.Context, index int) (string, error) {
	if c.NArg() <= index {
		return "", errors.NewInvalidRequest("path argument is required")
	}
	abs, err := filepath.Abs(c.Args().Get(index))
	if err != nil {
		return "", errors.NewInvalidRequest(err.Error())
	}
	return abs, nil
}

// addCmd creates the add command.
func addCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Bookmark a file or directory",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "section", Aliases: []string{"s"}, Usage: "Target section id (default section when omitted)"},
		},
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			rec, err := env.st.AddDirectory(path, c.String("section"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(rec)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a bookmark",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "section", Aliases: []string{"s"}, Usage: "Section id (default section when omitted)"},
		},
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			removed, err := env.st.RemoveDirectory(path, c.String("section"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"removed": removed})
		},
	}
}

// removeAllCmd creates the remove-all command.
func removeAllCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "remove-all",
		Usage: "Remove every bookmark from every section",
		Action: func(c *cli.Context) error {
			if err := env.st.RemoveAllDirectories(); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"removed": true})
		},
	}
}

// listCmd creates the list command.
func listCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List bookmarks grouped by section",
		Action: func(c *cli.Context) error {
			type sectionOut struct {
				ID      string            `json:"id"`
				Name    string            `json:"name"`
				Records []bookmark.Record `json:"records"`
			}

			sections := env.st.Sections()
			out := make([]sectionOut, 0, len(sections))
			for _, sec := range sections {
				out = append(out, sectionOut{ID: sec.ID, Name: sec.Name, Records: sec.Clone().Directories})
			}
			return outputJSON(map[string]any{"sections": out})
		},
	}
}

// childrenCmd creates the children command.
func childrenCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "children",
		Usage:     "List the filesystem children of a bookmarked directory",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			rec, err := env.st.Record(path)
			if err != nil {
				return outputError(err)
			}
			children, err := env.st.Children(rec)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"children": children})
		},
	}
}

// sectionCmd creates the section command group.
func sectionCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "section",
		Usage: "Manage bookmark sections",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Create a section",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					sec, err := env.st.AddSection(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(sec)
				},
			},
			{
				Name:      "remove",
				Usage:     "Delete a section and all its bookmarks",
				ArgsUsage: "<section-id>",
				Action: func(c *cli.Context) error {
					removed, err := env.st.RemoveSection(c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"removed": removed})
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a section",
				ArgsUsage: "<section-id> <name>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewInvalidRequest("usage: section rename <section-id> <name>"))
					}
					if err := env.st.RenameSection(c.Args().Get(0), c.Args().Get(1)); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"renamed": true})
				},
			},
		},
	}
}

// reorderCmd creates the reorder command.
func reorderCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "reorder",
		Usage:     "Move a directly-added bookmark relative to another in the default section",
		ArgsUsage: "<source-path> <target-path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "before", Usage: "Insert before the target instead of after"},
		},
		Action: func(c *cli.Context) error {
			src, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			dst, err := absArg(c, 1)
			if err != nil {
				return outputError(err)
			}

			moved, err := env.st.ReorderRecord(src, dst, c.Bool("before"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"moved": moved})
		},
	}
}

// commentCmd creates the comment command.
func commentCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "comment",
		Usage:     "Add a comment to a bookmark (reads content from stdin when piped)",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Comment content"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Comment type: general|code-review|suggestion|question"},
			&cli.StringFlag{Name: "parent", Aliases: []string{"p"}, Usage: "Parent comment id for a threaded reply"},
		},
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			content := c.String("message")
			if content == "" && stdinHasData() {
				content, err = readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			ctype := bookmark.CommentType(c.String("type"))
			if c.String("type") != "" && !bookmark.ValidCommentType(ctype) {
				return outputError(errors.NewValidationFailed("unknown comment type: " + c.String("type")))
			}

			comment, err := env.st.AddComment(path, content, ctype, c.String("parent"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(comment)
		},
	}
}

// commentsCmd creates the comments command.
func commentsCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "comments",
		Usage:     "Show a bookmark's comment threads",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			threads, err := env.st.Threads(path)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"threads": threads})
		},
	}
}

// resolveCmd creates the resolve command.
func resolveCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Mark a comment as resolved",
		ArgsUsage: "<path> <comment-id>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: resolve <path> <comment-id>"))
			}

			if err := env.st.ResolveComment(path, c.Args().Get(1)); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"resolved": true})
		},
	}
}

// reactCmd creates the react command.
func reactCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "react",
		Usage:     "Add an emoji reaction to a comment",
		ArgsUsage: "<path> <comment-id> <emoji>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() < 3 {
				return outputError(errors.NewInvalidRequest("usage: react <path> <comment-id> <emoji>"))
			}

			if err := env.st.AddReaction(path, c.Args().Get(1), c.Args().Get(2)); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"reacted": true})
		},
	}
}

// tagCmd creates the tag command.
func tagCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Add a tag to a bookmark",
		ArgsUsage: "<path> <tag>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: tag <path> <tag>"))
			}

			if err := env.st.AddTag(path, c.Args().Get(1)); err != nil {
				return outputError(err)
			}
			return recordJSON(env, path)
		},
	}
}

// untagCmd creates the untag command.
func untagCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "untag",
		Usage:     "Remove a tag from a bookmark",
		ArgsUsage: "<path> <tag>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: untag <path> <tag>"))
			}

			if err := env.st.RemoveTag(path, c.Args().Get(1)); err != nil {
				return outputError(err)
			}
			return recordJSON(env, path)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Update a bookmark's workflow status",
		ArgsUsage: "<path> <active|in-review|completed|archived>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: status <path> <status>"))
			}

			if err := env.st.UpdateStatus(path, bookmark.Status(c.Args().Get(1))); err != nil {
				return outputError(err)
			}
			return recordJSON(env, path)
		},
	}
}

// priorityCmd creates the priority command.
func priorityCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "priority",
		Usage:     "Update a bookmark's priority",
		ArgsUsage: "<path> <low|medium|high|critical>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: priority <path> <priority>"))
			}

			if err := env.st.UpdatePriority(path, bookmark.Priority(c.Args().Get(1))); err != nil {
				return outputError(err)
			}
			return recordJSON(env, path)
		},
	}
}

// watchCmd creates the watch command.
func watchCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch a bookmark for changes",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Watcher identity (defaults to you)"},
		},
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			if err := env.st.AddWatcher(path, c.String("user")); err != nil {
				return outputError(err)
			}
			return recordJSON(env, path)
		},
	}
}

// unwatchCmd creates the unwatch command.
func unwatchCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "unwatch",
		Usage:     "Stop watching a bookmark",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Watcher identity (defaults to you)"},
		},
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			if err := env.st.RemoveWatcher(path, c.String("user")); err != nil {
				return outputError(err)
			}
			return recordJSON(env, path)
		},
	}
}

// activityCmd creates the activity command.
func activityCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "activity",
		Usage:     "Show a bookmark's activity log, newest first",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			entries, err := env.st.ActivityOf(path)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"activity": entries})
		},
	}
}

// gitCmd creates the git command group.
func gitCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "git",
		Usage: "Inspect the repository state of a bookmark",
		Subcommands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "Refresh and show a bookmark's git snapshot",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					path, err := absArg(c, 0)
					if err != nil {
						return outputError(err)
					}
					if env.git == nil {
						return outputError(errors.NewExternalTool("git", "not inside a git repository"))
					}

					snap := env.git.Snapshot()
					if snap == nil {
						return outputError(errors.NewExternalTool("git", "could not resolve HEAD"))
					}
					if err := env.st.RefreshGitSnapshot(path, snap); err != nil {
						return outputError(err)
					}
					return outputJSON(snap)
				},
			},
			{
				Name:      "log",
				Usage:     "Show the commit history of a bookmarked path",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 10, Usage: "Maximum commits to return"},
				},
				Action: func(c *cli.Context) error {
					path, err := absArg(c, 0)
					if err != nil {
						return outputError(err)
					}
					if env.git == nil {
						return outputError(errors.NewExternalTool("git", "not inside a git repository"))
					}
					return outputJSON(map[string]any{"history": env.git.FileHistory(path, c.Int("limit"))})
				},
			},
			{
				Name:      "diff",
				Usage:     "Show uncommitted changes under a path",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					if env.git == nil {
						return outputError(errors.NewExternalTool("git", "not inside a git repository"))
					}

					path := ""
					if c.NArg() > 0 {
						var err error
						path, err = absArg(c, 0)
						if err != nil {
							return outputError(err)
						}
					}

					diff, ok := env.git.Diff(path)
					if !ok {
						return outputError(errors.NewExternalTool("git", "could not compute status"))
					}
					fmt.Print(diff)
					return nil
				},
			},
			{
				Name:  "push",
				Usage: "Push local refs to the origin remote",
				Action: func(c *cli.Context) error {
					if env.git == nil {
						return outputError(errors.NewExternalTool("git", "not inside a git repository"))
					}
					return outputJSON(env.git.Push())
				},
			},
			{
				Name:  "pull",
				Usage: "Pull changes from the origin remote",
				Action: func(c *cli.Context) error {
					if env.git == nil {
						return outputError(errors.NewExternalTool("git", "not inside a git repository"))
					}
					return outputJSON(env.git.Pull())
				},
			},
		},
	}
}

// prCmd creates the pr command group.
func prCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "pr",
		Usage: "Work with pull requests on the configured code host",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Open a pull request and link it to a bookmark",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Pull request title"},
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Pull request body"},
					&cli.StringFlag{Name: "head", Usage: "Head branch (defaults to the current branch)"},
					&cli.StringFlag{Name: "base", Value: "main", Usage: "Base branch"},
				},
				Action: func(c *cli.Context) error {
					path, err := absArg(c, 0)
					if err != nil {
						return outputError(err)
					}

					host, repo, err := env.codeHost()
					if err != nil {
						return outputError(err)
					}

					head := c.String("head")
					if head == "" {
						branch, ok := env.git.CurrentBranch()
						if !ok {
							return outputError(errors.NewExternalTool("git", "cannot infer head branch from a detached HEAD"))
						}
						head = branch
					}

					pr := host.CreatePullRequest(context.Background(), repo.Owner, repo.Name,
						c.String("title"), c.String("body"), head, c.String("base"))
					if pr == nil {
						return outputError(errors.NewExternalTool("code host", "pull request creation failed"))
					}

					if err := env.st.LinkReview(path, *pr); err != nil {
						return outputError(err)
					}
					return outputJSON(pr)
				},
			},
			{
				Name:  "list",
				Usage: "List pull requests for the origin repository",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "state", Aliases: []string{"s"}, Value: "open", Usage: "PR state: open|closed|all"},
				},
				Action: func(c *cli.Context) error {
					host, repo, err := env.codeHost()
					if err != nil {
						return outputError(err)
					}
					prs := host.ListPullRequests(context.Background(), repo.Owner, repo.Name, c.String("state"))
					return outputJSON(map[string]any{"pullRequests": prs})
				},
			},
		},
	}
}

// hostCmd creates the host command.
func hostCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "host",
		Usage:     "Show the code-host web URL of a bookmarked path",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			rec, err := env.st.Record(path)
			if err != nil {
				return outputError(err)
			}

			if env.git == nil {
				return outputError(errors.NewExternalTool("git", "not inside a git repository"))
			}
			remote, ok := env.git.OriginURL()
			if !ok {
				return outputError(errors.NewExternalTool("git", "repository has no origin remote"))
			}

			ref := "main"
			if branch, ok := env.git.CurrentBranch(); ok {
				ref = branch
			}

			rel, err := filepath.Rel(env.git.Root(), rec.Path)
			if err != nil || strings.HasPrefix(rel, "..") {
				return outputError(errors.NewValidationFailed("bookmark is outside the repository worktree"))
			}

			hostURL, ok := codehost.BrowseURL(remote, ref, filepath.ToSlash(rel))
			if !ok {
				return outputError(errors.NewExternalTool("code host", "unrecognized origin remote: "+remote))
			}
			return outputJSON(map[string]any{"url": hostURL})
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Summarize a bookmarked file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return outputError(errors.NewNotFound(path))
			}

			chain := newSummaryChain(env.cfg)
			out, err := chain.Summarize(context.Background(), string(data))
			if err != nil {
				return outputJSON(map[string]any{"available": false})
			}
			return outputJSON(map[string]any{"available": true, "summary": out})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a bookmark's comments as markdown",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (stdout when omitted)"},
		},
		Action: func(c *cli.Context) error {
			path, err := absArg(c, 0)
			if err != nil {
				return outputError(err)
			}

			rec, err := env.st.Record(path)
			if err != nil {
				return outputError(err)
			}
			threads, err := env.st.Threads(path)
			if err != nil {
				return outputError(err)
			}

			md := commentMarkdown(rec, threads)
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(md), 0644); err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputJSON(map[string]any{"written": out})
			}
			fmt.Print(md)
			return nil
		},
	}
}

// syncCmd creates the sync command.
func syncCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Synchronize with the shared team config",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "action", Aliases: []string{"a"}, Usage: "Sync action: create|merge|replace|push|cancel (omit to inspect)"},
		},
		Action: func(c *cli.Context) error {
			action := c.String("action")
			if action == "" {
				plan, err := share.Plan(env.root)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(plan)
			}

			result, err := share.Apply(env.root, env.st, share.Action(action))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// panelCmd creates the panel command.
func panelCmd(env *cliEnv) *cli.Command {
	return &cli.Command{
		Name:  "panel",
		Usage: "Run the collaboration panel web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7391, Usage: "Listen port"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level: debug|info|warn|error"},
		},
		Action: func(c *cli.Context) error {
			log := logger.New(c.String("log-level"), isTerminal())
			defer func() { _ = log.Sync() }()

			deps := web.Deps{
				Store:    env.st,
				Panels:   panel.NewRegistry(),
				Git:      env.git,
				Summarer: newSummaryChain(env.cfg),
				Log:      log,
			}
			if host, repo, err := env.codeHost(); err == nil {
				deps.Host = host
				deps.Repo = repo
			}

			srv := web.NewServer(deps, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv, log)
		},
	}
}

// codeHost builds the code-host client and resolves the origin repository.
func (env *cliEnv) codeHost() (*codehost.Client, *codehost.RepoInfo, error) {
	if env.git == nil {
		return nil, nil, errors.NewExternalTool("git", "not inside a git repository")
	}
	remote, ok := env.git.OriginURL()
	if !ok {
		return nil, nil, errors.NewExternalTool("git", "repository has no origin remote")
	}
	repo := codehost.RepoFromRemoteURL(remote)
	if repo == nil {
		return nil, nil, errors.NewExternalTool("code host", "unrecognized origin remote: "+remote)
	}
	client := codehost.NewClient(env.cfg.CodeHostURL, env.cfg.CodeHostToken, logger.Nop())
	return client, repo, nil
}

// newSummaryChain assembles the summary provider chain from config: the
// external command first when configured, the headline fallback always.
func newSummaryChain(cfg *config.Config) *summary.Chain {
	providers := []summary.Provider{}
	if cfg.SummaryCommand != "" {
		providers = append(providers, &summary.CommandProvider{Command: cfg.SummaryCommand})
	}
	providers = append(providers, &summary.HeadlineProvider{})
	return summary.NewChain(providers...)
}

// commentMarkdown renders a record's threads as a markdown document.
func commentMarkdown(rec *bookmark.Record, threads []bookmark.Thread) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comments for %s\n\n", rec.Path)
	for _, th := range threads {
		writeCommentLine(&b, &th.Root, 0)
		for i := range th.Replies {
			writeCommentLine(&b, &th.Replies[i], 1)
		}
	}
	if len(threads) == 0 {
		b.WriteString("_No comments._\n")
	}
	return b.String()
}

func writeCommentLine(b *strings.Builder, cm *bookmark.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	resolved := ""
	if cm.Resolved {
		resolved = " (resolved)"
	}
	fmt.Fprintf(b, "%s- **%s** [%s]%s at %s\n", indent, cm.Author, cm.Type, resolved,
		cm.Timestamp.UTC().Format("2006-01-02 15:04"))
	for _, line := range strings.Split(cm.Content, "\n") {
		fmt.Fprintf(b, "%s  %s\n", indent, line)
	}
}

// Helper functions

// recordJSON prints the current state of the record at path.
func recordJSON(env *cliEnv, path string) error {
	rec, err := env.st.Record(path)
	if err != nil {
		return outputError(err)
	}
	return outputJSON(rec)
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if mErr, ok := err.(*errors.MarqueError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", mErr.Code, mErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
