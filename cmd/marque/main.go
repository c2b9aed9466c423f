package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marque-dev/marque/internal/config"
	"github.com/marque-dev/marque/internal/gitx"
	"github.com/marque-dev/marque/internal/mcp"
	"github.com/marque-dev/marque/internal/state"
	"github.com/marque-dev/marque/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "remove": true, "remove-all": true, "list": true,
	"children": true, "section": true, "reorder": true,
	"comment": true, "comments": true, "resolve": true, "react": true,
	"tag": true, "untag": true, "status": true, "priority": true,
	"watch": true, "unwatch": true, "activity": true,
	"git": true, "pr": true, "host": true, "summary": true, "export": true,
	"sync": true, "panel": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   __  __   __   ___  ___  _   _ ___
  |  \/  | /  \ | _ \/ _ \| | | | __|
  | |\/| |/ /\ \|   / (_) | |_| | _|
  |_|  |_/_/  \_\_|_\\__\_\\___/|___|

  Collaborative bookmarks for your working tree

  Usage: marque <command> [options]
         marque --help

  MCP server mode requires piped input.`)
}

// workspaceRoot resolves the workspace this invocation operates on: the
// enclosing git worktree root when inside a repository, otherwise the
// current directory.
func workspaceRoot() (string, *gitx.Adapter) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil
	}
	if git := gitx.Open(cwd); git != nil {
		return git.Root(), git
	}
	return cwd, nil
}

// resolveIdentity picks the contributor identity stamped on mutations:
// explicit config wins, then the git user, then the hostname.
func resolveIdentity(cfg *config.Config, git *gitx.Adapter) string {
	if cfg.Author != "" {
		return cfg.Author
	}
	if git != nil {
		return git.CurrentUserIdentity()
	}
	return gitx.FallbackIdentity()
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".marque")

	database, err := state.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	root, git := workspaceRoot()
	if root == "" {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory\n")
		os.Exit(1)
	}

	cfg, err := config.LoadWithRepo(baseDir, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	state.ConfigurePool(database, cfg)

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "warning: unknown disabled tools in config: %v\n", unknown)
	}

	identity := resolveIdentity(cfg, git)
	st := store.Open(database, state.ScopeKey(root), identity, cfg)

	env := &cliEnv{
		st:   st,
		cfg:  cfg,
		git:  git,
		root: root,
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'marque --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(st, root, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
