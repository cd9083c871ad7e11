package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lexandro/docserver-mcp/access"
	"github.com/lexandro/docserver-mcp/config"
	"github.com/lexandro/docserver-mcp/document"
	"github.com/lexandro/docserver-mcp/httpapi"
	"github.com/lexandro/docserver-mcp/ignore"
	"github.com/lexandro/docserver-mcp/pathguard"
	"github.com/lexandro/docserver-mcp/register"
	"github.com/lexandro/docserver-mcp/server"
	"github.com/lexandro/docserver-mcp/tools"
	"github.com/lexandro/docserver-mcp/watcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	if err := c.rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// cli holds the values of the persistent flags shared by every command.
type cli struct {
	configPath    string
	docsDir       string
	maxFileSize   int64
	logLevel      string
	logFile       string
	respectIgnore bool
	ignoreFile    string
	excludes      []string
	noWatch       bool
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "docserver-mcp",
		Short: "Serve a documents directory to MCP clients",
		Long: `docserver-mcp gives read-only access to one documents directory.

Without a subcommand it serves MCP over stdio. Every path is confined to the
documents directory; anything resolving outside it is refused.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "TOML config file")
	flags.StringVar(&c.docsDir, "docs-dir", "", "Documents directory (default: ./docs, env MCP_DOCS_DIR)")
	flags.Int64Var(&c.maxFileSize, "max-file-size", config.DefaultMaxFileSize, "Maximum document size in bytes")
	flags.StringVar(&c.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error")
	flags.StringVar(&c.logFile, "log-file", "", "Log file in addition to stderr (default: ~/.mcp/logs/docserver-mcp.log)")
	flags.BoolVar(&c.respectIgnore, "respect-ignore", false, "Hide files matched by .gitignore, the ignore file and --exclude from listings")
	flags.StringVar(&c.ignoreFile, "ignore-file", config.DefaultIgnoreFile, "Ignore file name read from the documents directory")
	flags.StringArrayVar(&c.excludes, "exclude", nil, "Extra ignore glob (repeatable)")
	flags.BoolVar(&c.noWatch, "no-watch", false, "Do not reload ignore rules when ignore files change")

	root.AddCommand(c.serveCommand(), c.httpCommand(), c.registerCommand())
	return root
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd)
		},
	}
}

func (c *cli) httpCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the JSON API and MCP over streamable HTTP",
		Long: `Serve the JSON API (GET /, GET /health, POST /api/list, POST /api/document,
POST /api/search, GET /api/status) and the MCP streamable HTTP transport at /mcp.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runHTTP(cmd, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8000, env MCP_DOCS_HTTP_ADDR)")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var serverName string
	cmd := &cobra.Command{
		Use:   "register project|user [directory] [-- server-args...]",
		Short: "Add this server to an MCP client config",
		Long: `Add this server to an MCP client config.

  register project [directory]   writes <directory>/.mcp.json (default: .)
  register user                  writes ~/.claude.json

The entry sets MCP_DOCS_DIR to the absolute documents directory. Arguments after
-- are passed to the server.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRegister(cmd, args, serverName)
		},
	}
	cmd.Flags().StringVar(&serverName, "name", "", "Server name in the client config (default: derived from the binary name)")
	return cmd
}

// loadConfig layers defaults, the config file, the environment, then flags set on the command line.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("docs-dir") {
		cfg.DocsDir = c.docsDir
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSize = c.maxFileSize
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = c.logFile
	}
	if flags.Changed("respect-ignore") {
		cfg.RespectIgnore = c.respectIgnore
	}
	if flags.Changed("ignore-file") {
		cfg.IgnoreFile = c.ignoreFile
	}
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, c.excludes...)
	}
	if flags.Changed("no-watch") {
		cfg.Watch = !c.noWatch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is the wired document stack shared by the stdio and HTTP commands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	closeLog  func()
	guard     *pathguard.Guard
	matcher   *ignore.Matcher
	docs      *document.Service
	startTime time.Time
}

func (c *cli) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog := setupLogger(cfg.SlogLevel(), cfg.LogFile)

	docsDir, err := cfg.PrepareDocsDir()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("creating documents directory %s: %w", cfg.DocsDir, err)
	}

	guard, err := pathguard.New(docsDir)
	if err != nil {
		closeLog()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		closeLog:  closeLog,
		guard:     guard,
		startTime: time.Now(),
	}

	var filter access.Filter
	if cfg.RespectIgnore {
		a.matcher = ignore.NewMatcher(ignore.MatcherOptions{
			RootDir:        guard.Root(),
			IgnoreFile:     cfg.IgnoreFile,
			CustomPatterns: cfg.Exclude,
		})
		filter = a.matcher
	}

	a.docs = document.NewService(access.New(guard, access.Options{Filter: filter}), document.Options{
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
	})

	logger.Info("starting docserver-mcp",
		"docsDir", guard.Root(),
		"maxFileSize", cfg.MaxFileSize,
		"respectIgnore", cfg.RespectIgnore,
		"logFile", cfg.LogFile,
	)
	return a, nil
}

func (a *app) mcpServer() *mcp.Server {
	return server.Setup(server.Handlers{
		GetDocument:      &tools.GetDocumentHandler{Documents: a.docs, Logger: a.logger},
		ListDocuments:    &tools.ListDocumentsHandler{Documents: a.docs, Logger: a.logger},
		SearchInDocument: &tools.SearchInDocumentHandler{Documents: a.docs, Logger: a.logger},
		Status:           &tools.StatusHandler{Documents: a.docs, StartTime: a.startTime, Logger: a.logger},
	})
}

// startWatcher reloads ignore rules on change. It only runs when ignore rules are in use.
func (a *app) startWatcher(ctx context.Context) {
	if a.matcher == nil || !a.cfg.Watch {
		return
	}
	fileWatcher, err := watcher.NewWatcher(a.guard.Root(), a.matcher, watcher.DefaultDebounce, a.logger)
	if err != nil {
		a.logger.Warn("failed to start file watcher, ignore rules will not reload", "error", err)
		return
	}
	go fileWatcher.Run(ctx)
	go handleWatcherEvents(ctx, fileWatcher.Events(), a.matcher, a.logger)
}

func (c *cli) runServe(cmd *cobra.Command) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.closeLog()

	ctx := cmd.Context()
	a.startWatcher(ctx)

	a.logger.Info("MCP server starting on stdio")
	if err := server.RunStdio(ctx, a.mcpServer()); err != nil && ctx.Err() == nil {
		a.logger.Error("MCP server error", "error", err)
		return err
	}
	a.logger.Info("MCP server stopped")
	return nil
}

func (c *cli) runHTTP(cmd *cobra.Command, addr string) error {
	a, err := c.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.closeLog()

	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	ctx := cmd.Context()
	a.startWatcher(ctx)

	api := httpapi.New(a.docs, httpapi.Options{
		Version:    server.Version,
		MCPHandler: server.HTTPHandler(a.mcpServer()),
		Logger:     a.logger,
	})
	if err := api.Run(ctx, addr); err != nil {
		a.logger.Error("HTTP server error", "addr", addr, "error", err)
		return err
	}
	return nil
}

func (c *cli) runRegister(cmd *cobra.Command, args []string, serverName string) error {
	positional, serverArgs := splitAtDash(args, cmd.ArgsLenAtDash())
	if len(positional) == 0 {
		return fmt.Errorf("scope is required (%q or %q)", register.ScopeProject, register.ScopeUser)
	}

	options := register.Options{
		Scope:      positional[0],
		ServerName: serverName,
		ServerArgs: serverArgs,
	}
	switch {
	case options.Scope == register.ScopeProject && len(positional) > 2,
		options.Scope == register.ScopeUser && len(positional) > 1:
		return fmt.Errorf("too many arguments for %s scope: %v", options.Scope, positional[1:])
	case options.Scope == register.ScopeProject && len(positional) == 2:
		options.Directory = positional[1]
	}
	if options.ServerName == "" {
		options.ServerName = register.DeriveServerName(os.Args[0])
	}

	docsDir, err := c.registeredDocsDir(cmd, options)
	if err != nil {
		return err
	}
	options.DocsDir = docsDir

	configPath, err := register.Register(options)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", options.ServerName, configPath)
	return nil
}

// registeredDocsDir picks the documents directory written to the client entry:
// an explicit --docs-dir, else <directory>/docs for project scope, else the loaded config.
func (c *cli) registeredDocsDir(cmd *cobra.Command, options register.Options) (string, error) {
	if cmd.Flags().Changed("docs-dir") {
		return c.docsDir, nil
	}
	if options.Scope == register.ScopeProject {
		directory := options.Directory
		if directory == "" {
			directory = "."
		}
		return filepath.Join(directory, "docs"), nil
	}
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.DocsDir, nil
}

// splitAtDash separates positional arguments from those after "--".
func splitAtDash(args []string, dashIndex int) (positional []string, rest []string) {
	if dashIndex < 0 || dashIndex > len(args) {
		return args, nil
	}
	return args[:dashIndex], args[dashIndex:]
}
