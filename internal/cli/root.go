package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pgha-inspect/internal/config"
	"pgha-inspect/internal/model"
	"pgha-inspect/internal/pkg/logger"
	"pgha-inspect/internal/report"
	"pgha-inspect/internal/service"
)

const (
	envPrefix      = "PGHA"
	promptPassword = "prompt"
)

// ConnectionTester probes a single node.
type ConnectionTester interface {
	TestConnection(req *model.SSHTestRequest) *model.SSHTestResponse
}

type app struct {
	cfg        *config.Config
	v          *viper.Viper
	logger     *logger.Logger
	prompter   *Prompter
	connectors service.ConnectorFactory
	tester     ConnectionTester
}

type Option func(*app)

func WithConfig(cfg *config.Config) Option {
	return func(a *app) {
		a.cfg = cfg
	}
}

// WithLogger skips building a logger from the log flags.
func WithLogger(l *logger.Logger) Option {
	return func(a *app) {
		a.logger = l
	}
}

func WithPrompter(p *Prompter) Option {
	return func(a *app) {
		a.prompter = p
	}
}

func WithConnectorFactory(f service.ConnectorFactory) Option {
	return func(a *app) {
		a.connectors = f
	}
}

func WithConnectionTester(t ConnectionTester) Option {
	return func(a *app) {
		a.tester = t
	}
}

func Execute() error {
	root := NewRootCommand()
	root.SetArgs(osArgs())
	return root.Execute()
}

func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{v: viper.New()}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg == nil {
		a.cfg = config.LoadConfig()
	}
	if a.prompter == nil {
		a.prompter = NewTerminalPrompter()
	}

	root := &cobra.Command{
		Use:   "pgha-inspect",
		Short: "Collect a diagnostic report from a Patroni/etcd/HAProxy PostgreSQL cluster",
		Long: `pgha-inspect connects over SSH to a seed node, reads its Patroni configuration
to find the rest of the cluster, and gathers configuration files, service
status, recent log content and the last logged error from every member.
The result is written as a single HTML or plain-text report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: a.runInspect,
	}

	pf := root.PersistentFlags()
	pf.String("node_ip", "", "IP address of the initial node to connect to (prompted if absent)")
	pf.String("username", "", "username for SSH connection (prompted if absent)")
	pf.String("password", "", "password for SSH connection (prompted if absent or given without a value)")
	pf.Int("port", a.cfg.SSH.Port, "SSH port of every node")
	pf.String("config", "", "config file with flag values (yaml, json or toml)")
	pf.String("log-level", a.cfg.Logging.Level, "log level (debug, info, warn, error)")
	pf.String("log-format", a.cfg.Logging.Format, "log format (console, json)")

	f := root.Flags()
	f.String("output_file", "output.html", "file to write the report to")
	f.String("format", string(report.FormatHTML), "output format (html or text)")
	f.Bool("include_seed", false, "include the seed node's own record in the report")
	f.String("fetch_dir", "", "copy each node's configuration files into this directory")

	root.AddCommand(newCheckCommand(a))
	return root
}

// setup binds flags, PGHA_* environment variables and the optional config
// file, in that order of precedence, and sets up logging.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if a.logger == nil {
		a.logger = logger.NewLogger(a.v.GetString("log-level"), a.v.GetString("log-format"))
		zap.ReplaceGlobals(a.logger.Logger)
	}
	if a.connectors == nil || a.tester == nil {
		sshService := service.NewSSHService(a.cfg.SSH, a.logger)
		if a.connectors == nil {
			a.connectors = sshService.Connector
		}
		if a.tester == nil {
			a.tester = sshService
		}
	}
	return nil
}

type credentials struct {
	nodeIP   string
	username string
	password string
}

func (a *app) resolveCredentials() (credentials, error) {
	var (
		c   credentials
		err error
	)

	if c.nodeIP = strings.TrimSpace(a.v.GetString("node_ip")); c.nodeIP == "" {
		if c.nodeIP, err = a.prompter.Ask("Enter the IP address of the initial node to connect to: "); err != nil {
			return c, err
		}
	}
	if c.username = strings.TrimSpace(a.v.GetString("username")); c.username == "" {
		if c.username, err = a.prompter.Ask("Enter the SSH username: "); err != nil {
			return c, err
		}
	}
	if c.password = a.v.GetString("password"); c.password == "" || c.password == promptPassword {
		if c.password, err = a.prompter.AskSecret("Enter the SSH password: "); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (a *app) runInspect(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}

	creds, err := a.resolveCredentials()
	if err != nil {
		return err
	}

	inspections := service.NewInspectionService(a.connectors, a.cfg.Cluster, a.logger)
	resp, err := inspections.Inspect(&model.InspectRequest{
		NodeIP:      creds.nodeIP,
		Port:        a.v.GetInt("port"),
		Username:    creds.username,
		Password:    creds.password,
		IncludeSeed: a.v.GetBool("include_seed"),
		Format:      string(format),
		FetchDir:    a.v.GetString("fetch_dir"),
	})
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer(format, report.WithRunID(resp.RunID))
	if err != nil {
		return err
	}

	output := a.v.GetString("output_file")
	if err := renderer.WriteFile(output, resp.Nodes); err != nil {
		return err
	}

	a.logger.Info("Report written",
		zap.String("run_id", resp.RunID),
		zap.String("path", output),
		zap.String("format", string(format)),
		zap.Int("nodes", len(resp.Nodes)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Report for %d node(s) written to %s\n", len(resp.Nodes), output)
	return nil
}
