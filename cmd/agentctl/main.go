// agentctl manages organizations, agents, policies and budgets on the agent
// platform control plane. Flags go before positional arguments.
//
// Usage:
//
//	agentctl orgs create acme
//	agentctl agents register --role planner <org-id> summarizer
//	agentctl policy evaluate --tokens 500 <org-id> <agent-id> web_search
//	agentctl budget report --tokens 1200 <org-id> <agent-id>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/xela07ax/agentplatform-go/internal/infra"
	"github.com/xela07ax/agentplatform-go/pkg/agentplatform"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine renders a failure as "Error [<kind>]: <message>".
func errorLine(err error) string {
	var e *agentplatform.Error
	if errors.As(err, &e) {
		return fmt.Sprintf("Error [%s]: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("Error: %v", err)
}

// cliApp carries what the Before hook resolved to the command actions.
type cliApp struct {
	cfg    *infra.Config
	logger *zap.Logger
	// extra options appended on every Connect, used by tests to dial in-process
	extra []agentplatform.Option
}

func newApp(extra ...agentplatform.Option) *cli.App {
	a := &cliApp{extra: extra, logger: zap.NewNop()}

	return &cli.App{
		Name:    "agentctl",
		Usage:   "Agent Platform CLI - manage orgs, agents, policies and budgets",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Control plane address (host:port, http:// or https:// URL)",
				EnvVars: []string{"AP_ADDRESS"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key sent as x-api-key",
				EnvVars: []string{"AP_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to agentctl.yaml",
				EnvVars: []string{"AP_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaultCallTimeout,
				Usage: "Deadline for the whole command",
			},
		},

		Before: a.before,

		Commands: []*cli.Command{
			a.orgsCommand(),
			a.agentsCommand(),
			a.policyCommand(),
			a.budgetCommand(),
			a.auditCommand(),
		},

		After: func(*cli.Context) error {
			_ = a.logger.Sync()
			return nil
		},
	}
}

func (a *cliApp) before(c *cli.Context) error {
	cfg, err := infra.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	// Flags win over the config file and the environment
	if c.IsSet("address") {
		cfg.ControlPlane.Address = c.String("address")
	}
	if c.IsSet("api-key") {
		cfg.ControlPlane.APIKey = c.String("api-key")
	}
	if c.IsSet("log-level") {
		cfg.Logger.Level = c.String("log-level")
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.With(zap.String("mod", "agentctl"))
	return nil
}
