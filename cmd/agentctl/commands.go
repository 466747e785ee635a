package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/xela07ax/agentplatform-go/pkg/agentplatform"
)

// args returns exactly the positional arguments named, or a usage error.
func args(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() != len(names) {
		return nil, fmt.Errorf("usage: %s %s", c.Command.HelpName, strings.Join(names, " "))
	}
	return c.Args().Slice(), nil
}

// optional maps an unset string flag to nil.
func optional(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	return agentplatform.String(c.String(name))
}

func agentIDFlag() cli.Flag {
	return &cli.StringFlag{Name: "agent-id", Usage: "Agent scope; organization scope when omitted"}
}

// --- Organizations ---

func (a *cliApp) orgsCommand() *cli.Command {
	return &cli.Command{
		Name:  "orgs",
		Usage: "Manage organizations",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create an organization",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "metadata", Usage: `JSON object, e.g. '{"tier":"gold"}'`},
				},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "NAME")
					if err != nil {
						return nil, err
					}
					var metadata map[string]any
					if raw := c.String("metadata"); raw != "" {
						if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
							return nil, fmt.Errorf("--metadata: %w", err)
						}
					}
					return client.CreateOrg(ctx, in[0], metadata)
				}),
			},
			{
				Name:      "get",
				Usage:     "Show an organization",
				ArgsUsage: "ORG_ID",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					return client.GetOrg(ctx, in[0])
				}),
			},
			{
				Name:  "list",
				Usage: "List all organizations",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					return client.ListOrgs(ctx)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete an organization",
				ArgsUsage: "ORG_ID",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					deleted, err := client.DeleteOrg(ctx, in[0])
					if err != nil {
						return nil, err
					}
					return map[string]any{"org_id": in[0], "deleted": deleted}, nil
				}),
			},
		},
	}
}

// --- Agents ---

func (a *cliApp) agentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "agents",
		Usage: "Manage agents",
		Subcommands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "Register an agent under an organization",
				ArgsUsage: "ORG_ID NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Value: agentplatform.RoleExecutor, Usage: "executor, planner, reviewer or admin"},
					&cli.StringFlag{Name: "delegated-user", Usage: "Human the agent acts for"},
				},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID", "NAME")
					if err != nil {
						return nil, err
					}
					switch role := c.String("role"); role {
					case agentplatform.RoleExecutor, agentplatform.RolePlanner, agentplatform.RoleReviewer, agentplatform.RoleAdmin:
					default:
						return nil, fmt.Errorf("--role: unknown role %q", role)
					}
					return client.RegisterAgent(ctx, in[0], in[1], c.String("role"), optional(c, "delegated-user"))
				}),
			},
			{
				Name:      "get",
				Usage:     "Show an agent",
				ArgsUsage: "ORG_ID AGENT_ID",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID", "AGENT_ID")
					if err != nil {
						return nil, err
					}
					return client.GetAgent(ctx, in[0], in[1])
				}),
			},
			{
				Name:      "list",
				Usage:     "List agents in an organization",
				ArgsUsage: "ORG_ID",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					return client.ListAgents(ctx, in[0])
				}),
			},
			{
				Name:      "deactivate",
				Usage:     "Deactivate an agent",
				ArgsUsage: "ORG_ID AGENT_ID",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID", "AGENT_ID")
					if err != nil {
						return nil, err
					}
					deactivated, err := client.DeactivateAgent(ctx, in[0], in[1])
					if err != nil {
						return nil, err
					}
					return map[string]any{"agent_id": in[1], "deactivated": deactivated}, nil
				}),
			},
		},
	}
}

// --- Policy ---

func (a *cliApp) policyCommand() *cli.Command {
	return &cli.Command{
		Name:  "policy",
		Usage: "Manage policies",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set policy for an org or agent",
				ArgsUsage: "ORG_ID",
				Flags: []cli.Flag{
					agentIDFlag(),
					&cli.StringSliceFlag{Name: "allow", Usage: "Tool to allow, repeatable"},
					&cli.StringSliceFlag{Name: "deny", Usage: "Tool to deny, repeatable"},
					&cli.Int64Flag{Name: "token-limit", Value: 100000},
					&cli.IntFlag{Name: "timeout-seconds", Value: 300, Usage: "Execution timeout in seconds"},
				},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					policyID, err := client.SetPolicy(ctx, in[0], optional(c, "agent-id"),
						c.StringSlice("allow"), c.StringSlice("deny"),
						c.Int64("token-limit"), int32(c.Int("timeout-seconds")))
					if err != nil {
						return nil, err
					}
					return map[string]string{"policy_id": policyID}, nil
				}),
			},
			{
				Name:      "get",
				Usage:     "Show the stored policy for an org or agent",
				ArgsUsage: "ORG_ID",
				Flags:     []cli.Flag{agentIDFlag()},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					return client.GetPolicy(ctx, in[0], optional(c, "agent-id"))
				}),
			},
			{
				Name:      "evaluate",
				Usage:     "Evaluate whether an agent can use a tool",
				ArgsUsage: "ORG_ID AGENT_ID TOOL_NAME",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "tokens", Usage: "Estimated tokens"},
				},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID", "AGENT_ID", "TOOL_NAME")
					if err != nil {
						return nil, err
					}
					return client.EvaluatePolicy(ctx, in[0], in[1], in[2], c.Int64("tokens"))
				}),
			},
		},
	}
}

// --- Budget ---

func (a *cliApp) budgetCommand() *cli.Command {
	return &cli.Command{
		Name:  "budget",
		Usage: "Manage budgets and usage",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Set budget for an org or agent",
				ArgsUsage: "ORG_ID",
				Flags: []cli.Flag{
					agentIDFlag(),
					&cli.Int64Flag{Name: "token-limit", Value: 1000000},
					&cli.IntFlag{Name: "reset-days", Value: 30},
				},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					return client.SetBudget(ctx, in[0], optional(c, "agent-id"), c.Int64("token-limit"), int32(c.Int("reset-days")))
				}),
			},
			{
				Name:      "get",
				Usage:     "Show the budget for an org or agent",
				ArgsUsage: "ORG_ID",
				Flags:     []cli.Flag{agentIDFlag()},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					return client.GetBudget(ctx, in[0], optional(c, "agent-id"))
				}),
			},
			{
				Name:      "check",
				Usage:     "Check if an agent has budget for estimated tokens",
				ArgsUsage: "ORG_ID AGENT_ID ESTIMATED_TOKENS",
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID", "AGENT_ID", "ESTIMATED_TOKENS")
					if err != nil {
						return nil, err
					}
					tokens, err := strconv.ParseInt(in[2], 10, 64)
					if err != nil {
						return nil, fmt.Errorf("ESTIMATED_TOKENS: %w", err)
					}
					return client.CheckBudget(ctx, in[0], in[1], tokens)
				}),
			},
			{
				Name:      "report",
				Usage:     "Report usage after an execution",
				ArgsUsage: "ORG_ID AGENT_ID",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "tokens", Required: true},
					&cli.IntFlag{Name: "tool-invocations"},
					&cli.Int64Flag{Name: "duration-ms"},
					&cli.StringFlag{Name: "execution-id", Usage: "Generated when omitted"},
					&cli.StringFlag{Name: "tool", Usage: "Tool the usage is attributed to"},
				},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID", "AGENT_ID")
					if err != nil {
						return nil, err
					}
					executionID := c.String("execution-id")
					if executionID == "" {
						executionID = uuid.NewString()
					}
					remaining, err := client.ReportUsageWithTool(ctx, agentplatform.UsageReport{
						OrgID:           in[0],
						AgentID:         in[1],
						ExecutionID:     executionID,
						TokensUsed:      c.Int64("tokens"),
						ToolInvocations: int32(c.Int("tool-invocations")),
						DurationMs:      c.Int64("duration-ms"),
						ToolName:        optional(c, "tool"),
					})
					if err != nil {
						return nil, err
					}
					return map[string]any{"execution_id": executionID, "tokens_remaining": remaining}, nil
				}),
			},
			{
				Name:      "usage",
				Usage:     "Show the usage summary",
				ArgsUsage: "ORG_ID",
				Flags:     []cli.Flag{agentIDFlag()},
				Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
					in, err := args(c, "ORG_ID")
					if err != nil {
						return nil, err
					}
					return client.GetUsage(ctx, in[0], optional(c, "agent-id"))
				}),
			},
		},
	}
}

// --- Audit ---

func (a *cliApp) auditCommand() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Usage:     "Show the most recent audit entries",
		ArgsUsage: "ORG_ID",
		Flags: []cli.Flag{
			agentIDFlag(),
			&cli.IntFlag{Name: "limit", Value: 100},
		},
		Action: a.call(func(ctx context.Context, c *cli.Context, client *agentplatform.Client) (any, error) {
			in, err := args(c, "ORG_ID")
			if err != nil {
				return nil, err
			}
			return client.GetAuditLog(ctx, in[0], optional(c, "agent-id"), int32(c.Int("limit")))
		}),
	}
}
