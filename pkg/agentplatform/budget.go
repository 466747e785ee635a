package agentplatform

import (
	"context"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// SetBudget creates or replaces a budget. A nil agentID sets the
// organization budget.
func (c *Client) SetBudget(ctx context.Context, orgID string, agentID *string, tokenLimit int64, resetPeriodDays int32) (*BudgetInfo, error) {
	resp, err := c.rpc.SetBudget(ctx, &v1.SetBudgetRequest{
		OrgId:           orgID,
		AgentId:         encodeOptional(agentID),
		TokenLimit:      tokenLimit,
		ResetPeriodDays: resetPeriodDays,
	})
	if err != nil {
		return nil, c.fail("SetBudget", err)
	}
	return budgetFromProto(resp), nil
}

func (c *Client) GetBudget(ctx context.Context, orgID string, agentID *string) (*BudgetInfo, error) {
	resp, err := c.rpc.GetBudget(ctx, &v1.GetBudgetRequest{OrgId: orgID, AgentId: encodeOptional(agentID)})
	if err != nil {
		return nil, c.fail("GetBudget", err)
	}
	return budgetFromProto(resp), nil
}

// CheckBudget is a pre-flight check. Allowed == false is a result, not an
// error.
func (c *Client) CheckBudget(ctx context.Context, orgID, agentID string, estimatedTokens int64) (*BudgetCheck, error) {
	resp, err := c.rpc.CheckBudget(ctx, &v1.CheckBudgetRequest{
		OrgId:           orgID,
		AgentId:         agentID,
		EstimatedTokens: estimatedTokens,
	})
	if err != nil {
		return nil, c.fail("CheckBudget", err)
	}
	return &BudgetCheck{
		Allowed:         resp.Allowed,
		TokensRemaining: resp.TokensRemaining,
		Reason:          resp.Reason,
	}, nil
}

// ReportUsage records consumption after an execution and returns the tokens
// remaining.
func (c *Client) ReportUsage(ctx context.Context, orgID, agentID, executionID string, tokensUsed int64, toolInvocations int32, durationMs int64) (int64, error) {
	return c.ReportUsageWithTool(ctx, UsageReport{
		OrgID:           orgID,
		AgentID:         agentID,
		ExecutionID:     executionID,
		TokensUsed:      tokensUsed,
		ToolInvocations: toolInvocations,
		DurationMs:      durationMs,
	})
}

// ReportUsageWithTool is ReportUsage with the optional tool name.
func (c *Client) ReportUsageWithTool(ctx context.Context, r UsageReport) (int64, error) {
	resp, err := c.rpc.ReportUsage(ctx, &v1.ReportUsageRequest{
		OrgId:               r.OrgID,
		AgentId:             r.AgentID,
		ExecutionId:         r.ExecutionID,
		TokensUsed:          r.TokensUsed,
		ToolInvocations:     r.ToolInvocations,
		ExecutionDurationMs: r.DurationMs,
		ToolName:            encodeOptional(r.ToolName),
	})
	if err != nil {
		return 0, c.fail("ReportUsage", err)
	}
	return resp.TokensRemaining, nil
}

func (c *Client) GetUsage(ctx context.Context, orgID string, agentID *string) (*UsageSummary, error) {
	resp, err := c.rpc.GetUsage(ctx, &v1.GetUsageRequest{OrgId: orgID, AgentId: encodeOptional(agentID)})
	if err != nil {
		return nil, c.fail("GetUsage", err)
	}
	return usageFromProto(resp), nil
}
