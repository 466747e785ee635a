package agentplatform

import (
	"context"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// SetPolicy stores a policy and returns its id. A nil agentID sets the
// organization-wide policy. The server receives the allowed tools followed
// by the denied tools, each list in the order given.
func (c *Client) SetPolicy(ctx context.Context, orgID string, agentID *string, allowed, denied []string, tokenLimit int64, timeoutSeconds int32) (string, error) {
	resp, err := c.rpc.SetPolicy(ctx, &v1.SetPolicyRequest{
		OrgId:                   orgID,
		AgentId:                 encodeOptional(agentID),
		Tools:                   buildToolPermissions(allowed, denied),
		TokenLimit:              tokenLimit,
		ExecutionTimeoutSeconds: timeoutSeconds,
	})
	if err != nil {
		return "", c.fail("SetPolicy", err)
	}
	return resp.PolicyId, nil
}

// GetPolicy returns the organization policy (nil agentID) or the effective
// policy of one agent.
func (c *Client) GetPolicy(ctx context.Context, orgID string, agentID *string) (*Policy, error) {
	resp, err := c.rpc.GetPolicy(ctx, &v1.GetPolicyRequest{OrgId: orgID, AgentId: encodeOptional(agentID)})
	if err != nil {
		return nil, c.fail("GetPolicy", err)
	}
	return policyFromProto(resp), nil
}

// EvaluatePolicy asks whether agentID may call toolName. A refusal comes
// back as Allowed == false with a nil error.
func (c *Client) EvaluatePolicy(ctx context.Context, orgID, agentID, toolName string, estimatedTokens int64) (*PolicyDecision, error) {
	resp, err := c.rpc.EvaluatePolicy(ctx, &v1.EvaluatePolicyRequest{
		OrgId:           orgID,
		AgentId:         agentID,
		ToolName:        toolName,
		EstimatedTokens: estimatedTokens,
	})
	if err != nil {
		return nil, c.fail("EvaluatePolicy", err)
	}
	return &PolicyDecision{
		Allowed:     resp.Allowed,
		Reason:      resp.Reason,
		PolicyID:    decodeOptional(resp.MatchedPolicyId),
		EvaluatedAt: timeOf(resp.EvaluatedAt),
	}, nil
}
