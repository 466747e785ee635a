package agentplatform

import (
	"context"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// RegisterAgent registers an agent in orgID. delegatedUserID is nil for an
// autonomous agent. An empty role lets the server choose its default.
func (c *Client) RegisterAgent(ctx context.Context, orgID, name, role string, delegatedUserID *string) (*Agent, error) {
	resp, err := c.rpc.RegisterAgent(ctx, &v1.RegisterAgentRequest{
		OrgId:           orgID,
		Name:            name,
		Role:            role,
		DelegatedUserId: encodeOptional(delegatedUserID),
	})
	if err != nil {
		return nil, c.fail("RegisterAgent", err)
	}
	return agentFromProto(resp), nil
}

func (c *Client) GetAgent(ctx context.Context, orgID, agentID string) (*Agent, error) {
	resp, err := c.rpc.GetAgent(ctx, &v1.GetAgentRequest{OrgId: orgID, AgentId: agentID})
	if err != nil {
		return nil, c.fail("GetAgent", err)
	}
	return agentFromProto(resp), nil
}

// ListAgents lists the agents of orgID. DelegatedUserID is always nil in
// the result whatever the server sends; use RegisterAgent or GetAgent for
// delegation data.
func (c *Client) ListAgents(ctx context.Context, orgID string) ([]Agent, error) {
	resp, err := c.rpc.ListAgents(ctx, &v1.ListAgentsRequest{OrgId: orgID})
	if err != nil {
		return nil, c.fail("ListAgents", err)
	}

	agents := make([]Agent, 0, len(resp.Agents))
	for _, a := range resp.Agents {
		agent := agentFromProto(a)
		agent.DelegatedUserID = nil
		agents = append(agents, *agent)
	}
	return agents, nil
}

// DeactivateAgent reports the server's success flag. There is no way back.
func (c *Client) DeactivateAgent(ctx context.Context, orgID, agentID string) (bool, error) {
	resp, err := c.rpc.DeactivateAgent(ctx, &v1.DeactivateAgentRequest{OrgId: orgID, AgentId: agentID})
	if err != nil {
		return false, c.fail("DeactivateAgent", err)
	}
	return resp.Success, nil
}
