package agentplatform

import (
	"context"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// GetAuditLog returns the newest entries of the organization, or of one
// agent when agentID is set. A zero limit leaves the page size to the server.
func (c *Client) GetAuditLog(ctx context.Context, orgID string, agentID *string, limit int32) ([]AuditEntry, error) {
	resp, err := c.rpc.GetAuditLog(ctx, &v1.GetAuditLogRequest{
		OrgId:   orgID,
		AgentId: encodeOptional(agentID),
		Limit:   limit,
	})
	if err != nil {
		return nil, c.fail("GetAuditLog", err)
	}

	entries := make([]AuditEntry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		entries = append(entries, auditFromProto(e))
	}
	return entries, nil
}
