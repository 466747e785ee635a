package agentplatform

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// String returns a pointer to v, for optional arguments.
func String(v string) *string { return &v }

// The wire has no optional strings: absence travels as "". Every optional
// identifier crosses the boundary through these two functions.

func encodeOptional(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func decodeOptional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timeOf(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

func mapOf(s *structpb.Struct) map[string]any {
	if s == nil || len(s.GetFields()) == 0 {
		return nil
	}
	return s.AsMap()
}

func structOf(m map[string]any) (*structpb.Struct, error) {
	if len(m) == 0 {
		return nil, nil
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("convert to struct: %w", err)
	}
	return s, nil
}

// buildToolPermissions emits the allow block followed by the deny block,
// each in caller order.
func buildToolPermissions(allowed, denied []string) []*v1.ToolPermissionProto {
	tools := make([]*v1.ToolPermissionProto, 0, len(allowed)+len(denied))
	for _, name := range allowed {
		tools = append(tools, &v1.ToolPermissionProto{ToolName: name, Effect: v1.EffectAllow})
	}
	for _, name := range denied {
		tools = append(tools, &v1.ToolPermissionProto{ToolName: name, Effect: v1.EffectDeny})
	}
	return tools
}

func orgFromProto(p *v1.OrganizationProto) *Org {
	return &Org{
		OrgID:     p.OrgId,
		Name:      p.Name,
		CreatedAt: timeOf(p.CreatedAt),
		Metadata:  mapOf(p.Metadata),
	}
}

func agentFromProto(p *v1.AgentIdentityProto) *Agent {
	return &Agent{
		AgentID:         p.AgentId,
		OrgID:           p.OrgId,
		Name:            p.Name,
		Role:            p.Role,
		Active:          p.Active,
		DelegatedUserID: decodeOptional(p.DelegatedUserId),
		CreatedAt:       timeOf(p.CreatedAt),
	}
}

func policyFromProto(p *v1.PolicyProto) *Policy {
	tools := make([]ToolPermission, 0, len(p.Tools))
	for _, t := range p.Tools {
		tools = append(tools, ToolPermission{
			ToolName:             t.ToolName,
			Effect:               Effect(t.Effect),
			ParametersConstraint: mapOf(t.ParametersConstraint),
		})
	}
	return &Policy{
		PolicyID:                p.PolicyId,
		OrgID:                   p.OrgId,
		AgentID:                 decodeOptional(p.AgentId),
		Tools:                   tools,
		TokenLimit:              p.TokenLimit,
		ExecutionTimeoutSeconds: p.ExecutionTimeoutSeconds,
		CreatedAt:               timeOf(p.CreatedAt),
		UpdatedAt:               timeOf(p.UpdatedAt),
	}
}

func budgetFromProto(p *v1.BudgetProto) *BudgetInfo {
	return &BudgetInfo{
		BudgetID:        p.BudgetId,
		OrgID:           p.OrgId,
		AgentID:         decodeOptional(p.AgentId),
		TokenLimit:      p.TokenLimit,
		TokensUsed:      p.TokensUsed,
		TokensRemaining: p.TokensRemaining,
		ToolInvocations: p.ToolInvocations,
		ResetPeriodDays: p.ResetPeriodDays,
		CreatedAt:       timeOf(p.CreatedAt),
		LastResetAt:     timeOf(p.LastResetAt),
	}
}

func usageFromProto(p *v1.UsageSummaryProto) *UsageSummary {
	return &UsageSummary{
		OrgID:                p.OrgId,
		AgentID:              decodeOptional(p.AgentId),
		TotalTokens:          p.TotalTokens,
		TotalToolInvocations: p.TotalToolInvocations,
		TotalDurationMs:      p.TotalExecutionDurationMs,
		ReportCount:          p.ReportCount,
	}
}

func auditFromProto(p *v1.AuditEntryProto) AuditEntry {
	return AuditEntry{
		EntryID:         p.EntryId,
		OrgID:           p.OrgId,
		AgentID:         p.AgentId,
		DelegatedUserID: decodeOptional(p.DelegatedUserId),
		ExecutionID:     p.ExecutionId,
		Action:          p.Action,
		ToolName:        decodeOptional(p.ToolName),
		Result:          p.Result,
		Reason:          decodeOptional(p.Reason),
		LatencyMs:       p.LatencyMs,
		TokensUsed:      p.TokensUsed,
		Timestamp:       timeOf(p.Timestamp),
	}
}
