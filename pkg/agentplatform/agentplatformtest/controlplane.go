package agentplatformtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

const (
	defaultPolicyTokenLimit = 100_000
	defaultPolicyTimeout    = 300
	defaultBudgetTokenLimit = 1_000_000
	defaultResetPeriodDays  = 30
	defaultAuditLimit       = 100
	defaultRole             = "executor"
)

type budget struct {
	proto *v1.BudgetProto
}

func (b *budget) remaining() int64 {
	return max(0, b.proto.TokenLimit-b.proto.TokensUsed)
}

// controlPlane keeps everything in maps under one lock.
type controlPlane struct {
	v1.UnimplementedControlPlaneServer

	strictNotFound bool

	mu       sync.Mutex
	orgs     map[string]*v1.OrganizationProto
	orgOrder []string
	agents   map[string]*v1.AgentIdentityProto // agent_id -> agent
	policies map[string]*v1.PolicyProto        // "org:org" | "org:agent:id"
	budgets  map[string]*budget                // same keys as policies
	usage    []*v1.ReportUsageRequest
	audit    []*v1.AuditEntryProto
}

func newControlPlane() *controlPlane {
	return &controlPlane{
		orgs:     make(map[string]*v1.OrganizationProto),
		agents:   make(map[string]*v1.AgentIdentityProto),
		policies: make(map[string]*v1.PolicyProto),
		budgets:  make(map[string]*budget),
	}
}

func scopeKey(orgID, agentID string) string {
	if agentID != "" {
		return orgID + ":agent:" + agentID
	}
	return orgID + ":org"
}

func now() *timestamppb.Timestamp { return timestamppb.New(time.Now().UTC()) }

func notFound(format string, args ...any) error {
	return status.Errorf(codes.NotFound, format, args...)
}

// clone hands out copies so callers never share state with the store.
func clone[T any, P interface {
	*T
	v1.Message
}](m P) P {
	b, err := m.MarshalWire()
	if err != nil {
		panic(err)
	}
	out := P(new(T))
	if err := out.UnmarshalWire(b); err != nil {
		panic(err)
	}
	return out
}

// --- Organization ---

func (c *controlPlane) CreateOrganization(_ context.Context, req *v1.CreateOrgRequest) (*v1.OrganizationProto, error) {
	if req.Name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	md := req.Metadata
	if md == nil {
		md = &structpb.Struct{}
	}
	org := &v1.OrganizationProto{
		OrgId:     uuid.New().String(),
		Name:      req.Name,
		CreatedAt: now(),
		Metadata:  proto.Clone(md).(*structpb.Struct),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.orgs[org.OrgId] = org
	c.orgOrder = append(c.orgOrder, org.OrgId)
	return clone(org), nil
}

func (c *controlPlane) GetOrganization(_ context.Context, req *v1.GetOrgRequest) (*v1.OrganizationProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	org, ok := c.orgs[req.OrgId]
	if !ok {
		return nil, notFound("org %s not found", req.OrgId)
	}
	return clone(org), nil
}

func (c *controlPlane) ListOrganizations(context.Context, *v1.ListOrgsRequest) (*v1.ListOrgsResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp := &v1.ListOrgsResponse{}
	for _, id := range c.orgOrder {
		resp.Organizations = append(resp.Organizations, clone(c.orgs[id]))
	}
	return resp, nil
}

func (c *controlPlane) DeleteOrganization(_ context.Context, req *v1.DeleteOrgRequest) (*v1.DeleteOrgResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.orgs[req.OrgId]; !ok {
		if c.strictNotFound {
			return nil, notFound("org %s not found", req.OrgId)
		}
		return &v1.DeleteOrgResponse{Success: false}, nil
	}
	delete(c.orgs, req.OrgId)
	for i, id := range c.orgOrder {
		if id == req.OrgId {
			c.orgOrder = append(c.orgOrder[:i], c.orgOrder[i+1:]...)
			break
		}
	}
	return &v1.DeleteOrgResponse{Success: true}, nil
}

// --- Agent ---

func (c *controlPlane) RegisterAgent(_ context.Context, req *v1.RegisterAgentRequest) (*v1.AgentIdentityProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.orgs[req.OrgId]; !ok {
		return nil, notFound("org %s not found", req.OrgId)
	}
	role := req.Role
	if role == "" {
		role = defaultRole
	}
	agent := &v1.AgentIdentityProto{
		AgentId:         uuid.New().String(),
		OrgId:           req.OrgId,
		Name:            req.Name,
		Role:            role,
		DelegatedUserId: req.DelegatedUserId,
		TokenClaims:     req.TokenClaims,
		CreatedAt:       now(),
		Active:          true,
	}
	c.agents[agent.AgentId] = agent
	return clone(agent), nil
}

func (c *controlPlane) findAgent(orgID, agentID string) (*v1.AgentIdentityProto, bool) {
	a, ok := c.agents[agentID]
	if !ok || a.OrgId != orgID {
		return nil, false
	}
	return a, true
}

func (c *controlPlane) GetAgent(_ context.Context, req *v1.GetAgentRequest) (*v1.AgentIdentityProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.findAgent(req.OrgId, req.AgentId)
	if !ok {
		return nil, notFound("agent %s not found in org %s", req.AgentId, req.OrgId)
	}
	return clone(a), nil
}

// ListAgents sends delegated_user_id like any other field.
func (c *controlPlane) ListAgents(_ context.Context, req *v1.ListAgentsRequest) (*v1.ListAgentsResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp := &v1.ListAgentsResponse{}
	for _, a := range c.agents {
		if a.OrgId == req.OrgId {
			resp.Agents = append(resp.Agents, clone(a))
		}
	}
	return resp, nil
}

func (c *controlPlane) DeactivateAgent(_ context.Context, req *v1.DeactivateAgentRequest) (*v1.DeactivateAgentResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.findAgent(req.OrgId, req.AgentId)
	if !ok {
		if c.strictNotFound {
			return nil, notFound("agent %s not found in org %s", req.AgentId, req.OrgId)
		}
		return &v1.DeactivateAgentResponse{Success: false}, nil
	}
	a.Active = false
	return &v1.DeactivateAgentResponse{Success: true}, nil
}

// --- Policy ---

func (c *controlPlane) SetPolicy(_ context.Context, req *v1.SetPolicyRequest) (*v1.PolicyProto, error) {
	tools := make([]*v1.ToolPermissionProto, 0, len(req.Tools))
	for _, t := range req.Tools {
		effect := t.Effect
		if effect == "" {
			effect = v1.EffectAllow
		}
		if effect != v1.EffectAllow && effect != v1.EffectDeny {
			return nil, status.Errorf(codes.InvalidArgument, "unknown effect %q", t.Effect)
		}
		tools = append(tools, &v1.ToolPermissionProto{ToolName: t.ToolName, Effect: effect})
	}

	tokenLimit := req.TokenLimit
	if tokenLimit == 0 {
		tokenLimit = defaultPolicyTokenLimit
	}
	timeout := req.ExecutionTimeoutSeconds
	if timeout == 0 {
		timeout = defaultPolicyTimeout
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := scopeKey(req.OrgId, req.AgentId)
	ts := now()
	p := &v1.PolicyProto{
		PolicyId:                uuid.New().String(),
		OrgId:                   req.OrgId,
		AgentId:                 req.AgentId,
		Tools:                   tools,
		TokenLimit:              tokenLimit,
		ExecutionTimeoutSeconds: timeout,
		CreatedAt:               ts,
		UpdatedAt:               ts,
	}
	if existing, ok := c.policies[key]; ok {
		p.PolicyId = existing.PolicyId
		p.CreatedAt = existing.CreatedAt
	}
	c.policies[key] = p
	return clone(p), nil
}

// effectivePolicy merges the agent policy over the org policy. An org deny
// cannot be overridden; limits take the smaller value.
func (c *controlPlane) effectivePolicy(orgID, agentID string) *v1.PolicyProto {
	org := c.policies[scopeKey(orgID, "")]
	agent := c.policies[scopeKey(orgID, agentID)]

	switch {
	case org == nil && agent == nil:
		return nil
	case agent == nil:
		return org
	case org == nil:
		return agent
	}

	orgDenied := make(map[string]bool)
	for _, t := range org.Tools {
		if t.Effect == v1.EffectDeny {
			orgDenied[t.ToolName] = true
		}
	}

	merged := append([]*v1.ToolPermissionProto(nil), org.Tools...)
	for _, perm := range agent.Tools {
		if orgDenied[perm.ToolName] {
			continue
		}
		kept := merged[:0:0]
		for _, t := range merged {
			if t.ToolName != perm.ToolName {
				kept = append(kept, t)
			}
		}
		merged = append(kept, perm)
	}

	return &v1.PolicyProto{
		PolicyId:                agent.PolicyId,
		OrgId:                   org.OrgId,
		AgentId:                 agent.AgentId,
		Tools:                   merged,
		TokenLimit:              min(org.TokenLimit, agent.TokenLimit),
		ExecutionTimeoutSeconds: min(org.ExecutionTimeoutSeconds, agent.ExecutionTimeoutSeconds),
	}
}

func (c *controlPlane) GetPolicy(_ context.Context, req *v1.GetPolicyRequest) (*v1.PolicyProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var p *v1.PolicyProto
	if req.AgentId != "" {
		p = c.effectivePolicy(req.OrgId, req.AgentId)
	} else {
		p = c.policies[scopeKey(req.OrgId, "")]
	}
	if p == nil {
		return nil, notFound("policy not found")
	}
	return clone(p), nil
}

// evaluate applies, in order: token limit, explicit deny, explicit allow,
// wildcard allow, default deny.
func evaluate(p *v1.PolicyProto, toolName string, estimatedTokens int64) *v1.PolicyDecisionProto {
	d := &v1.PolicyDecisionProto{EvaluatedAt: now()}
	if p == nil {
		d.Reason = "no policy found for org/agent"
		return d
	}
	d.MatchedPolicyId = p.PolicyId

	if estimatedTokens > p.TokenLimit {
		d.Reason = fmt.Sprintf("estimated tokens %d exceeds limit %d", estimatedTokens, p.TokenLimit)
		return d
	}

	for _, t := range p.Tools {
		if t.ToolName == toolName && t.Effect == v1.EffectDeny {
			d.Reason = fmt.Sprintf("tool '%s' explicitly denied", toolName)
			return d
		}
	}
	for _, t := range p.Tools {
		if t.ToolName == toolName && t.Effect == v1.EffectAllow {
			d.Allowed = true
			d.Reason = fmt.Sprintf("tool '%s' explicitly allowed", toolName)
			return d
		}
	}
	for _, t := range p.Tools {
		if t.ToolName == "*" && t.Effect == v1.EffectAllow {
			d.Allowed = true
			d.Reason = "wildcard allow"
			return d
		}
	}

	d.Reason = fmt.Sprintf("tool '%s' not in allowed list (default deny)", toolName)
	return d
}

func (c *controlPlane) EvaluatePolicy(_ context.Context, req *v1.EvaluatePolicyRequest) (*v1.PolicyDecisionProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := evaluate(c.effectivePolicy(req.OrgId, req.AgentId), req.ToolName, req.EstimatedTokens)

	result := "denied"
	if d.Allowed {
		result = "allowed"
	}
	c.appendAudit(&v1.AuditEntryProto{
		OrgId:    req.OrgId,
		AgentId:  req.AgentId,
		Action:   "policy_evaluation",
		ToolName: req.ToolName,
		Result:   result,
		Reason:   d.Reason,
	})
	return d, nil
}

// --- Budget ---

func (c *controlPlane) snapshot(b *budget) *v1.BudgetProto {
	out := clone(b.proto)
	out.TokensRemaining = b.remaining()
	return out
}

func (c *controlPlane) SetBudget(_ context.Context, req *v1.SetBudgetRequest) (*v1.BudgetProto, error) {
	tokenLimit := req.TokenLimit
	if tokenLimit == 0 {
		tokenLimit = defaultBudgetTokenLimit
	}
	resetDays := req.ResetPeriodDays
	if resetDays == 0 {
		resetDays = defaultResetPeriodDays
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := scopeKey(req.OrgId, req.AgentId)
	ts := now()
	b := &budget{proto: &v1.BudgetProto{
		BudgetId:        uuid.New().String(),
		OrgId:           req.OrgId,
		AgentId:         req.AgentId,
		TokenLimit:      tokenLimit,
		ResetPeriodDays: resetDays,
		CreatedAt:       ts,
		LastResetAt:     ts,
	}}
	// Replacing a budget keeps its ledger
	if existing, ok := c.budgets[key]; ok {
		b.proto.BudgetId = existing.proto.BudgetId
		b.proto.TokensUsed = existing.proto.TokensUsed
		b.proto.ToolInvocations = existing.proto.ToolInvocations
		b.proto.CreatedAt = existing.proto.CreatedAt
		b.proto.LastResetAt = existing.proto.LastResetAt
	}
	c.budgets[key] = b
	return c.snapshot(b), nil
}

func (c *controlPlane) GetBudget(_ context.Context, req *v1.GetBudgetRequest) (*v1.BudgetProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.budgets[scopeKey(req.OrgId, req.AgentId)]
	if !ok {
		return nil, notFound("budget not found")
	}
	return c.snapshot(b), nil
}

// CheckBudget checks the agent budget, then the org budget. With no budget
// at all the check passes with 0 remaining.
func (c *controlPlane) CheckBudget(_ context.Context, req *v1.CheckBudgetRequest) (*v1.CheckBudgetResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	agent := c.budgets[scopeKey(req.OrgId, req.AgentId)]
	if agent != nil && agent.remaining() < req.EstimatedTokens {
		return &v1.CheckBudgetResponse{
			TokensRemaining: agent.remaining(),
			Reason:          fmt.Sprintf("agent budget exhausted: %d remaining, %d requested", agent.remaining(), req.EstimatedTokens),
		}, nil
	}

	org := c.budgets[scopeKey(req.OrgId, "")]
	if org != nil && org.remaining() < req.EstimatedTokens {
		return &v1.CheckBudgetResponse{
			TokensRemaining: org.remaining(),
			Reason:          fmt.Sprintf("org budget exhausted: %d remaining, %d requested", org.remaining(), req.EstimatedTokens),
		}, nil
	}

	var remaining int64
	switch {
	case agent != nil && org != nil:
		remaining = min(agent.remaining(), org.remaining())
	case agent != nil:
		remaining = agent.remaining()
	case org != nil:
		remaining = org.remaining()
	}
	return &v1.CheckBudgetResponse{Allowed: true, TokensRemaining: remaining, Reason: "budget_ok"}, nil
}

// ReportUsage deducts from the agent and org budgets and returns what is
// left on the agent budget, or 0 when the agent has none.
func (c *controlPlane) ReportUsage(_ context.Context, req *v1.ReportUsageRequest) (*v1.ReportUsageResponse, error) {
	if req.TokensUsed < 0 {
		return nil, status.Error(codes.InvalidArgument, "tokens_used must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.usage = append(c.usage, clone(req))

	var remaining int64
	if agent, ok := c.budgets[scopeKey(req.OrgId, req.AgentId)]; ok {
		agent.proto.TokensUsed += req.TokensUsed
		agent.proto.ToolInvocations += req.ToolInvocations
		remaining = agent.remaining()
	}
	if org, ok := c.budgets[scopeKey(req.OrgId, "")]; ok {
		org.proto.TokensUsed += req.TokensUsed
		org.proto.ToolInvocations += req.ToolInvocations
	}

	c.appendAudit(&v1.AuditEntryProto{
		OrgId:       req.OrgId,
		AgentId:     req.AgentId,
		ExecutionId: req.ExecutionId,
		Action:      "usage_report",
		ToolName:    req.ToolName,
		Result:      "recorded",
		LatencyMs:   req.ExecutionDurationMs,
		TokensUsed:  req.TokensUsed,
	})
	return &v1.ReportUsageResponse{Success: true, TokensRemaining: remaining}, nil
}

func (c *controlPlane) GetUsage(_ context.Context, req *v1.GetUsageRequest) (*v1.UsageSummaryProto, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := &v1.UsageSummaryProto{OrgId: req.OrgId, AgentId: req.AgentId}
	for _, r := range c.usage {
		if req.OrgId != "" && r.OrgId != req.OrgId {
			continue
		}
		if req.AgentId != "" && r.AgentId != req.AgentId {
			continue
		}
		sum.TotalTokens += r.TokensUsed
		sum.TotalToolInvocations += r.ToolInvocations
		sum.TotalExecutionDurationMs += r.ExecutionDurationMs
		sum.ReportCount++
	}
	return sum, nil
}

// --- Audit ---

func (c *controlPlane) appendAudit(e *v1.AuditEntryProto) {
	e.EntryId = uuid.New().String()
	e.Timestamp = now()
	if a, ok := c.agents[e.AgentId]; ok {
		e.DelegatedUserId = a.DelegatedUserId
	}
	c.audit = append(c.audit, e)
}

// GetAuditLog returns the newest limit entries, oldest first.
func (c *controlPlane) GetAuditLog(_ context.Context, req *v1.GetAuditLogRequest) (*v1.GetAuditLogResponse, error) {
	limit := int(req.Limit)
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []*v1.AuditEntryProto
	for _, e := range c.audit {
		if req.OrgId != "" && e.OrgId != req.OrgId {
			continue
		}
		if req.AgentId != "" && e.AgentId != req.AgentId {
			continue
		}
		matched = append(matched, e)
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	resp := &v1.GetAuditLogResponse{}
	for _, e := range matched {
		resp.Entries = append(resp.Entries, clone(e))
	}
	return resp, nil
}
