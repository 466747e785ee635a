package agentplatform

import "time"

// Agent roles known to the control plane. An empty role lets the server
// pick its default (executor).
const (
	RoleExecutor = "executor"
	RolePlanner  = "planner"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Org is a tenant boundary owning agents, policies and budgets.
type Org struct {
	OrgID     string         `json:"org_id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Agent is a principal that invokes tools within an Org. DelegatedUserID is
// set only when the agent acts on behalf of a human.
type Agent struct {
	AgentID         string    `json:"agent_id"`
	OrgID           string    `json:"org_id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Active          bool      `json:"active"`
	DelegatedUserID *string   `json:"delegated_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// PolicyDecision is a point-in-time evaluation. Allowed == false is a normal
// result, not an error.
type PolicyDecision struct {
	Allowed     bool      `json:"allowed"`
	Reason      string    `json:"reason"`
	PolicyID    *string   `json:"policy_id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

type ToolPermission struct {
	ToolName             string         `json:"tool_name"`
	Effect               Effect         `json:"effect"`
	ParametersConstraint map[string]any `json:"parameters_constraint,omitempty"`
}

// Policy is a stored set of tool rules plus limits. AgentID is nil for an
// organization-wide policy.
type Policy struct {
	PolicyID                string           `json:"policy_id"`
	OrgID                   string           `json:"org_id"`
	AgentID                 *string          `json:"agent_id"`
	Tools                   []ToolPermission `json:"tools"`
	TokenLimit              int64            `json:"token_limit"`
	ExecutionTimeoutSeconds int32            `json:"execution_timeout_seconds"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// BudgetInfo is a snapshot of a token ledger scoped to an Org (AgentID nil)
// or to one Agent.
type BudgetInfo struct {
	BudgetID        string    `json:"budget_id"`
	OrgID           string    `json:"org_id"`
	AgentID         *string   `json:"agent_id"`
	TokenLimit      int64     `json:"token_limit"`
	TokensUsed      int64     `json:"tokens_used"`
	TokensRemaining int64     `json:"tokens_remaining"`
	ToolInvocations int32     `json:"tool_invocations"`
	ResetPeriodDays int32     `json:"reset_period_days"`
	CreatedAt       time.Time `json:"created_at"`
	LastResetAt     time.Time `json:"last_reset_at"`
}

// BudgetCheck is advisory; it reserves nothing.
type BudgetCheck struct {
	Allowed         bool   `json:"allowed"`
	TokensRemaining int64  `json:"tokens_remaining"`
	Reason          string `json:"reason"`
}

type UsageSummary struct {
	OrgID                string  `json:"org_id"`
	AgentID              *string `json:"agent_id"`
	TotalTokens          int64   `json:"total_tokens"`
	TotalToolInvocations int32   `json:"total_tool_invocations"`
	TotalDurationMs      int64   `json:"total_duration_ms"`
	ReportCount          int32   `json:"report_count"`
}

// UsageReport is the argument of ReportUsageWithTool.
type UsageReport struct {
	OrgID           string
	AgentID         string
	ExecutionID     string
	TokensUsed      int64
	ToolInvocations int32
	DurationMs      int64
	ToolName        *string
}

type AuditEntry struct {
	EntryID         string    `json:"entry_id"`
	OrgID           string    `json:"org_id"`
	AgentID         string    `json:"agent_id"`
	DelegatedUserID *string   `json:"delegated_user_id"`
	ExecutionID     string    `json:"execution_id"`
	Action          string    `json:"action"`
	ToolName        *string   `json:"tool_name"`
	Result          string    `json:"result"`
	Reason          *string   `json:"reason"`
	LatencyMs       int64     `json:"latency_ms"`
	TokensUsed      int64     `json:"tokens_used"`
	Timestamp       time.Time `json:"timestamp"`
}
