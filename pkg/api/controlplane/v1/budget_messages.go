package controlplanev1

import "google.golang.org/protobuf/types/known/timestamppb"

type BudgetProto struct {
	BudgetId        string
	OrgId           string
	AgentId         string
	TokenLimit      int64
	TokensUsed      int64
	TokensRemaining int64
	ToolInvocations int32
	ResetPeriodDays int32
	CreatedAt       *timestamppb.Timestamp
	LastResetAt     *timestamppb.Timestamp
}

func (m *BudgetProto) encode(e *encoder) {
	e.string(1, m.BudgetId)
	e.string(2, m.OrgId)
	e.string(3, m.AgentId)
	e.int64(4, m.TokenLimit)
	e.int64(5, m.TokensUsed)
	e.int64(6, m.TokensRemaining)
	e.int32(7, m.ToolInvocations)
	e.int32(8, m.ResetPeriodDays)
	e.timestamp(9, m.CreatedAt)
	e.timestamp(10, m.LastResetAt)
}

func (m *BudgetProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *BudgetProto) UnmarshalWire(b []byte) error {
	*m = BudgetProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.BudgetId = f.asString()
		case 2:
			m.OrgId = f.asString()
		case 3:
			m.AgentId = f.asString()
		case 4:
			m.TokenLimit = f.asInt64()
		case 5:
			m.TokensUsed = f.asInt64()
		case 6:
			m.TokensRemaining = f.asInt64()
		case 7:
			m.ToolInvocations = f.asInt32()
		case 8:
			m.ResetPeriodDays = f.asInt32()
		case 9:
			m.CreatedAt, err = f.asTimestamp()
		case 10:
			m.LastResetAt, err = f.asTimestamp()
		}
		return err
	})
}

type SetBudgetRequest struct {
	OrgId           string
	AgentId         string
	TokenLimit      int64
	ResetPeriodDays int32
}

func (m *SetBudgetRequest) GetOrgId() string   { return m.OrgId }
func (m *SetBudgetRequest) GetAgentId() string { return m.AgentId }

func (m *SetBudgetRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	e.int64(3, m.TokenLimit)
	e.int32(4, m.ResetPeriodDays)
}

func (m *SetBudgetRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *SetBudgetRequest) UnmarshalWire(b []byte) error {
	*m = SetBudgetRequest{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.TokenLimit = f.asInt64()
		case 4:
			m.ResetPeriodDays = f.asInt32()
		}
		return nil
	})
}

type GetBudgetRequest struct {
	OrgId   string
	AgentId string
}

func (m *GetBudgetRequest) GetOrgId() string   { return m.OrgId }
func (m *GetBudgetRequest) GetAgentId() string { return m.AgentId }

func (m *GetBudgetRequest) MarshalWire() ([]byte, error) {
	return marshal((&agentRef{m.OrgId, m.AgentId}).encode)
}

func (m *GetBudgetRequest) UnmarshalWire(b []byte) error {
	var r agentRef
	if err := r.decode(b); err != nil {
		return err
	}
	*m = GetBudgetRequest(r)
	return nil
}

type CheckBudgetRequest struct {
	OrgId           string
	AgentId         string
	EstimatedTokens int64
}

func (m *CheckBudgetRequest) GetOrgId() string   { return m.OrgId }
func (m *CheckBudgetRequest) GetAgentId() string { return m.AgentId }

func (m *CheckBudgetRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	e.int64(3, m.EstimatedTokens)
}

func (m *CheckBudgetRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *CheckBudgetRequest) UnmarshalWire(b []byte) error {
	*m = CheckBudgetRequest{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.EstimatedTokens = f.asInt64()
		}
		return nil
	})
}

type CheckBudgetResponse struct {
	Allowed         bool
	TokensRemaining int64
	Reason          string
}

func (m *CheckBudgetResponse) encode(e *encoder) {
	e.bool(1, m.Allowed)
	e.int64(2, m.TokensRemaining)
	e.string(3, m.Reason)
}

func (m *CheckBudgetResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *CheckBudgetResponse) UnmarshalWire(b []byte) error {
	*m = CheckBudgetResponse{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.Allowed = f.asBool()
		case 2:
			m.TokensRemaining = f.asInt64()
		case 3:
			m.Reason = f.asString()
		}
		return nil
	})
}

type ReportUsageRequest struct {
	OrgId               string
	AgentId             string
	ExecutionId         string
	TokensUsed          int64
	ToolInvocations     int32
	ExecutionDurationMs int64
	ToolName            string
}

func (m *ReportUsageRequest) GetOrgId() string   { return m.OrgId }
func (m *ReportUsageRequest) GetAgentId() string { return m.AgentId }

func (m *ReportUsageRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	e.string(3, m.ExecutionId)
	e.int64(4, m.TokensUsed)
	e.int32(5, m.ToolInvocations)
	e.int64(6, m.ExecutionDurationMs)
	e.string(7, m.ToolName)
}

func (m *ReportUsageRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *ReportUsageRequest) UnmarshalWire(b []byte) error {
	*m = ReportUsageRequest{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.ExecutionId = f.asString()
		case 4:
			m.TokensUsed = f.asInt64()
		case 5:
			m.ToolInvocations = f.asInt32()
		case 6:
			m.ExecutionDurationMs = f.asInt64()
		case 7:
			m.ToolName = f.asString()
		}
		return nil
	})
}

type ReportUsageResponse struct {
	Success         bool
	TokensRemaining int64
}

func (m *ReportUsageResponse) encode(e *encoder) {
	e.bool(1, m.Success)
	e.int64(2, m.TokensRemaining)
}

func (m *ReportUsageResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *ReportUsageResponse) UnmarshalWire(b []byte) error {
	*m = ReportUsageResponse{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.Success = f.asBool()
		case 2:
			m.TokensRemaining = f.asInt64()
		}
		return nil
	})
}

type GetUsageRequest struct {
	OrgId   string
	AgentId string
}

func (m *GetUsageRequest) GetOrgId() string   { return m.OrgId }
func (m *GetUsageRequest) GetAgentId() string { return m.AgentId }

func (m *GetUsageRequest) MarshalWire() ([]byte, error) {
	return marshal((&agentRef{m.OrgId, m.AgentId}).encode)
}

func (m *GetUsageRequest) UnmarshalWire(b []byte) error {
	var r agentRef
	if err := r.decode(b); err != nil {
		return err
	}
	*m = GetUsageRequest(r)
	return nil
}

type UsageSummaryProto struct {
	OrgId                    string
	AgentId                  string
	TotalTokens              int64
	TotalToolInvocations     int32
	TotalExecutionDurationMs int64
	ReportCount              int32
}

func (m *UsageSummaryProto) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	e.int64(3, m.TotalTokens)
	e.int32(4, m.TotalToolInvocations)
	e.int64(5, m.TotalExecutionDurationMs)
	e.int32(6, m.ReportCount)
}

func (m *UsageSummaryProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *UsageSummaryProto) UnmarshalWire(b []byte) error {
	*m = UsageSummaryProto{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.TotalTokens = f.asInt64()
		case 4:
			m.TotalToolInvocations = f.asInt32()
		case 5:
			m.TotalExecutionDurationMs = f.asInt64()
		case 6:
			m.ReportCount = f.asInt32()
		}
		return nil
	})
}
