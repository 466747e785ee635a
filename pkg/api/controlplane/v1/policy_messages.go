package controlplanev1

import (
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	EffectAllow = "allow"
	EffectDeny  = "deny"
)

type ToolPermissionProto struct {
	ToolName             string
	Effect               string
	ParametersConstraint *structpb.Struct
}

func (m *ToolPermissionProto) encode(e *encoder) {
	e.string(1, m.ToolName)
	e.string(2, m.Effect)
	e.structValue(3, m.ParametersConstraint)
}

func (m *ToolPermissionProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *ToolPermissionProto) UnmarshalWire(b []byte) error {
	*m = ToolPermissionProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.ToolName = f.asString()
		case 2:
			m.Effect = f.asString()
		case 3:
			m.ParametersConstraint, err = f.asStruct()
		}
		return err
	})
}

func decodeTools(f field, dst []*ToolPermissionProto) ([]*ToolPermissionProto, error) {
	t := &ToolPermissionProto{}
	if err := f.embedded(t); err != nil {
		return dst, err
	}
	return append(dst, t), nil
}

type PolicyProto struct {
	PolicyId                string
	OrgId                   string
	AgentId                 string
	Tools                   []*ToolPermissionProto
	TokenLimit              int64
	ExecutionTimeoutSeconds int32
	CreatedAt               *timestamppb.Timestamp
	UpdatedAt               *timestamppb.Timestamp
}

func (m *PolicyProto) encode(e *encoder) {
	e.string(1, m.PolicyId)
	e.string(2, m.OrgId)
	e.string(3, m.AgentId)
	for _, t := range m.Tools {
		if t != nil {
			e.embed(4, t.encode)
		}
	}
	e.int64(5, m.TokenLimit)
	e.int32(6, m.ExecutionTimeoutSeconds)
	e.timestamp(7, m.CreatedAt)
	e.timestamp(8, m.UpdatedAt)
}

func (m *PolicyProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *PolicyProto) UnmarshalWire(b []byte) error {
	*m = PolicyProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.PolicyId = f.asString()
		case 2:
			m.OrgId = f.asString()
		case 3:
			m.AgentId = f.asString()
		case 4:
			m.Tools, err = decodeTools(f, m.Tools)
		case 5:
			m.TokenLimit = f.asInt64()
		case 6:
			m.ExecutionTimeoutSeconds = f.asInt32()
		case 7:
			m.CreatedAt, err = f.asTimestamp()
		case 8:
			m.UpdatedAt, err = f.asTimestamp()
		}
		return err
	})
}

type SetPolicyRequest struct {
	OrgId                   string
	AgentId                 string
	Tools                   []*ToolPermissionProto
	TokenLimit              int64
	ExecutionTimeoutSeconds int32
}

func (m *SetPolicyRequest) GetOrgId() string   { return m.OrgId }
func (m *SetPolicyRequest) GetAgentId() string { return m.AgentId }

func (m *SetPolicyRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	for _, t := range m.Tools {
		if t != nil {
			e.embed(3, t.encode)
		}
	}
	e.int64(4, m.TokenLimit)
	e.int32(5, m.ExecutionTimeoutSeconds)
}

func (m *SetPolicyRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *SetPolicyRequest) UnmarshalWire(b []byte) error {
	*m = SetPolicyRequest{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.Tools, err = decodeTools(f, m.Tools)
		case 4:
			m.TokenLimit = f.asInt64()
		case 5:
			m.ExecutionTimeoutSeconds = f.asInt32()
		}
		return err
	})
}

type GetPolicyRequest struct {
	OrgId   string
	AgentId string
}

func (m *GetPolicyRequest) GetOrgId() string   { return m.OrgId }
func (m *GetPolicyRequest) GetAgentId() string { return m.AgentId }

func (m *GetPolicyRequest) MarshalWire() ([]byte, error) {
	return marshal((&agentRef{m.OrgId, m.AgentId}).encode)
}

func (m *GetPolicyRequest) UnmarshalWire(b []byte) error {
	var r agentRef
	if err := r.decode(b); err != nil {
		return err
	}
	*m = GetPolicyRequest(r)
	return nil
}

type EvaluatePolicyRequest struct {
	OrgId           string
	AgentId         string
	ToolName        string
	EstimatedTokens int64
	Context         *structpb.Struct
}

func (m *EvaluatePolicyRequest) GetOrgId() string   { return m.OrgId }
func (m *EvaluatePolicyRequest) GetAgentId() string { return m.AgentId }

func (m *EvaluatePolicyRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	e.string(3, m.ToolName)
	e.int64(4, m.EstimatedTokens)
	e.structValue(5, m.Context)
}

func (m *EvaluatePolicyRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *EvaluatePolicyRequest) UnmarshalWire(b []byte) error {
	*m = EvaluatePolicyRequest{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.ToolName = f.asString()
		case 4:
			m.EstimatedTokens = f.asInt64()
		case 5:
			m.Context, err = f.asStruct()
		}
		return err
	})
}

type PolicyDecisionProto struct {
	Allowed         bool
	Reason          string
	MatchedPolicyId string
	EvaluatedAt     *timestamppb.Timestamp
}

func (m *PolicyDecisionProto) encode(e *encoder) {
	e.bool(1, m.Allowed)
	e.string(2, m.Reason)
	e.string(3, m.MatchedPolicyId)
	e.timestamp(4, m.EvaluatedAt)
}

func (m *PolicyDecisionProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *PolicyDecisionProto) UnmarshalWire(b []byte) error {
	*m = PolicyDecisionProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Allowed = f.asBool()
		case 2:
			m.Reason = f.asString()
		case 3:
			m.MatchedPolicyId = f.asString()
		case 4:
			m.EvaluatedAt, err = f.asTimestamp()
		}
		return err
	})
}
