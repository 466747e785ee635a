package controlplanev1

import (
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type AgentIdentityProto struct {
	AgentId         string
	OrgId           string
	Name            string
	Role            string
	DelegatedUserId string
	TokenClaims     *structpb.Struct
	CreatedAt       *timestamppb.Timestamp
	Active          bool
}

func (m *AgentIdentityProto) encode(e *encoder) {
	e.string(1, m.AgentId)
	e.string(2, m.OrgId)
	e.string(3, m.Name)
	e.string(4, m.Role)
	e.string(5, m.DelegatedUserId)
	e.structValue(6, m.TokenClaims)
	e.timestamp(7, m.CreatedAt)
	e.bool(8, m.Active)
}

func (m *AgentIdentityProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *AgentIdentityProto) UnmarshalWire(b []byte) error {
	*m = AgentIdentityProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.AgentId = f.asString()
		case 2:
			m.OrgId = f.asString()
		case 3:
			m.Name = f.asString()
		case 4:
			m.Role = f.asString()
		case 5:
			m.DelegatedUserId = f.asString()
		case 6:
			m.TokenClaims, err = f.asStruct()
		case 7:
			m.CreatedAt, err = f.asTimestamp()
		case 8:
			m.Active = f.asBool()
		}
		return err
	})
}

type RegisterAgentRequest struct {
	OrgId           string
	Name            string
	Role            string
	DelegatedUserId string
	TokenClaims     *structpb.Struct
}

func (m *RegisterAgentRequest) GetOrgId() string { return m.OrgId }

func (m *RegisterAgentRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.Name)
	e.string(3, m.Role)
	e.string(4, m.DelegatedUserId)
	e.structValue(5, m.TokenClaims)
}

func (m *RegisterAgentRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *RegisterAgentRequest) UnmarshalWire(b []byte) error {
	*m = RegisterAgentRequest{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.Name = f.asString()
		case 3:
			m.Role = f.asString()
		case 4:
			m.DelegatedUserId = f.asString()
		case 5:
			m.TokenClaims, err = f.asStruct()
		}
		return err
	})
}

// agentRef is the {org_id=1, agent_id=2} shape shared by several requests.
type agentRef struct {
	OrgId   string
	AgentId string
}

func (m *agentRef) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
}

func (m *agentRef) decode(b []byte) error {
	*m = agentRef{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		}
		return nil
	})
}

type GetAgentRequest struct {
	OrgId   string
	AgentId string
}

func (m *GetAgentRequest) GetOrgId() string   { return m.OrgId }
func (m *GetAgentRequest) GetAgentId() string { return m.AgentId }

func (m *GetAgentRequest) MarshalWire() ([]byte, error) {
	return marshal((&agentRef{m.OrgId, m.AgentId}).encode)
}

func (m *GetAgentRequest) UnmarshalWire(b []byte) error {
	var r agentRef
	if err := r.decode(b); err != nil {
		return err
	}
	*m = GetAgentRequest(r)
	return nil
}

type ListAgentsRequest struct {
	OrgId string
}

func (m *ListAgentsRequest) GetOrgId() string { return m.OrgId }

func (m *ListAgentsRequest) encode(e *encoder) { e.string(1, m.OrgId) }

func (m *ListAgentsRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *ListAgentsRequest) UnmarshalWire(b []byte) error {
	*m = ListAgentsRequest{}
	return decode(b, func(f field) error {
		if f.num == 1 {
			m.OrgId = f.asString()
		}
		return nil
	})
}

type ListAgentsResponse struct {
	Agents []*AgentIdentityProto
}

func (m *ListAgentsResponse) encode(e *encoder) {
	for _, a := range m.Agents {
		if a != nil {
			e.embed(1, a.encode)
		}
	}
}

func (m *ListAgentsResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *ListAgentsResponse) UnmarshalWire(b []byte) error {
	*m = ListAgentsResponse{}
	return decode(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		a := &AgentIdentityProto{}
		if err := f.embedded(a); err != nil {
			return err
		}
		m.Agents = append(m.Agents, a)
		return nil
	})
}

type DeactivateAgentRequest struct {
	OrgId   string
	AgentId string
}

func (m *DeactivateAgentRequest) GetOrgId() string   { return m.OrgId }
func (m *DeactivateAgentRequest) GetAgentId() string { return m.AgentId }

func (m *DeactivateAgentRequest) MarshalWire() ([]byte, error) {
	return marshal((&agentRef{m.OrgId, m.AgentId}).encode)
}

func (m *DeactivateAgentRequest) UnmarshalWire(b []byte) error {
	var r agentRef
	if err := r.decode(b); err != nil {
		return err
	}
	*m = DeactivateAgentRequest(r)
	return nil
}

type DeactivateAgentResponse struct {
	Success bool
}

func (m *DeactivateAgentResponse) encode(e *encoder) { e.bool(1, m.Success) }

func (m *DeactivateAgentResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *DeactivateAgentResponse) UnmarshalWire(b []byte) error {
	*m = DeactivateAgentResponse{}
	return decode(b, func(f field) error {
		if f.num == 1 {
			m.Success = f.asBool()
		}
		return nil
	})
}
