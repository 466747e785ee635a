package controlplanev1

import "google.golang.org/protobuf/types/known/timestamppb"

type GetAuditLogRequest struct {
	OrgId   string
	AgentId string
	Limit   int32
}

func (m *GetAuditLogRequest) GetOrgId() string   { return m.OrgId }
func (m *GetAuditLogRequest) GetAgentId() string { return m.AgentId }

func (m *GetAuditLogRequest) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.AgentId)
	e.int32(3, m.Limit)
}

func (m *GetAuditLogRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *GetAuditLogRequest) UnmarshalWire(b []byte) error {
	*m = GetAuditLogRequest{}
	return decode(b, func(f field) error {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.AgentId = f.asString()
		case 3:
			m.Limit = f.asInt32()
		}
		return nil
	})
}

type AuditEntryProto struct {
	EntryId         string
	OrgId           string
	AgentId         string
	DelegatedUserId string
	ExecutionId     string
	Action          string
	ToolName        string
	Result          string
	Reason          string
	LatencyMs       int64
	TokensUsed      int64
	Timestamp       *timestamppb.Timestamp
}

func (m *AuditEntryProto) encode(e *encoder) {
	e.string(1, m.EntryId)
	e.string(2, m.OrgId)
	e.string(3, m.AgentId)
	e.string(4, m.DelegatedUserId)
	e.string(5, m.ExecutionId)
	e.string(6, m.Action)
	e.string(7, m.ToolName)
	e.string(8, m.Result)
	e.string(9, m.Reason)
	e.int64(10, m.LatencyMs)
	e.int64(11, m.TokensUsed)
	e.timestamp(12, m.Timestamp)
}

func (m *AuditEntryProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *AuditEntryProto) UnmarshalWire(b []byte) error {
	*m = AuditEntryProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.EntryId = f.asString()
		case 2:
			m.OrgId = f.asString()
		case 3:
			m.AgentId = f.asString()
		case 4:
			m.DelegatedUserId = f.asString()
		case 5:
			m.ExecutionId = f.asString()
		case 6:
			m.Action = f.asString()
		case 7:
			m.ToolName = f.asString()
		case 8:
			m.Result = f.asString()
		case 9:
			m.Reason = f.asString()
		case 10:
			m.LatencyMs = f.asInt64()
		case 11:
			m.TokensUsed = f.asInt64()
		case 12:
			m.Timestamp, err = f.asTimestamp()
		}
		return err
	})
}

type GetAuditLogResponse struct {
	Entries []*AuditEntryProto
}

func (m *GetAuditLogResponse) encode(e *encoder) {
	for _, a := range m.Entries {
		if a != nil {
			e.embed(1, a.encode)
		}
	}
}

func (m *GetAuditLogResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *GetAuditLogResponse) UnmarshalWire(b []byte) error {
	*m = GetAuditLogResponse{}
	return decode(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		a := &AuditEntryProto{}
		if err := f.embedded(a); err != nil {
			return err
		}
		m.Entries = append(m.Entries, a)
		return nil
	})
}
