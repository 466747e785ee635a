package controlplanev1

import (
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type OrganizationProto struct {
	OrgId     string
	Name      string
	CreatedAt *timestamppb.Timestamp
	Metadata  *structpb.Struct
}

func (m *OrganizationProto) encode(e *encoder) {
	e.string(1, m.OrgId)
	e.string(2, m.Name)
	e.timestamp(3, m.CreatedAt)
	e.structValue(4, m.Metadata)
}

func (m *OrganizationProto) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *OrganizationProto) UnmarshalWire(b []byte) error {
	*m = OrganizationProto{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.OrgId = f.asString()
		case 2:
			m.Name = f.asString()
		case 3:
			m.CreatedAt, err = f.asTimestamp()
		case 4:
			m.Metadata, err = f.asStruct()
		}
		return err
	})
}

type CreateOrgRequest struct {
	Name     string
	Metadata *structpb.Struct
}

func (m *CreateOrgRequest) encode(e *encoder) {
	e.string(1, m.Name)
	e.structValue(2, m.Metadata)
}

func (m *CreateOrgRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *CreateOrgRequest) UnmarshalWire(b []byte) error {
	*m = CreateOrgRequest{}
	return decode(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Name = f.asString()
		case 2:
			m.Metadata, err = f.asStruct()
		}
		return err
	})
}

type GetOrgRequest struct {
	OrgId string
}

func (m *GetOrgRequest) GetOrgId() string { return m.OrgId }

func (m *GetOrgRequest) encode(e *encoder) { e.string(1, m.OrgId) }

func (m *GetOrgRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *GetOrgRequest) UnmarshalWire(b []byte) error {
	*m = GetOrgRequest{}
	return decode(b, func(f field) error {
		if f.num == 1 {
			m.OrgId = f.asString()
		}
		return nil
	})
}

type ListOrgsRequest struct{}

func (m *ListOrgsRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *ListOrgsRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(field) error { return nil })
}

type ListOrgsResponse struct {
	Organizations []*OrganizationProto
}

func (m *ListOrgsResponse) encode(e *encoder) {
	for _, o := range m.Organizations {
		if o != nil {
			e.embed(1, o.encode)
		}
	}
}

func (m *ListOrgsResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *ListOrgsResponse) UnmarshalWire(b []byte) error {
	*m = ListOrgsResponse{}
	return decode(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		o := &OrganizationProto{}
		if err := f.embedded(o); err != nil {
			return err
		}
		m.Organizations = append(m.Organizations, o)
		return nil
	})
}

type DeleteOrgRequest struct {
	OrgId string
}

func (m *DeleteOrgRequest) GetOrgId() string { return m.OrgId }

func (m *DeleteOrgRequest) encode(e *encoder) { e.string(1, m.OrgId) }

func (m *DeleteOrgRequest) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *DeleteOrgRequest) UnmarshalWire(b []byte) error {
	*m = DeleteOrgRequest{}
	return decode(b, func(f field) error {
		if f.num == 1 {
			m.OrgId = f.asString()
		}
		return nil
	})
}

type DeleteOrgResponse struct {
	Success bool
}

func (m *DeleteOrgResponse) encode(e *encoder) { e.bool(1, m.Success) }

func (m *DeleteOrgResponse) MarshalWire() ([]byte, error) { return marshal(m.encode) }

func (m *DeleteOrgResponse) UnmarshalWire(b []byte) error {
	*m = DeleteOrgResponse{}
	return decode(b, func(f field) error {
		if f.num == 1 {
			m.Success = f.asBool()
		}
		return nil
	})
}
