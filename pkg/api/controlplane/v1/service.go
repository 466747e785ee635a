package controlplanev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "agent_platform.ControlPlane"

const (
	ControlPlane_CreateOrganization_FullMethodName = "/" + ServiceName + "/CreateOrganization"
	ControlPlane_GetOrganization_FullMethodName    = "/" + ServiceName + "/GetOrganization"
	ControlPlane_ListOrganizations_FullMethodName  = "/" + ServiceName + "/ListOrganizations"
	ControlPlane_DeleteOrganization_FullMethodName = "/" + ServiceName + "/DeleteOrganization"
	ControlPlane_RegisterAgent_FullMethodName      = "/" + ServiceName + "/RegisterAgent"
	ControlPlane_GetAgent_FullMethodName           = "/" + ServiceName + "/GetAgent"
	ControlPlane_ListAgents_FullMethodName         = "/" + ServiceName + "/ListAgents"
	ControlPlane_DeactivateAgent_FullMethodName    = "/" + ServiceName + "/DeactivateAgent"
	ControlPlane_SetPolicy_FullMethodName          = "/" + ServiceName + "/SetPolicy"
	ControlPlane_GetPolicy_FullMethodName          = "/" + ServiceName + "/GetPolicy"
	ControlPlane_EvaluatePolicy_FullMethodName     = "/" + ServiceName + "/EvaluatePolicy"
	ControlPlane_SetBudget_FullMethodName          = "/" + ServiceName + "/SetBudget"
	ControlPlane_GetBudget_FullMethodName          = "/" + ServiceName + "/GetBudget"
	ControlPlane_CheckBudget_FullMethodName        = "/" + ServiceName + "/CheckBudget"
	ControlPlane_ReportUsage_FullMethodName        = "/" + ServiceName + "/ReportUsage"
	ControlPlane_GetUsage_FullMethodName           = "/" + ServiceName + "/GetUsage"
	ControlPlane_GetAuditLog_FullMethodName        = "/" + ServiceName + "/GetAuditLog"
)

// ControlPlaneClient is the client API for the ControlPlane service.
type ControlPlaneClient interface {
	CreateOrganization(ctx context.Context, in *CreateOrgRequest, opts ...grpc.CallOption) (*OrganizationProto, error)
	GetOrganization(ctx context.Context, in *GetOrgRequest, opts ...grpc.CallOption) (*OrganizationProto, error)
	ListOrganizations(ctx context.Context, in *ListOrgsRequest, opts ...grpc.CallOption) (*ListOrgsResponse, error)
	DeleteOrganization(ctx context.Context, in *DeleteOrgRequest, opts ...grpc.CallOption) (*DeleteOrgResponse, error)
	RegisterAgent(ctx context.Context, in *RegisterAgentRequest, opts ...grpc.CallOption) (*AgentIdentityProto, error)
	GetAgent(ctx context.Context, in *GetAgentRequest, opts ...grpc.CallOption) (*AgentIdentityProto, error)
	ListAgents(ctx context.Context, in *ListAgentsRequest, opts ...grpc.CallOption) (*ListAgentsResponse, error)
	DeactivateAgent(ctx context.Context, in *DeactivateAgentRequest, opts ...grpc.CallOption) (*DeactivateAgentResponse, error)
	SetPolicy(ctx context.Context, in *SetPolicyRequest, opts ...grpc.CallOption) (*PolicyProto, error)
	GetPolicy(ctx context.Context, in *GetPolicyRequest, opts ...grpc.CallOption) (*PolicyProto, error)
	EvaluatePolicy(ctx context.Context, in *EvaluatePolicyRequest, opts ...grpc.CallOption) (*PolicyDecisionProto, error)
	SetBudget(ctx context.Context, in *SetBudgetRequest, opts ...grpc.CallOption) (*BudgetProto, error)
	GetBudget(ctx context.Context, in *GetBudgetRequest, opts ...grpc.CallOption) (*BudgetProto, error)
	CheckBudget(ctx context.Context, in *CheckBudgetRequest, opts ...grpc.CallOption) (*CheckBudgetResponse, error)
	ReportUsage(ctx context.Context, in *ReportUsageRequest, opts ...grpc.CallOption) (*ReportUsageResponse, error)
	GetUsage(ctx context.Context, in *GetUsageRequest, opts ...grpc.CallOption) (*UsageSummaryProto, error)
	GetAuditLog(ctx context.Context, in *GetAuditLogRequest, opts ...grpc.CallOption) (*GetAuditLogResponse, error)
}

type controlPlaneClient struct {
	cc grpc.ClientConnInterface
}

func NewControlPlaneClient(cc grpc.ClientConnInterface) ControlPlaneClient {
	return &controlPlaneClient{cc: cc}
}

// invoke performs one unary call with the wire codec forced, so the stub works
// on any connection regardless of its default codec.
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in Message, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := make([]grpc.CallOption, 0, len(opts)+1)
	callOpts = append(callOpts, grpc.ForceCodec(Codec{}))
	callOpts = append(callOpts, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlPlaneClient) CreateOrganization(ctx context.Context, in *CreateOrgRequest, opts ...grpc.CallOption) (*OrganizationProto, error) {
	return invoke[OrganizationProto](ctx, c.cc, ControlPlane_CreateOrganization_FullMethodName, in, opts)
}

func (c *controlPlaneClient) GetOrganization(ctx context.Context, in *GetOrgRequest, opts ...grpc.CallOption) (*OrganizationProto, error) {
	return invoke[OrganizationProto](ctx, c.cc, ControlPlane_GetOrganization_FullMethodName, in, opts)
}

func (c *controlPlaneClient) ListOrganizations(ctx context.Context, in *ListOrgsRequest, opts ...grpc.CallOption) (*ListOrgsResponse, error) {
	return invoke[ListOrgsResponse](ctx, c.cc, ControlPlane_ListOrganizations_FullMethodName, in, opts)
}

func (c *controlPlaneClient) DeleteOrganization(ctx context.Context, in *DeleteOrgRequest, opts ...grpc.CallOption) (*DeleteOrgResponse, error) {
	return invoke[DeleteOrgResponse](ctx, c.cc, ControlPlane_DeleteOrganization_FullMethodName, in, opts)
}

func (c *controlPlaneClient) RegisterAgent(ctx context.Context, in *RegisterAgentRequest, opts ...grpc.CallOption) (*AgentIdentityProto, error) {
	return invoke[AgentIdentityProto](ctx, c.cc, ControlPlane_RegisterAgent_FullMethodName, in, opts)
}

func (c *controlPlaneClient) GetAgent(ctx context.Context, in *GetAgentRequest, opts ...grpc.CallOption) (*AgentIdentityProto, error) {
	return invoke[AgentIdentityProto](ctx, c.cc, ControlPlane_GetAgent_FullMethodName, in, opts)
}

func (c *controlPlaneClient) ListAgents(ctx context.Context, in *ListAgentsRequest, opts ...grpc.CallOption) (*ListAgentsResponse, error) {
	return invoke[ListAgentsResponse](ctx, c.cc, ControlPlane_ListAgents_FullMethodName, in, opts)
}

func (c *controlPlaneClient) DeactivateAgent(ctx context.Context, in *DeactivateAgentRequest, opts ...grpc.CallOption) (*DeactivateAgentResponse, error) {
	return invoke[DeactivateAgentResponse](ctx, c.cc, ControlPlane_DeactivateAgent_FullMethodName, in, opts)
}

func (c *controlPlaneClient) SetPolicy(ctx context.Context, in *SetPolicyRequest, opts ...grpc.CallOption) (*PolicyProto, error) {
	return invoke[PolicyProto](ctx, c.cc, ControlPlane_SetPolicy_FullMethodName, in, opts)
}

func (c *controlPlaneClient) GetPolicy(ctx context.Context, in *GetPolicyRequest, opts ...grpc.CallOption) (*PolicyProto, error) {
	return invoke[PolicyProto](ctx, c.cc, ControlPlane_GetPolicy_FullMethodName, in, opts)
}

func (c *controlPlaneClient) EvaluatePolicy(ctx context.Context, in *EvaluatePolicyRequest, opts ...grpc.CallOption) (*PolicyDecisionProto, error) {
	return invoke[PolicyDecisionProto](ctx, c.cc, ControlPlane_EvaluatePolicy_FullMethodName, in, opts)
}

func (c *controlPlaneClient) SetBudget(ctx context.Context, in *SetBudgetRequest, opts ...grpc.CallOption) (*BudgetProto, error) {
	return invoke[BudgetProto](ctx, c.cc, ControlPlane_SetBudget_FullMethodName, in, opts)
}

func (c *controlPlaneClient) GetBudget(ctx context.Context, in *GetBudgetRequest, opts ...grpc.CallOption) (*BudgetProto, error) {
	return invoke[BudgetProto](ctx, c.cc, ControlPlane_GetBudget_FullMethodName, in, opts)
}

func (c *controlPlaneClient) CheckBudget(ctx context.Context, in *CheckBudgetRequest, opts ...grpc.CallOption) (*CheckBudgetResponse, error) {
	return invoke[CheckBudgetResponse](ctx, c.cc, ControlPlane_CheckBudget_FullMethodName, in, opts)
}

func (c *controlPlaneClient) ReportUsage(ctx context.Context, in *ReportUsageRequest, opts ...grpc.CallOption) (*ReportUsageResponse, error) {
	return invoke[ReportUsageResponse](ctx, c.cc, ControlPlane_ReportUsage_FullMethodName, in, opts)
}

func (c *controlPlaneClient) GetUsage(ctx context.Context, in *GetUsageRequest, opts ...grpc.CallOption) (*UsageSummaryProto, error) {
	return invoke[UsageSummaryProto](ctx, c.cc, ControlPlane_GetUsage_FullMethodName, in, opts)
}

func (c *controlPlaneClient) GetAuditLog(ctx context.Context, in *GetAuditLogRequest, opts ...grpc.CallOption) (*GetAuditLogResponse, error) {
	return invoke[GetAuditLogResponse](ctx, c.cc, ControlPlane_GetAuditLog_FullMethodName, in, opts)
}

// ControlPlaneServer is the server API for the ControlPlane service.
// Servers must be created with grpc.ForceServerCodec(Codec{}).
type ControlPlaneServer interface {
	CreateOrganization(context.Context, *CreateOrgRequest) (*OrganizationProto, error)
	GetOrganization(context.Context, *GetOrgRequest) (*OrganizationProto, error)
	ListOrganizations(context.Context, *ListOrgsRequest) (*ListOrgsResponse, error)
	DeleteOrganization(context.Context, *DeleteOrgRequest) (*DeleteOrgResponse, error)
	RegisterAgent(context.Context, *RegisterAgentRequest) (*AgentIdentityProto, error)
	GetAgent(context.Context, *GetAgentRequest) (*AgentIdentityProto, error)
	ListAgents(context.Context, *ListAgentsRequest) (*ListAgentsResponse, error)
	DeactivateAgent(context.Context, *DeactivateAgentRequest) (*DeactivateAgentResponse, error)
	SetPolicy(context.Context, *SetPolicyRequest) (*PolicyProto, error)
	GetPolicy(context.Context, *GetPolicyRequest) (*PolicyProto, error)
	EvaluatePolicy(context.Context, *EvaluatePolicyRequest) (*PolicyDecisionProto, error)
	SetBudget(context.Context, *SetBudgetRequest) (*BudgetProto, error)
	GetBudget(context.Context, *GetBudgetRequest) (*BudgetProto, error)
	CheckBudget(context.Context, *CheckBudgetRequest) (*CheckBudgetResponse, error)
	ReportUsage(context.Context, *ReportUsageRequest) (*ReportUsageResponse, error)
	GetUsage(context.Context, *GetUsageRequest) (*UsageSummaryProto, error)
	GetAuditLog(context.Context, *GetAuditLogRequest) (*GetAuditLogResponse, error)
}

// UnimplementedControlPlaneServer can be embedded to have forward compatible implementations.
type UnimplementedControlPlaneServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedControlPlaneServer) CreateOrganization(context.Context, *CreateOrgRequest) (*OrganizationProto, error) {
	return nil, unimplemented("CreateOrganization")
}
func (UnimplementedControlPlaneServer) GetOrganization(context.Context, *GetOrgRequest) (*OrganizationProto, error) {
	return nil, unimplemented("GetOrganization")
}
func (UnimplementedControlPlaneServer) ListOrganizations(context.Context, *ListOrgsRequest) (*ListOrgsResponse, error) {
	return nil, unimplemented("ListOrganizations")
}
func (UnimplementedControlPlaneServer) DeleteOrganization(context.Context, *DeleteOrgRequest) (*DeleteOrgResponse, error) {
	return nil, unimplemented("DeleteOrganization")
}
func (UnimplementedControlPlaneServer) RegisterAgent(context.Context, *RegisterAgentRequest) (*AgentIdentityProto, error) {
	return nil, unimplemented("RegisterAgent")
}
func (UnimplementedControlPlaneServer) GetAgent(context.Context, *GetAgentRequest) (*AgentIdentityProto, error) {
	return nil, unimplemented("GetAgent")
}
func (UnimplementedControlPlaneServer) ListAgents(context.Context, *ListAgentsRequest) (*ListAgentsResponse, error) {
	return nil, unimplemented("ListAgents")
}
func (UnimplementedControlPlaneServer) DeactivateAgent(context.Context, *DeactivateAgentRequest) (*DeactivateAgentResponse, error) {
	return nil, unimplemented("DeactivateAgent")
}
func (UnimplementedControlPlaneServer) SetPolicy(context.Context, *SetPolicyRequest) (*PolicyProto, error) {
	return nil, unimplemented("SetPolicy")
}
func (UnimplementedControlPlaneServer) GetPolicy(context.Context, *GetPolicyRequest) (*PolicyProto, error) {
	return nil, unimplemented("GetPolicy")
}
func (UnimplementedControlPlaneServer) EvaluatePolicy(context.Context, *EvaluatePolicyRequest) (*PolicyDecisionProto, error) {
	return nil, unimplemented("EvaluatePolicy")
}
func (UnimplementedControlPlaneServer) SetBudget(context.Context, *SetBudgetRequest) (*BudgetProto, error) {
	return nil, unimplemented("SetBudget")
}
func (UnimplementedControlPlaneServer) GetBudget(context.Context, *GetBudgetRequest) (*BudgetProto, error) {
	return nil, unimplemented("GetBudget")
}
func (UnimplementedControlPlaneServer) CheckBudget(context.Context, *CheckBudgetRequest) (*CheckBudgetResponse, error) {
	return nil, unimplemented("CheckBudget")
}
func (UnimplementedControlPlaneServer) ReportUsage(context.Context, *ReportUsageRequest) (*ReportUsageResponse, error) {
	return nil, unimplemented("ReportUsage")
}
func (UnimplementedControlPlaneServer) GetUsage(context.Context, *GetUsageRequest) (*UsageSummaryProto, error) {
	return nil, unimplemented("GetUsage")
}
func (UnimplementedControlPlaneServer) GetAuditLog(context.Context, *GetAuditLogRequest) (*GetAuditLogResponse, error) {
	return nil, unimplemented("GetAuditLog")
}

func RegisterControlPlaneServer(s grpc.ServiceRegistrar, srv ControlPlaneServer) {
	s.RegisterService(&ControlPlane_ServiceDesc, srv)
}

func unaryMethod[Req, Resp any](name string, call func(ControlPlaneServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ControlPlaneServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ControlPlaneServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ControlPlane_ServiceDesc is the grpc.ServiceDesc for the ControlPlane service.
var ControlPlane_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlPlaneServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateOrganization", ControlPlaneServer.CreateOrganization),
		unaryMethod("GetOrganization", ControlPlaneServer.GetOrganization),
		unaryMethod("ListOrganizations", ControlPlaneServer.ListOrganizations),
		unaryMethod("DeleteOrganization", ControlPlaneServer.DeleteOrganization),
		unaryMethod("RegisterAgent", ControlPlaneServer.RegisterAgent),
		unaryMethod("GetAgent", ControlPlaneServer.GetAgent),
		unaryMethod("ListAgents", ControlPlaneServer.ListAgents),
		unaryMethod("DeactivateAgent", ControlPlaneServer.DeactivateAgent),
		unaryMethod("SetPolicy", ControlPlaneServer.SetPolicy),
		unaryMethod("GetPolicy", ControlPlaneServer.GetPolicy),
		unaryMethod("EvaluatePolicy", ControlPlaneServer.EvaluatePolicy),
		unaryMethod("SetBudget", ControlPlaneServer.SetBudget),
		unaryMethod("GetBudget", ControlPlaneServer.GetBudget),
		unaryMethod("CheckBudget", ControlPlaneServer.CheckBudget),
		unaryMethod("ReportUsage", ControlPlaneServer.ReportUsage),
		unaryMethod("GetUsage", ControlPlaneServer.GetUsage),
		unaryMethod("GetAuditLog", ControlPlaneServer.GetAuditLog),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "agent_platform.proto",
}
