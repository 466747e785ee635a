package controlplanev1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestMarshalKnownBytes(t *testing.T) {
	b, err := (&GetOrgRequest{OrgId: "ab"}).MarshalWire()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x02, 'a', 'b'}, b)

	b, err = (&DeleteOrgResponse{Success: true}).MarshalWire()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01}, b)

	b, err = (&ListOrgsRequest{}).MarshalWire()
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestZeroValuesAreOmitted(t *testing.T) {
	b, err := (&CheckBudgetRequest{}).MarshalWire()
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestNegativeInt32IsSignExtended(t *testing.T) {
	b, err := (&SetBudgetRequest{ResetPeriodDays: -1}).MarshalWire()
	require.NoError(t, err)
	// one tag byte plus a ten byte varint
	assert.Len(t, b, 11)

	var out SetBudgetRequest
	require.NoError(t, out.UnmarshalWire(b))
	assert.Equal(t, int32(-1), out.ResetPeriodDays)
}

func TestPolicyRoundTripKeepsToolOrder(t *testing.T) {
	constraint, err := structpb.NewStruct(map[string]any{"max_rows": 10.0})
	require.NoError(t, err)
	now := timestamppb.New(time.Unix(1700000000, 0).UTC())

	in := &PolicyProto{
		PolicyId: "p-1",
		OrgId:    "org-1",
		AgentId:  "agent-1",
		Tools: []*ToolPermissionProto{
			{ToolName: "search", Effect: EffectAllow, ParametersConstraint: constraint},
			{ToolName: "*", Effect: EffectAllow},
			{ToolName: "shell", Effect: EffectDeny},
		},
		TokenLimit:              5000,
		ExecutionTimeoutSeconds: 30,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	b, err := in.MarshalWire()
	require.NoError(t, err)

	var out PolicyProto
	require.NoError(t, out.UnmarshalWire(b))
	require.Len(t, out.Tools, 3)
	assert.Equal(t, "search", out.Tools[0].ToolName)
	assert.Equal(t, "*", out.Tools[1].ToolName)
	assert.Equal(t, EffectDeny, out.Tools[2].Effect)
	assert.Equal(t, 10.0, out.Tools[0].ParametersConstraint.AsMap()["max_rows"])
	assert.Nil(t, out.Tools[1].ParametersConstraint)
	assert.Equal(t, int64(5000), out.TokenLimit)
	assert.Equal(t, int32(30), out.ExecutionTimeoutSeconds)
	assert.True(t, now.AsTime().Equal(out.UpdatedAt.AsTime()))
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 7)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "org-9")
	b = protowire.AppendTag(b, 42, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	var out GetOrgRequest
	require.NoError(t, out.UnmarshalWire(b))
	assert.Equal(t, "org-9", out.OrgId)
}

func TestTruncatedInputFails(t *testing.T) {
	var out OrganizationProto
	err := out.UnmarshalWire([]byte{0x0a, 0x05, 'a'})
	assert.Error(t, err)
}

func TestAgentRefRequestsShareLayout(t *testing.T) {
	get, err := (&GetAgentRequest{OrgId: "o", AgentId: "a"}).MarshalWire()
	require.NoError(t, err)
	deact, err := (&DeactivateAgentRequest{OrgId: "o", AgentId: "a"}).MarshalWire()
	require.NoError(t, err)
	assert.Equal(t, get, deact)

	var usage GetUsageRequest
	require.NoError(t, usage.UnmarshalWire(get))
	assert.Equal(t, "o", usage.GetOrgId())
	assert.Equal(t, "a", usage.GetAgentId())
}

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "proto", c.Name())

	b, err := c.Marshal(&ReportUsageResponse{Success: true, TokensRemaining: 42})
	require.NoError(t, err)
	var resp ReportUsageResponse
	require.NoError(t, c.Unmarshal(b, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(42), resp.TokensRemaining)

	b, err = c.Marshal(wrapperspb.String("x"))
	require.NoError(t, err)
	w := &wrapperspb.StringValue{}
	require.NoError(t, c.Unmarshal(b, w))
	assert.Equal(t, "x", w.GetValue())

	_, err = c.Marshal(struct{}{})
	assert.Error(t, err)
	assert.Error(t, c.Unmarshal(nil, &struct{}{}))
}
