package agentplatform

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

func TestOptionalRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("absent encodes to empty and decodes back to absent", prop.ForAll(
		func(_ int) bool {
			return encodeOptional(nil) == "" && decodeOptional(encodeOptional(nil)) == nil
		},
		gen.Int(),
	))

	properties.Property("non-empty value survives the round trip", prop.ForAll(
		func(v string) bool {
			got := decodeOptional(encodeOptional(&v))
			return got != nil && *got == v
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("decoded values never point at empty strings", prop.ForAll(
		func(s string) bool {
			got := decodeOptional(s)
			return (s == "") == (got == nil)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestToolPermissionOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("allow block precedes deny block, each in caller order", prop.ForAll(
		func(allowed, denied []string) bool {
			tools := buildToolPermissions(allowed, denied)
			if len(tools) != len(allowed)+len(denied) {
				return false
			}
			for i, name := range allowed {
				if tools[i].ToolName != name || tools[i].Effect != v1.EffectAllow {
					return false
				}
			}
			for i, name := range denied {
				tt := tools[len(allowed)+i]
				if tt.ToolName != name || tt.Effect != v1.EffectDeny {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

func TestBuildToolPermissionsExample(t *testing.T) {
	tools := buildToolPermissions([]string{"a", "b"}, []string{"c"})

	got := make([][2]string, 0, len(tools))
	for _, tt := range tools {
		got = append(got, [2]string{tt.ToolName, tt.Effect})
	}
	assert.Equal(t, [][2]string{{"a", "allow"}, {"b", "allow"}, {"c", "deny"}}, got)
	assert.Empty(t, buildToolPermissions(nil, nil))
}

func TestAgentFromProto(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	a := agentFromProto(&v1.AgentIdentityProto{
		AgentId:   "ag-1",
		OrgId:     "org-1",
		Name:      "bot1",
		Role:      RoleExecutor,
		Active:    true,
		CreatedAt: timestamppb.New(created),
	})
	assert.Nil(t, a.DelegatedUserID)
	assert.True(t, a.CreatedAt.Equal(created))

	a = agentFromProto(&v1.AgentIdentityProto{DelegatedUserId: "user-7"})
	require.NotNil(t, a.DelegatedUserID)
	assert.Equal(t, "user-7", *a.DelegatedUserID)
}

func TestPolicyFromProtoKeepsOrgScope(t *testing.T) {
	p := policyFromProto(&v1.PolicyProto{
		PolicyId: "p-1",
		OrgId:    "org-1",
		Tools: []*v1.ToolPermissionProto{
			{ToolName: "search", Effect: v1.EffectAllow},
			{ToolName: "shell", Effect: v1.EffectDeny},
		},
	})
	assert.Nil(t, p.AgentID)
	require.Len(t, p.Tools, 2)
	assert.Equal(t, EffectAllow, p.Tools[0].Effect)
	assert.Equal(t, EffectDeny, p.Tools[1].Effect)
	assert.True(t, p.CreatedAt.IsZero())
}

func TestStructOf(t *testing.T) {
	s, err := structOf(nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = structOf(map[string]any{"tier": "gold", "seats": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tier": "gold", "seats": 3.0}, mapOf(s))

	_, err = structOf(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
