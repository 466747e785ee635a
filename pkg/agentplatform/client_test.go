package agentplatform_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xela07ax/agentplatform-go/pkg/agentplatform"
	"github.com/xela07ax/agentplatform-go/pkg/agentplatform/agentplatformtest"
	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

func newClient(t *testing.T, opts ...agentplatformtest.Option) (*agentplatform.Client, *agentplatformtest.Server) {
	t.Helper()
	srv := agentplatformtest.NewServer(opts...)
	t.Cleanup(srv.Close)

	client, err := agentplatform.Connect(context.Background(), srv.Address(),
		agentplatform.WithDialOptions(srv.DialOption()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestOrgLifecycle(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	created, err := client.CreateOrg(ctx, "acme", map[string]any{"tier": "gold"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.OrgID)
	assert.Equal(t, "acme", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := client.GetOrg(ctx, created.OrgID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	orgs, err := client.ListOrgs(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, created.OrgID, orgs[0].OrgID)

	ok, err := client.DeleteOrg(ctx, created.OrgID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = client.GetOrg(ctx, created.OrgID)
	assert.ErrorIs(t, err, agentplatform.ErrNotFound)
}

func TestCreateOrgWithoutMetadata(t *testing.T) {
	client, _ := newClient(t)

	org, err := client.CreateOrg(context.Background(), "plain", nil)
	require.NoError(t, err)
	assert.Nil(t, org.Metadata)
}

func TestCreateOrgRejectsUnencodableMetadata(t *testing.T) {
	client, srv := newClient(t)

	_, err := client.CreateOrg(context.Background(), "acme", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, agentplatform.KindCall, agentplatform.KindOf(err))
	assert.Zero(t, srv.Calls("CreateOrganization"))
}

func TestGetOrgRoundTripProperty(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	for i := 0; i < 20; i++ {
		created, err := client.CreateOrg(ctx, fmt.Sprintf("org-%d", i), nil)
		require.NoError(t, err)
		fetched, err := client.GetOrg(ctx, created.OrgID)
		require.NoError(t, err)
		assert.Equal(t, created, fetched)
	}
}

func TestDeleteUnknownOrgReturnsFalse(t *testing.T) {
	client, _ := newClient(t)

	ok, err := client.DeleteOrg(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteUnknownOrgNotFoundWhenServerSaysSo(t *testing.T) {
	client, _ := newClient(t, agentplatformtest.WithStrictNotFound())

	ok, err := client.DeleteOrg(context.Background(), "missing")
	assert.False(t, ok)
	assert.ErrorIs(t, err, agentplatform.ErrNotFound)
	assert.NotErrorIs(t, err, agentplatform.ErrCall)
}

func TestRegisterAgentDelegation(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	org, err := client.CreateOrg(ctx, "acme", nil)
	require.NoError(t, err)

	bot, err := client.RegisterAgent(ctx, org.OrgID, "bot1", agentplatform.RoleExecutor, nil)
	require.NoError(t, err)
	assert.Nil(t, bot.DelegatedUserID)
	assert.True(t, bot.Active)
	req := srv.LastRequest("RegisterAgent").(*v1.RegisterAgentRequest)
	assert.Equal(t, "", req.DelegatedUserId)

	helper, err := client.RegisterAgent(ctx, org.OrgID, "helper", "", agentplatform.String("user-42"))
	require.NoError(t, err)
	require.NotNil(t, helper.DelegatedUserID)
	assert.Equal(t, "user-42", *helper.DelegatedUserID)
	assert.Equal(t, agentplatform.RoleExecutor, helper.Role)

	got, err := client.GetAgent(ctx, org.OrgID, helper.AgentID)
	require.NoError(t, err)
	require.NotNil(t, got.DelegatedUserID)
	assert.Equal(t, "user-42", *got.DelegatedUserID)
}

func TestRegisterAgentUnknownOrg(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.RegisterAgent(context.Background(), "missing", "bot", agentplatform.RoleExecutor, nil)
	assert.Equal(t, agentplatform.KindNotFound, agentplatform.KindOf(err))
}

func TestListAgentsDropsDelegation(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	org, err := client.CreateOrg(ctx, "acme", nil)
	require.NoError(t, err)
	_, err = client.RegisterAgent(ctx, org.OrgID, "helper", agentplatform.RolePlanner, agentplatform.String("user-42"))
	require.NoError(t, err)

	agents, err := client.ListAgents(ctx, org.OrgID)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "helper", agents[0].Name)
	assert.Nil(t, agents[0].DelegatedUserID)
}

func TestDeactivateAgent(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	org, err := client.CreateOrg(ctx, "acme", nil)
	require.NoError(t, err)
	bot, err := client.RegisterAgent(ctx, org.OrgID, "bot1", agentplatform.RoleExecutor, nil)
	require.NoError(t, err)

	ok, err := client.DeactivateAgent(ctx, org.OrgID, bot.AgentID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := client.GetAgent(ctx, org.OrgID, bot.AgentID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	ok, err = client.DeactivateAgent(ctx, org.OrgID, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPolicySendsAllowThenDeny(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	id, err := client.SetPolicy(ctx, "org-1", nil, []string{"a", "b"}, []string{"c"}, 1000, 30)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	req := srv.LastSetPolicy()
	require.NotNil(t, req)
	assert.Equal(t, "", req.AgentId)
	got := make([][2]string, 0, len(req.Tools))
	for _, tool := range req.Tools {
		got = append(got, [2]string{tool.ToolName, tool.Effect})
	}
	assert.Equal(t, [][2]string{{"a", "allow"}, {"b", "allow"}, {"c", "deny"}}, got)
	assert.Equal(t, int64(1000), req.TokenLimit)
	assert.Equal(t, int32(30), req.ExecutionTimeoutSeconds)

	_, err = client.SetPolicy(ctx, "org-1", agentplatform.String("agent-1"), nil, []string{"shell"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", srv.LastSetPolicy().AgentId)
}

func TestAcmeScenario(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	org, err := client.CreateOrg(ctx, "acme", nil)
	require.NoError(t, err)
	bot, err := client.RegisterAgent(ctx, org.OrgID, "bot1", agentplatform.RoleExecutor, nil)
	require.NoError(t, err)

	policyID, err := client.SetPolicy(ctx, org.OrgID, nil, []string{"search"}, nil, 1000, 30)
	require.NoError(t, err)

	decision, err := client.EvaluatePolicy(ctx, org.OrgID, bot.AgentID, "search", 10)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.PolicyID)
	assert.Equal(t, policyID, *decision.PolicyID)

	policy, err := client.GetPolicy(ctx, org.OrgID, nil)
	require.NoError(t, err)
	assert.Nil(t, policy.AgentID)
	require.Len(t, policy.Tools, 1)
	assert.Equal(t, agentplatform.EffectAllow, policy.Tools[0].Effect)
}

func TestEvaluatePolicyDenialIsNotAnError(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	_, err := client.SetPolicy(ctx, "org-1", nil, []string{"*"}, []string{"shell"}, 1000, 30)
	require.NoError(t, err)

	decision, err := client.EvaluatePolicy(ctx, "org-1", "agent-1", "shell", 10)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)

	decision, err = client.EvaluatePolicy(ctx, "org-1", "agent-1", "search", 5000)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestEvaluatePolicyWithoutPolicyHasNoPolicyID(t *testing.T) {
	client, _ := newClient(t)

	decision, err := client.EvaluatePolicy(context.Background(), "org-1", "agent-1", "search", 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Nil(t, decision.PolicyID)
}

func TestAgentPolicyCannotLiftOrgDeny(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	agentID := "agent-1"

	_, err := client.SetPolicy(ctx, "org-1", nil, []string{"search"}, []string{"shell"}, 1000, 60)
	require.NoError(t, err)
	_, err = client.SetPolicy(ctx, "org-1", &agentID, []string{"shell", "browse"}, nil, 500, 30)
	require.NoError(t, err)

	decision, err := client.EvaluatePolicy(ctx, "org-1", agentID, "shell", 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	decision, err = client.EvaluatePolicy(ctx, "org-1", agentID, "browse", 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	effective, err := client.GetPolicy(ctx, "org-1", &agentID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), effective.TokenLimit)
	assert.Equal(t, int32(30), effective.ExecutionTimeoutSeconds)
}

func TestBudgetScenario(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	org, err := client.CreateOrg(ctx, "acme", nil)
	require.NoError(t, err)
	bot, err := client.RegisterAgent(ctx, org.OrgID, "bot1", agentplatform.RoleExecutor, nil)
	require.NoError(t, err)

	info, err := client.SetBudget(ctx, org.OrgID, nil, 500, 30)
	require.NoError(t, err)
	assert.Nil(t, info.AgentID)
	assert.Equal(t, int64(500), info.TokenLimit)
	assert.Equal(t, int64(500), info.TokensRemaining)

	remaining, err := client.ReportUsage(ctx, org.OrgID, bot.AgentID, "exec1", 600, 2, 1200)
	require.NoError(t, err)
	assert.Zero(t, remaining) // no agent budget

	check, err := client.CheckBudget(ctx, org.OrgID, bot.AgentID, 10)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Zero(t, check.TokensRemaining)
	assert.NotEmpty(t, check.Reason)

	info, err = client.GetBudget(ctx, org.OrgID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(600), info.TokensUsed)
	assert.Equal(t, int32(2), info.ToolInvocations)

	usage, err := client.GetUsage(ctx, org.OrgID, agentplatform.String(bot.AgentID))
	require.NoError(t, err)
	assert.Equal(t, int64(600), usage.TotalTokens)
	assert.Equal(t, int64(1200), usage.TotalDurationMs)
	assert.Equal(t, int32(1), usage.ReportCount)
}

func TestAgentBudgetRemaining(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	agentID := "agent-1"

	info, err := client.SetBudget(ctx, "org-1", &agentID, 1000, 7)
	require.NoError(t, err)
	require.NotNil(t, info.AgentID)
	assert.Equal(t, agentID, *info.AgentID)

	remaining, err := client.ReportUsageWithTool(ctx, agentplatform.UsageReport{
		OrgID:       "org-1",
		AgentID:     agentID,
		ExecutionID: "exec-1",
		TokensUsed:  250,
		ToolName:    agentplatform.String("search"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(750), remaining)

	check, err := client.CheckBudget(ctx, "org-1", agentID, 100)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.Equal(t, int64(750), check.TokensRemaining)
}

func TestGetBudgetMissing(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.GetBudget(context.Background(), "org-1", nil)
	assert.ErrorIs(t, err, agentplatform.ErrNotFound)
}

func TestAuditLog(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	_, err := client.SetPolicy(ctx, "org-1", nil, []string{"search"}, nil, 1000, 30)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = client.EvaluatePolicy(ctx, "org-1", "agent-1", "search", 1)
		require.NoError(t, err)
	}
	_, err = client.ReportUsage(ctx, "org-1", "agent-1", "exec-1", 10, 1, 5)
	require.NoError(t, err)

	entries, err := client.GetAuditLog(ctx, "org-1", nil, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	last := entries[1]
	assert.Equal(t, "usage_report", last.Action)
	assert.Equal(t, "exec-1", last.ExecutionID)
	assert.Nil(t, last.ToolName)
	assert.Nil(t, last.Reason)
	assert.Nil(t, last.DelegatedUserID)
	assert.False(t, last.Timestamp.IsZero())

	entries, err = client.GetAuditLog(ctx, "org-1", agentplatform.String("agent-1"), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestHardDenialsMapToKinds(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	srv.Fail("EvaluatePolicy", agentplatformtest.PolicyDeniedError("agent quarantined"))
	_, err := client.EvaluatePolicy(ctx, "org-1", "agent-1", "search", 1)
	assert.ErrorIs(t, err, agentplatform.ErrPolicyDenied)

	srv.Fail("ReportUsage", agentplatformtest.BudgetExhaustedError("hard cap reached"))
	_, err = client.ReportUsage(ctx, "org-1", "agent-1", "exec-1", 1, 0, 0)
	assert.ErrorIs(t, err, agentplatform.ErrBudgetExhausted)

	srv.ClearFailures()
	srv.Fail("CheckBudget", status.Error(codes.ResourceExhausted, "server overloaded"))
	_, err = client.CheckBudget(ctx, "org-1", "agent-1", 1)
	assert.Equal(t, agentplatform.KindCall, agentplatform.KindOf(err))
}

func TestServerFailuresAreClassified(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	srv.Fail("ListOrganizations", status.Error(codes.Internal, "db down"))
	_, err := client.ListOrgs(ctx)
	var apErr *agentplatform.Error
	require.ErrorAs(t, err, &apErr)
	assert.Equal(t, agentplatform.KindCall, apErr.Kind)
	assert.Equal(t, "ListOrgs", apErr.Op)
	assert.Equal(t, codes.Internal, apErr.Code)
	assert.Equal(t, "db down", apErr.Message)

	srv.Fail("ListOrganizations", status.Error(codes.Unavailable, "draining"))
	_, err = client.ListOrgs(ctx)
	assert.ErrorIs(t, err, agentplatform.ErrConnection)
}

func TestEachOperationIsOneCall(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	srv.Fail("GetOrganization", status.Error(codes.Unavailable, "draining"))
	_, err := client.GetOrg(ctx, "org-1")
	require.Error(t, err)
	assert.Equal(t, 1, srv.Calls("GetOrganization"))

	_, err = client.CheckBudget(ctx, "org-1", "agent-1", 1)
	require.NoError(t, err)
	_, err = client.CheckBudget(ctx, "org-1", "agent-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Calls("CheckBudget"))
}

func TestConcurrentCallsShareOneClient(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	org, err := client.CreateOrg(ctx, "acme", nil)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := client.RegisterAgent(ctx, org.OrgID, fmt.Sprintf("bot-%d", i), agentplatform.RoleExecutor, nil); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	agents, err := client.ListAgents(ctx, org.OrgID)
	require.NoError(t, err)
	assert.Len(t, agents, workers)
}

func TestCanceledContext(t *testing.T) {
	client, _ := newClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListOrgs(ctx)
	require.Error(t, err)
	assert.Equal(t, agentplatform.KindCall, agentplatform.KindOf(err))
}

func TestConnectFailures(t *testing.T) {
	ctx := context.Background()

	_, err := agentplatform.Connect(ctx, "not an address")
	assert.ErrorIs(t, err, agentplatform.ErrConnection)

	_, err = agentplatform.Connect(ctx, "")
	assert.ErrorIs(t, err, agentplatform.ErrConnection)

	// Nothing listens on port 1
	_, err = agentplatform.Connect(ctx, "127.0.0.1:1", agentplatform.WithConnectTimeout(2*time.Second))
	assert.ErrorIs(t, err, agentplatform.ErrConnection)

	_, err = agentplatform.Connect(ctx, "localhost:50051", agentplatform.WithSignedTokens([]byte("not a key"), agentplatform.TokenConfig{Issuer: "cli", Subject: "me"}))
	assert.ErrorIs(t, err, agentplatform.ErrConnection)
}

func TestConnectToStoppedServer(t *testing.T) {
	srv := agentplatformtest.NewServer()
	srv.Close()

	_, err := agentplatform.Connect(context.Background(), srv.Address(),
		agentplatform.WithDialOptions(srv.DialOption()),
		agentplatform.WithConnectTimeout(2*time.Second))
	require.Error(t, err)
	assert.True(t, errors.Is(err, agentplatform.ErrConnection))
}
