package agentplatform

import (
	"context"

	"google.golang.org/grpc/codes"

	v1 "github.com/xela07ax/agentplatform-go/pkg/api/controlplane/v1"
)

// CreateOrg creates an organization. metadata may be nil.
func (c *Client) CreateOrg(ctx context.Context, name string, metadata map[string]any) (*Org, error) {
	const op = "CreateOrg"

	md, err := structOf(metadata)
	if err != nil {
		return nil, c.fail(op, &Error{Kind: KindCall, Op: op, Code: codes.InvalidArgument, Message: err.Error(), Err: err})
	}

	resp, err := c.rpc.CreateOrganization(ctx, &v1.CreateOrgRequest{Name: name, Metadata: md})
	if err != nil {
		return nil, c.fail(op, err)
	}
	return orgFromProto(resp), nil
}

func (c *Client) GetOrg(ctx context.Context, orgID string) (*Org, error) {
	resp, err := c.rpc.GetOrganization(ctx, &v1.GetOrgRequest{OrgId: orgID})
	if err != nil {
		return nil, c.fail("GetOrg", err)
	}
	return orgFromProto(resp), nil
}

func (c *Client) ListOrgs(ctx context.Context) ([]Org, error) {
	resp, err := c.rpc.ListOrganizations(ctx, &v1.ListOrgsRequest{})
	if err != nil {
		return nil, c.fail("ListOrgs", err)
	}

	orgs := make([]Org, 0, len(resp.Organizations))
	for _, o := range resp.Organizations {
		orgs = append(orgs, *orgFromProto(o))
	}
	return orgs, nil
}

// DeleteOrg reports the server's success flag. Deleting an unknown
// organization yields (false, nil) unless the server answers NOT_FOUND, in
// which case the error kind is NotFound.
func (c *Client) DeleteOrg(ctx context.Context, orgID string) (bool, error) {
	resp, err := c.rpc.DeleteOrganization(ctx, &v1.DeleteOrgRequest{OrgId: orgID})
	if err != nil {
		return false, c.fail("DeleteOrg", err)
	}
	return resp.Success, nil
}
