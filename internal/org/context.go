package org

import "context"

type orgContextKey struct{}

// ContextWithOrganization attaches the resolved organization to the context
// so handlers behind the authorization gate avoid a second lookup.
func ContextWithOrganization(ctx context.Context, o *Organization) context.Context {
	if o == nil {
		return ctx
	}
	return context.WithValue(ctx, orgContextKey{}, o)
}

// OrganizationFromContext extracts the organization resolved by the gate.
func OrganizationFromContext(ctx context.Context) (*Organization, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(orgContextKey{}).(*Organization)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
