// Package authz decides whether a caller's role may use a route.
package authz

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"food-share-api/models"
)

// RoleAny admits every authenticated caller.
const RoleAny = "any"

const routePolicy = `package foodshare.authz

default allow := false

allow if {
	input.role != ""
	input.required == "any"
}

allow if {
	input.role != ""
	input.role == input.required
}
`

// Authorizer evaluates the route policy with OPA Rego.
type Authorizer struct {
	query rego.PreparedEvalQuery
}

// NewAuthorizer compiles the route policy once.
func NewAuthorizer(ctx context.Context) (*Authorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{"route_policy.rego": routePolicy})
	if err != nil {
		return nil, fmt.Errorf("compile route policy: %w", err)
	}
	query, err := rego.New(
		rego.Query("data.foodshare.authz.allow"),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare route policy: %w", err)
	}
	return &Authorizer{query: query}, nil
}

// Allow reports whether role satisfies required. An empty role is an anonymous caller.
func (a *Authorizer) Allow(ctx context.Context, role models.UserRole, required string) (bool, error) {
	input := map[string]interface{}{
		"role":     string(role),
		"required": required,
	}
	rs, err := a.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("evaluate route policy: %w", err)
	}
	return rs.Allowed(), nil
}
