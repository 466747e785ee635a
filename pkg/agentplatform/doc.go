// Package agentplatform is a typed client for the agent platform control
// plane: organizations, agents, tool policies, token budgets, usage and the
// audit log.
//
// Each Client method performs exactly one remote call. Optional identifiers
// are *string values; on the wire they travel as the empty string.
//
// Decisions and errors are kept apart. EvaluatePolicy and CheckBudget
// report a refusal as Allowed == false with a nil error. An error is
// returned only when the call itself fails, and it is always an *Error
// whose Kind is one of ConnectionError, CallError, NotFound, PolicyDenied
// or BudgetExhausted:
//
//	decision, err := client.EvaluatePolicy(ctx, orgID, agentID, "search", 100)
//	switch {
//	case errors.Is(err, agentplatform.ErrConnection):
//		// control plane unreachable
//	case err != nil:
//		// other call failure
//	case !decision.Allowed:
//		// refuse the tool call, decision.Reason says why
//	}
//
// A Client is safe for concurrent use by multiple goroutines.
package agentplatform
