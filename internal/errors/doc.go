// Package errors provides structured, actionable error messages for the
// parking dashboard.
//
// Every error carries a short code (e.g. "R002") that maps to a registered
// template:
//   - A category (routing, navigation, config, protocol, storage, assistant)
//   - A short message describing the error
//   - A detailed explanation
//
// Errors compare by code, so callers can match a whole class of failures:
//
//	if errors.Is(err, perrors.New(perrors.CodeDuplicatePath)) { ... }
//
// # Usage
//
//	err := perrors.New(perrors.CodeDuplicatePath).
//	    WithDetail(`path "/gate" is bound to both "gate" and "barrier"`).
//	    WithSuggestion("Give every route its own path")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Duplicate route path
//	//
//	//   path "/gate" is bound to both "gate" and "barrier"
//	//
//	//   Hint: Give every route its own path
package errors
