// Package auth provides authentication and authorization for the application.
//
// # Access control model
//
// A user's effective permission set is the union of:
//   - direct permission grants on the user
//   - permissions of active policies attached directly to the user
//   - direct permission grants on every active group the user belongs to
//   - permissions of active policies attached to those groups
//
// Inactive groups and policies are excluded at read time, so deactivating
// one takes effect on the very next authorization check. The set is
// recomputed per check and never cached across requests.
//
// # Permission derivation
//
// Permission strings have the shape "<app>.<action>_<resource>". For routed
// resources the required permission is derived from the HTTP method
// (GET→view, POST→add, PUT/PATCH→change, DELETE→delete) and a static
// resource registry mapping resource kinds to their app labels. Handlers can
// override the derivation per action or per method, or opt out entirely.
//
// # Sessions
//
// Sessions are stateless JWT pairs (access + refresh) signed with HS256.
// Issued tokens are opportunistically tracked in the key-value store by the
// token package; the bearer middleware enforces the tracked-set liveness
// rule on every request.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/api/products",
//	    auth.RequireModelPermission(authService, auth.ResourceProduct, nil),
//	    handler,
//	)
package auth
