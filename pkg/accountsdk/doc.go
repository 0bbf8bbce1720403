/*
Package accountsdk provides a typed client for the account service.

The package is organized around two types:

  - Client: unauthenticated operations (signup, login, health checks) and
    the entry point for creating authenticated Sessions
  - Session: authenticated operations bound to one account's bearer token

Create a Client to reach public endpoints and authenticate:

	client := accountsdk.NewClient("https://accounts.example.com")

	health, err := client.GetLiveness(ctx)

	session, err := client.Login(ctx, "alice@example.com", "password")

Use the Session for everything that needs the token:

	me, err := session.Me(ctx)

	updated, err := session.UpdateProfile(ctx, accountsdk.UpdateProfileRequest{
		FullName: "Alice Smith",
	})

Admin accounts can additionally manage other users:

	page, err := session.ListUsers(ctx, 1, 20)
	_, err = session.DeactivateUser(ctx, userID)

Tokens are stateless with a fixed lifetime and no refresh flow. When a
request fails with an expired token the caller logs in again; a stored token
can be rewrapped with Client.SessionFromToken.

Service errors are returned as *APIError carrying the HTTP status, the
service message and, for validation failures, the per-field errors.
*/
package accountsdk
