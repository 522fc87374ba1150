/*
Package auth implements the two credential schemes of the comment wall.

# Admin secret

Admin routes carry the operator's shared secret as a bearer credential:

	guard := auth.NewAdminGuard(cfg.AdminPassword)
	err := guard.Authorize(r.Header.Get("Authorization"))

Authorize fails with a ServerMisconfigured error when no secret is configured,
Unauthenticated when the header is absent or not a bearer credential, and
Forbidden when the credential differs from the secret. The comparison runs in
constant time over BLAKE2b digests of both values.

# Edit tokens

Every comment gets a random capability token when it is created:

	token, err := auth.MintEditToken(32) // 256 bits, URL-safe base64

The token is the only thing that authorizes editing or deleting that comment.
The HTTP layer only extracts it (ParseBearer) into the request context; the
comment service compares it against the stored token with TokensEqual after
loading the comment.
*/
package auth
