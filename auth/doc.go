// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and ID generation utilities.

# Tokens

Tokens are HS256-signed JWTs carrying the user ID and role:

	token, err := auth.GenerateToken(auth.Identity{ID: id, Role: role}, secret, time.Hour, time.Now())
	identity, err := auth.ParseToken(token, secret)

ParseToken rejects tokens with a bad signature, a non-HMAC algorithm, or an
expiry in the past. All such failures return ErrInvalidToken so callers can
answer 401 without leaking the reason.

The role claim is informational. Authorization decisions re-read the role
from the user store, since a role can change after a token is issued.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(plain)
	err := auth.CheckPassword(hash, plain)  // ErrInvalidPassword on mismatch

# ID Generation

Random UUIDs for database records:

	id, err := auth.GenerateID()
*/
package auth
