package auth

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	UserID  uint
	Email   string
	TokenID string
	Claims  *Claims
}

// ActorFromClaims builds an Actor from validated access token claims.
func ActorFromClaims(claims *Claims) Actor {
	return Actor{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
		Claims:  claims,
	}
}
