package transfer

import "github.com/golang-jwt/jwt/v5"

// AuthClaims mirrors the claims Supabase Auth puts in its access tokens.
type AuthClaims struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}
