package response_models

type TokenClaimsResponse struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Picture   *string `json:"picture,omitempty"`
	ExpiresAt int64   `json:"exp"`
}

type VerifyTokenResponse struct {
	Valid  bool                 `json:"valid"`
	User   *TokenClaimsResponse `json:"user,omitempty"`
	Reason string               `json:"reason,omitempty"`
}
