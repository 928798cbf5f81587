package auth

// SignUpUser is the public part of a newly created account
type SignUpUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SignUpResponse struct {
	User SignUpUser `json:"user"`
}

type SignInResponse struct {
	AccessToken string `json:"access_token"`
}

type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SignUpResult is either a created user or a pending confirmation
type SignUpResult struct {
	User    *SignUpUser
	Pending bool
}
