package authapi

// Wire models. Field keys are camelCase to match the public API contract;
// the stored password hash has no representation here at all.

type registerRequest struct {
	Email             string `json:"email"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	PreferredLanguage string `json:"preferredLanguage"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfileRequest uses pointers so that "absent" and "set to empty"
// stay distinguishable. Only these four fields are allow-listed; anything
// else in the body is ignored.
type updateProfileRequest struct {
	Username          *string `json:"username"`
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	PreferredLanguage *string `json:"preferredLanguage"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// userResponse is the public projection of a User.
type userResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	IsAdmin           bool   `json:"isAdmin"`
	PreferredLanguage string `json:"preferredLanguage"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type verifyResponse struct {
	Valid bool         `json:"valid"`
	User  userResponse `json:"user"`
}

type updateProfileResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}
