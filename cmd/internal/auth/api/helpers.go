package authapi

import "agrigate/cmd/identity"

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		IsAdmin:           u.IsAdmin,
		PreferredLanguage: u.PreferredLanguage,
	}
}
