// Package users holds the request and response bodies of the user
// provisioning endpoints.
package users

// CreateUserRequest is the create-user body.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type CreateUserResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

// DeleteUserRequest is the delete-user body.
type DeleteUserRequest struct {
	UserID string `json:"userId"`
}

type DeleteUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
