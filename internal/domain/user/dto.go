package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID         string  `json:"id"`
	ClientID   *string `json:"client_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		ClientID:   u.ClientID,
		EmployeeID: u.EmployeeID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}
