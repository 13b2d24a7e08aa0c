package models

import "time"

// RegisterRequest is the POST /auth/register body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse returns the new account id and role alongside a session token
type RegisterResponse struct {
	User  RegisteredUser `json:"user"`
	Token string         `json:"token"`
}

// RegisteredUser is the minimal user info returned at registration
type RegisteredUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// LoginRequest is the POST /auth/login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token string `json:"token"`
}

// UpdateUserRequest is the PUT /user body. Image is optional.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// UpdateReservationsRequest is the PUT /lawyer body. ReservedDates replaces
// the stored list, it is not appended.
type UpdateReservationsRequest struct {
	IDLawyer      string      `json:"idLawyer"`
	ReservedDates []time.Time `json:"reservedDates"`
}

// CreateCommentRequest is the POST /artikel/{artikel_id} body
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CreateChatRequest is the POST /chat body
type CreateChatRequest struct {
	ReceiverID string `json:"receiverId"`
}

// CreateMessageRequest is the POST /chat/{chat_id} body
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// UploadImageResponse is returned after a profile image upload
type UploadImageResponse struct {
	Message string `json:"message"`
	Image   string `json:"image"`
	User    User   `json:"user"`
}
