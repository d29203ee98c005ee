package auth

import "go-storefront/internal/session"

const RedirectCheckout = "checkout"

type IdentifyRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Phone string `json:"phone" binding:"required,min=8,max=15,numeric"`
}

type OTPRequest struct {
	Phone string `json:"phone" binding:"required,min=8,max=15,numeric"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=8,max=15,numeric"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// IdentifyResponse tells the client where to go next. Redirect is "checkout"
// when a parked add-to-cart was resumed.
type IdentifyResponse struct {
	User     UserResponse `json:"user"`
	Redirect string       `json:"redirect,omitempty"`
}

// authPayload is what the backend returns from its identification endpoints.
// Tokens in the body are only used when the backend did not set cookies.
type authPayload struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func toUser(u UserResponse) session.User {
	return session.User{ID: u.ID, Name: u.Name, Phone: u.Phone, Email: u.Email}
}

func fromUser(u session.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Phone: u.Phone, Email: u.Email}
}
