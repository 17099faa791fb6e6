package dto

import "github.com/BitmanAlan/xiaohongshu/internal/model"

type SignUpRequest struct {
	Email    string `json:"email" binding:"max=254"`
	Password string `json:"password" binding:"max=128"`
	Name     string `json:"name" binding:"max=64"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"max=254"`
	Password string `json:"password" binding:"max=128"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SignUpResponse struct {
	User UserResponse `json:"user"`
}

type SignInResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}
