package handler

import "github.com/motiva-app/messaging-api/internal/core/domain"

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive pending"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type listUsersResponse struct {
	Users []domain.User `json:"users"`
	Count int           `json:"count"`
}
