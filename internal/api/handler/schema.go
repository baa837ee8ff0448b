package handler

import (
	"time"

	"github.com/streck/storefront-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool                 `json:"success"`
	Token   string               `json:"token"`
	User    domain.AdminIdentity `json:"user"`
	Message string               `json:"message"`
}

type sessionUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          sessionUser `json:"user"`
	IssuedAt      time.Time   `json:"issuedAt"`
	ExpiresAt     time.Time   `json:"expiresAt"`
}

// --- Product types ---

type createProductTypeRequest struct {
	Name        string  `json:"name"        validate:"omitempty,max=255"`
	Slug        string  `json:"slug"        validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      string  `json:"status"      validate:"omitempty,oneof=active inactive"`
	SortOrder   *int    `json:"sortOrder"`
}

type productTypeResponse struct {
	Data domain.ProductType `json:"data"`
}

type productTypeListResponse struct {
	Data []domain.ProductType `json:"data"`
}

// --- Upload ---

type uploadResponse struct {
	Success bool                 `json:"success"`
	Files   []domain.HostedImage `json:"files"`
}
