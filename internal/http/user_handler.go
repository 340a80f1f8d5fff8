package http

import (
	"context"
	"net/http"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/internal/service"
)

type Users interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type UserHandler struct {
	base
	users Users
}

func NewUserHandler(users Users, opts Options) *UserHandler {
	return &UserHandler{base: newBase(opts), users: users}
}

type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	user, err := h.users.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	session, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	authUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()

	user, err := h.users.Me(ctx, authUser.ID)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
