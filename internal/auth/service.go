package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/selim/opphub/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrUnauthorized = errors.New("unauthorized")

	validate = validator.New()
)

// LoginRequest carries the credentials a login form submits.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignupRequest carries a registration form submission.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Country  string `json:"country" validate:"max=80"`
}

// ProfileUpdate carries the editable profile fields. Pointers distinguish
// "leave unchanged" from "set empty".
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=80"`
}

func (r LoginRequest) Validate() error  { return validate.Struct(r) }
func (r SignupRequest) Validate() error { return validate.Struct(r) }
func (r ProfileUpdate) Validate() error { return validate.Struct(r) }

// AuthResponse is what the upstream auth backend returns on login/signup.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service is a client for the upstream auth backend. The gateway never
// stores credentials; it forwards them and relays the session token.
type Service struct {
	BaseURL string
	HTTP    *http.Client
}

func NewService(baseURL string, timeout time.Duration) *Service {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.post(ctx, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.post(ctx, "/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the account behind a session token.
func (s *Service) Profile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := s.do(ctx, http.MethodGet, "/auth/profile", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile edit and returns the updated account.
func (s *Service) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.do(ctx, http.MethodPatch, "/auth/profile", token, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) post(ctx context.Context, path, token string, body, out any) error {
	return s.do(ctx, http.MethodPost, path, token, body, out)
}

func (s *Service) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case http.StatusUnauthorized:
		if path == "/auth/login" {
			return ErrInvalidCreds
		}
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrUserExists
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
