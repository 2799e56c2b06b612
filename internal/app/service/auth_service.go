package service

import (
	"context"
	"errors"

	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService proxies login and registration to the commerce backend.
// Token issuance is backend-owned; the storefront only validates the
// resulting JWTs (shared secret) in its middleware.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*commerce.TokenPair, error)
	Register(ctx context.Context, req commerce.RegisterRequest) (*commerce.TokenPair, error)
}

type authService struct {
	client *commerce.Client
}

func NewAuthService(client *commerce.Client) AuthService {
	return &authService{client: client}
}

func (s *authService) Login(ctx context.Context, email, password string) (*commerce.TokenPair, error) {
	tokens, err := s.client.Login(ctx, commerce.LoginRequest{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, commerce.ErrUnauthorized) || errors.Is(err, commerce.ErrInvalidRequest) {
			logger.Warn("Login rejected by backend", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login failed against backend", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("Shopper logged in", map[string]interface{}{
		"email": email,
	})
	return tokens, nil
}

func (s *authService) Register(ctx context.Context, req commerce.RegisterRequest) (*commerce.TokenPair, error) {
	tokens, err := s.client.Register(ctx, req)
	if err != nil {
		logger.Error("Registration failed against backend", err, map[string]interface{}{
			"email": req.Email,
		})
		return nil, err
	}

	logger.Info("Shopper registered", map[string]interface{}{
		"email": req.Email,
	})
	return tokens, nil
}
