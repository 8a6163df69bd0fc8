package auth

import (
	"context"

	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/pkg/jwt"
	"github.com/renjith-irohub/petronix-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a user of any role and issues a session token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		UserType: string(u.Role),
	}, nil
}
