package authservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/pkg/auth"
	"go.uber.org/zap"
)

// Admin accounts are provisioned out-of-band; the reserved name can
// never be claimed through public registration.
const reservedUsername = "admin"

const tokenTTL = 30 * 24 * time.Hour

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUsernameReserved   = errors.New("username is reserved")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	ListPlayers(ctx context.Context) ([]domain.User, error)
}

type Service struct {
	userRepo    Repo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		userRepo:    repo,
		hashService: hashService,
		jwtService:  jwtService,
	}
}

func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.EqualFold(username, reservedUsername) {
		zap.L().Info("attempt to register reserved username", zap.String("username", username))
		return nil, ErrUsernameReserved
	}

	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("username", username))
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("username", username))
	return newUser, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		zap.L().Info("invalid credentials", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		zap.L().Info("invalid credentials", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("username", username))
	return user, nil
}

func (s *Service) GenerateToken(userID int, role string) (string, error) {
	expirationTime := time.Now().Add(tokenTTL)

	token, err := s.jwtService.GenerateJWT(userID, role, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}

func (s *Service) GetUser(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't get user: ", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *Service) ListPlayers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListPlayers(ctx)
	if err != nil {
		zap.L().Error("can't list users: ", zap.Error(err))
		return nil, err
	}
	return users, nil
}
