package service

import (
	"github.com/avolkov/luckygrid/internal/pg"
	"github.com/avolkov/luckygrid/internal/repo"
	"github.com/avolkov/luckygrid/internal/service/authservice"
	"github.com/avolkov/luckygrid/internal/service/chatservice"
	"github.com/avolkov/luckygrid/internal/service/ledgerservice"
	pkgauth "github.com/avolkov/luckygrid/pkg/auth"
)

type Services struct {
	AuthService   *authservice.Service
	LedgerService *ledgerservice.Service
	ChatService   *chatservice.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, publisher chatservice.Publisher, jwtService pkgauth.JWTServiceInterface) *Services {
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, jwtService)
	ledgerService := ledgerservice.New(repo.LedgerRepo, txManager)
	chatService := chatservice.New(repo.ChatRepo, repo.UserRepo, publisher)

	return &Services{
		AuthService:   authService,
		LedgerService: ledgerService,
		ChatService:   chatService,
	}
}
