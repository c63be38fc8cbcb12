package repo

import (
	"github.com/avolkov/luckygrid/internal/pg"
	chatrepo "github.com/avolkov/luckygrid/internal/repo/chat-repo"
	ledgerrepo "github.com/avolkov/luckygrid/internal/repo/ledger-repo"
	userrepo "github.com/avolkov/luckygrid/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo   *userrepo.Repository
	LedgerRepo *ledgerrepo.Repository
	ChatRepo   *chatrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:   userrepo.New(conn),
		LedgerRepo: ledgerrepo.New(conn),
		ChatRepo:   chatrepo.New(conn),
	}
}
