package postgres

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

// Store hands out a fresh repository and unit of work per request.
type Store struct {
	db          DBTX
	runner      TxRunner
	dispatcher  shared.EventDispatcher
	deadLetters DeadLetterSink
	logger      *logrus.Logger
	opts        []entity.Option
}

func NewStore(db DBTX, runner TxRunner, dispatcher shared.EventDispatcher, deadLetters DeadLetterSink, logger *logrus.Logger, opts ...entity.Option) *Store {
	return &Store{db: db, runner: runner, dispatcher: dispatcher, deadLetters: deadLetters, logger: logger, opts: opts}
}

func (s *Store) Open() repository.UserRepository {
	uow := NewUnitOfWork(s.runner, s.dispatcher, s.deadLetters, s.logger)
	return NewUserRepository(s.db, uow, s.opts...)
}

var _ repository.UserRepositoryFactory = (*Store)(nil)
