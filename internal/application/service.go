package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// decoyPassword is hashed once at start-up so that logins for unknown
// emails pay the same key-derivation cost as logins for real ones.
const decoyPassword = "identity-decoy-credential"

// ServiceDeps lists what the Service is built from. Cache and Search are
// optional.
type ServiceDeps struct {
	Users    repository.UserRepositoryFactory
	Profiles repository.UserReadModel
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Cache    ProfileCache
	Search   UserSearch
	Logger   *logrus.Logger

	// UserOptions are applied to every user the service creates.
	UserOptions []entity.Option
}

// Service runs the identity use-cases. Each call opens its own repository
// and unit of work, so a Service is safe for concurrent use.
type Service struct {
	users     repository.UserRepositoryFactory
	profiles  repository.UserReadModel
	hasher    PasswordHasher
	tokens    TokenIssuer
	cache     ProfileCache
	search    UserSearch
	logger    *logrus.Logger
	userOpts  []entity.Option
	decoyHash string
}

func NewService(d ServiceDeps) (*Service, error) {
	if d.Users == nil || d.Hasher == nil || d.Tokens == nil {
		return nil, errors.New("application: users, hasher and tokens are required")
	}
	logger := d.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	decoy, err := d.Hasher.Hash(decoyPassword)
	if err != nil {
		return nil, err
	}
	return &Service{
		users:     d.Users,
		profiles:  d.Profiles,
		hasher:    d.Hasher,
		tokens:    d.Tokens,
		cache:     d.Cache,
		search:    d.Search,
		logger:    logger,
		userOpts:  d.UserOptions,
		decoyHash: decoy,
	}, nil
}

// commit saves and dispatches. Dispatch failures happen after the data is
// durable; they were dead-lettered by the unit of work and are only logged
// here.
func (s *Service) commit(ctx context.Context, repo repository.UserRepository, op string) error {
	_, err := repo.UnitOfWork().SaveAndDispatch(ctx)
	var de *repository.DispatchError
	if errors.As(err, &de) {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"op":     op,
			"failed": len(de.Failed),
		}).Warn("changes committed but some events were not delivered")
		return nil
	}
	return err
}

func (s *Service) issue(u *entity.User) (helpers.TokenPair, error) {
	pair, err := s.tokens.GenerateTokens(helpers.TokenSubject{
		UserID:   u.ID(),
		Email:    u.Email().String(),
		FullName: u.FullName(),
		Role:     u.Role().String(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID().String()).Error("generate tokens failed")
		return helpers.TokenPair{}, err
	}
	u.SetRefreshToken(pair.RefreshToken, pair.RefreshTokenExpiry)
	return pair, nil
}
