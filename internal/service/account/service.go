// Package account manages buyer registration and lookup.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/romankud/kinotix/internal/domain"
	"github.com/romankud/kinotix/internal/repository"
)

type Service struct {
	store repository.AccountStore
}

func New(store repository.AccountStore) *Service {
	return &Service{store: store}
}

// Register creates a buyer with the default starting balance.
//
// Returns:
//   - account.ErrInvalidEmail for a malformed address.
//   - account.ErrEmailTaken when the email is already registered.
func (s *Service) Register(ctx context.Context, email string) (*domain.User, error) {
	const op = "service.account.Register"

	email = strings.TrimSpace(strings.ToLower(email))
	if !validEmail(email) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidEmail)
	}

	u, err := s.store.CreateUser(ctx, email, domain.DefaultBalance)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}

// Get fetches a buyer by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	const op = "service.account.Get"

	u, err := s.store.User(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}

// validEmail applies a deliberately loose shape check; real validation
// happens when mail is actually delivered.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	if strings.IndexByte(domainPart, '@') >= 0 {
		return false
	}

	dot := strings.LastIndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
