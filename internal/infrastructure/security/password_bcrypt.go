package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/MattHalloran/NLN-sub003/internal/domain/service"
)

// bcryptPasswordService implements service.PasswordService with bcrypt, the
// hash format the storefront's existing customer rows carry.
type bcryptPasswordService struct {
	cost int
}

// NewBcryptPasswordService creates a PasswordService with the given cost.
// Zero or out-of-range costs fall back to the bcrypt default.
func NewBcryptPasswordService(cost int) service.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptPasswordService{cost: cost}
}

func (s *bcryptPasswordService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns (false, nil) on a clean mismatch. A malformed hash or other
// internal failure returns a non-nil error; callers treat it as a mismatch.
func (s *bcryptPasswordService) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("password comparison failed: %w", err)
}

var _ service.PasswordService = (*bcryptPasswordService)(nil)
