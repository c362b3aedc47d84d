package engagement

import (
	"context"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/models"
)

// CreateUserRequest carries a new profile. Counters always start at zero.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
}

// CreateUser stores a profile. A taken username or email is AlreadyExists.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Bio:      req.Bio,
	}
	user.Prepare()
	if msgs := user.Validate(); len(msgs) > 0 {
		err := firstValidationError(msgs)
		s.observe("create_user", "created", err)
		return nil, err
	}

	_, err := user.SaveUser(s.db.WithContext(ctx))
	err = apperrors.Classify("create_user", err)
	if apperrors.IsErrorType(err, apperrors.ErrorTypeAlreadyExists) {
		err = apperrors.NewAlreadyExists("user", "username or email already taken")
	}
	s.observe("create_user", "created", err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
