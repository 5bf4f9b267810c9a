package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
	"workculture-backend/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	repos  *repository.Repositories
	tx     repository.TxRunner
	tokens security.TokenManager
}

func NewAuthService(repos *repository.Repositories, tx repository.TxRunner, tokens security.TokenManager) AuthService {
	return &authService{repos: repos, tx: tx, tokens: tokens}
}

func (s *authService) SignupEmployee(ctx context.Context, name, email, password string, orgID int32, departmentID *int32) (*domain.User, *domain.RegistrationRequest, error) {
	if _, err := s.repos.Orgs.GetByID(ctx, orgID); err != nil {
		return nil, nil, fmt.Errorf("organization %d: %w", orgID, err)
	}
	employee := &domain.EmployeeData{OrgID: orgID, DepartmentID: departmentID}
	return s.signup(ctx, name, email, password, domain.RoleEmployee, domain.AccountTypeEmployee, employee)
}

func (s *authService) SignupIndividual(ctx context.Context, name, email, password string) (*domain.User, *domain.RegistrationRequest, error) {
	return s.signup(ctx, name, email, password, domain.RoleIndividual, domain.AccountTypeIndividual, nil)
}

// signup creates the user and its registration request in one transaction.
// Accounts stay inactive until an admin approves the request.
func (s *authService) signup(ctx context.Context, name, email, password string, role domain.Role, accountType domain.AccountType, employee *domain.EmployeeData) (*domain.User, *domain.RegistrationRequest, error) {
	if existing, err := s.repos.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, &domain.ValidationError{Field: "email", Reason: "already registered"}
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:         email,
		PasswordHash:  string(hash),
		Name:          name,
		Role:          role,
		AccountStatus: domain.AccountStatusInactive,
		Employee:      employee,
		CreatedOn:     time.Now(),
	}
	req := &domain.RegistrationRequest{
		AccountType: accountType,
		Reference:   uuid.NewString(),
		Status:      domain.RequestStatusPending,
		RequestedOn: time.Now(),
	}

	err = s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		req.UserID = user.ID
		if err := r.RegistrationRequests.Create(ctx, req); err != nil {
			return fmt.Errorf("create registration request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, req, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, errors.New("invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}
	if user.AccountStatus != domain.AccountStatusActive && user.Role != domain.RoleSuperAdmin && user.Role != domain.RoleAdmin {
		return "", nil, errors.New("account is not active")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}
