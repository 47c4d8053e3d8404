package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/auth"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo domain.UserRepository
	tokens   *auth.Manager
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, tokens *auth.Manager, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo: repo,
		tokens:   tokens,
		log:      logger,
	}
}

func (uc *userUseCase) Register(request *domain.RegisterRequest) (*domain.AuthResult, error) {
	request.Name = strings.TrimSpace(request.Name)
	request.Email = strings.ToLower(strings.TrimSpace(request.Email))

	if request.Name == "" || request.Email == "" || request.Password == "" {
		uc.log.Warn("Registration rejected: missing required fields")
		return nil, domain.NewValidationError("Nombre, email y contraseña son requeridos")
	}
	if len(request.Password) < 6 {
		return nil, domain.NewValidationError("La contraseña debe tener al menos 6 caracteres")
	}
	if !emailPattern.MatchString(request.Email) {
		uc.log.Warnf("Registration rejected: invalid email %q", request.Email)
		return nil, domain.NewValidationError("Email inválido")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Failed to hash password for %s: %v", request.Email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	city := request.City
	if city == "" {
		city = domain.DefaultCity
	}

	user, err := uc.userRepo.Create(&domain.User{
		Name:         request.Name,
		Email:        request.Email,
		PasswordHash: string(hash),
		Phone:        request.Phone,
		Address:      request.Address,
		City:         city,
	})
	if err != nil {
		uc.log.Warnf("Registration failed for %s: %v", request.Email, err)
		return nil, err
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		uc.log.Errorf("Failed to issue token for new user %d: %v", user.ID, err)
		return nil, err
	}

	uc.log.Infof("User registered: ID %d, email %s", user.ID, user.Email)
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (uc *userUseCase) Login(email, password string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email y contraseña son requeridos")
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Login failed: unknown email %s", email)
			return nil, domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Failed to retrieve user %s during login: %v", email, err)
		return nil, fmt.Errorf("could not retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Login failed: wrong password for %s", email)
			return nil, domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Failed to compare password hash for %s: %v", email, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	if err := uc.userRepo.TouchLastAccess(user.ID); err != nil {
		// Last-access is informational only.
		uc.log.Warnf("Failed to record last access for user %d: %v", user.ID, err)
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		uc.log.Errorf("Failed to issue token for user %d: %v", user.ID, err)
		return nil, err
	}

	uc.log.Infof("User %d logged in", user.ID)
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (uc *userUseCase) GetProfile(id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("Usuario inválido")
	}
	return uc.userRepo.GetByID(id)
}

func (uc *userUseCase) UpdateProfile(id int64, update domain.ProfileUpdate) error {
	if id <= 0 {
		return domain.NewValidationError("Usuario inválido")
	}
	return uc.userRepo.UpdateProfile(id, update)
}
