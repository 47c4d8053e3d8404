package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/auth"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type fakeUserRepo struct {
	users       map[string]*domain.User
	nextID      int64
	lastTouched int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(user *domain.User) (*domain.User, error) {
	if _, exists := f.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	stored := *user
	stored.ID = f.nextID
	stored.Role = domain.RoleCustomer
	stored.Active = true
	f.nextID++
	f.users[stored.Email] = &stored
	return &stored, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByID(id int64) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(id int64, update domain.ProfileUpdate) error {
	if _, err := f.GetByID(id); err != nil {
		return err
	}
	return nil
}

func (f *fakeUserRepo) TouchLastAccess(id int64) error {
	f.lastTouched = id
	return nil
}

func registerRequest() *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Name:     "Ana López",
		Email:    "Ana@Example.com",
		Password: "secreto123",
		Phone:    "3815550000",
	}
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := auth.NewManager("test-secret")
	uc := NewUserUseCase(repo, tokens, testLogger())

	result, err := uc.Register(registerRequest())
	require.NoError(t, err)
	require.NotNil(t, result.User)

	// Email is normalized to lowercase before storage.
	stored, err := repo.GetByEmail("ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, domain.RoleCustomer, claims.Role)

	assert.Equal(t, domain.DefaultCity, stored.City)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(), auth.NewManager("test-secret"), testLogger())

	request := registerRequest()
	request.Password = "corta"

	result, err := uc.Register(request)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, domain.IsBusinessError(err))
}

func TestRegister_RejectsInvalidEmail(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(), auth.NewManager("test-secret"), testLogger())

	request := registerRequest()
	request.Email = "sin-arroba"

	_, err := uc.Register(request)
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUseCase(repo, auth.NewManager("test-secret"), testLogger())

	_, err := uc.Register(registerRequest())
	require.NoError(t, err)

	_, err = uc.Register(registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := auth.NewManager("test-secret")
	uc := NewUserUseCase(repo, tokens, testLogger())

	_, err := uc.Register(registerRequest())
	require.NoError(t, err)

	result, err := uc.Login("ANA@example.com", "secreto123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ana@example.com", result.User.Email)
	assert.Equal(t, result.User.ID, repo.lastTouched)
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(), auth.NewManager("test-secret"), testLogger())

	result, err := uc.Login("nadie@example.com", "loquesea")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUseCase(repo, auth.NewManager("test-secret"), testLogger())

	_, err := uc.Register(registerRequest())
	require.NoError(t, err)

	result, err := uc.Login("ana@example.com", "equivocada")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, result)
	assert.Zero(t, repo.lastTouched)
}

func TestGetProfile_InvalidID(t *testing.T) {
	uc := NewUserUseCase(newFakeUserRepo(), auth.NewManager("test-secret"), testLogger())

	_, err := uc.GetProfile(0)
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))
}
