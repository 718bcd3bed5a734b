package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/finboard/internal/domain"
)

// TokenIssuer issues signed session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// UserUseCase handles registration, authentication and the action PIN
// that gates destructive operations.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
	tokens   TokenIssuer
	demoPin  string
}

// NewUserUseCase creates a new UserUseCase. demoPin, when non-empty,
// is accepted for users that never configured a PIN; production
// deployments leave it empty so an unset PIN matches nothing.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, tokens TokenIssuer, demoPin string) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
		tokens:   tokens,
		demoPin:  demoPin,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a new user with a hashed password.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashed, err := hashSecret(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// AuthenticateInput represents authentication input.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies credentials and returns the user plus a signed
// session token.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", domain.ErrUnauthorized
	}

	if err := verifySecret(user.HashedPassword, input.Password); err != nil {
		return nil, "", domain.ErrUnauthorized
	}

	token, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	user.HashedPassword = ""
	return user, token, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	user.PinHash = ""
	return user, nil
}

// SetPin configures or replaces the user's six-digit action PIN.
func (uc *UserUseCase) SetPin(ctx context.Context, userID, pin string) error {
	if err := domain.ValidatePin(pin); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hashed, err := hashSecret(pin)
	if err != nil {
		return err
	}

	user.PinHash = hashed
	user.UpdatedAt = time.Now().UTC()

	return uc.userRepo.Update(ctx, user)
}

// VerifyPin checks a submitted PIN against the user's configured PIN.
// An unset PIN matches nothing unless a demo PIN is configured, in
// which case only that exact value is accepted. A wrong PIN returns
// ErrPinMismatch; an unset PIN with no demo fallback returns
// ErrPinNotSet.
func (uc *UserUseCase) VerifyPin(ctx context.Context, userID, pin string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.PinSet() {
		if uc.demoPin == "" {
			return domain.ErrPinNotSet
		}
		if pin != uc.demoPin {
			return domain.ErrPinMismatch
		}
		return nil
	}

	if err := verifySecret(user.PinHash, pin); err != nil {
		return domain.ErrPinMismatch
	}
	return nil
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifySecret(hashed, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
}
