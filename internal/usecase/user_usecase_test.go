package usecase_test

import (
	"context"
	"testing"

	"github.com/iho/finboard/internal/domain"
	"github.com/iho/finboard/internal/usecase"
	"github.com/iho/finboard/internal/usecase/mocks"
)

func newUserUseCase(demoPin string) (*usecase.UserUseCase, *mocks.MockUserRepository) {
	userRepo := mocks.NewMockUserRepository()
	uc := usecase.NewUserUseCase(userRepo, mocks.NewMockIDGenerator(), &mocks.MockTokenIssuer{}, demoPin)
	return uc, userRepo
}

func register(t *testing.T, uc *usecase.UserUseCase) *domain.User {
	t.Helper()
	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "alex@example.com",
		Name:     "Alex",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestUserUseCase_RegisterAndAuthenticate(t *testing.T) {
	uc, _ := newUserUseCase("")
	user := register(t, uc)

	if user.HashedPassword != "" {
		t.Error("register must not return the password hash")
	}

	got, token, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "alex@example.com",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user = %q, want %q", got.ID, user.ID)
	}
	if token == "" {
		t.Error("expected a session token")
	}

	if _, _, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "alex@example.com",
		Password: "wrong-password",
	}); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for bad password, got %v", err)
	}

	if _, _, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "nobody@example.com",
		Password: "Sup3rSecret",
	}); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestUserUseCase_Register_DuplicateEmail(t *testing.T) {
	uc, _ := newUserUseCase("")
	register(t, uc)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "alex@example.com",
		Name:     "Other",
		Password: "An0therSecret",
	})
	if err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestUserUseCase_VerifyPin(t *testing.T) {
	tests := []struct {
		name      string
		demoPin   string
		setPin    string
		submitPin string
		wantErr   error
	}{
		{
			name:      "configured pin matches",
			setPin:    "482915",
			submitPin: "482915",
		},
		{
			name:      "configured pin mismatch",
			setPin:    "482915",
			submitPin: "000000",
			wantErr:   domain.ErrPinMismatch,
		},
		{
			name:      "unset pin matches nothing",
			submitPin: "123456",
			wantErr:   domain.ErrPinNotSet,
		},
		{
			name:      "unset pin accepts demo fallback",
			demoPin:   "123456",
			submitPin: "123456",
		},
		{
			name:      "unset pin rejects non-demo value",
			demoPin:   "123456",
			submitPin: "654321",
			wantErr:   domain.ErrPinMismatch,
		},
		{
			name:      "configured pin overrides demo fallback",
			demoPin:   "123456",
			setPin:    "482915",
			submitPin: "123456",
			wantErr:   domain.ErrPinMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUserUseCase(tt.demoPin)
			user := register(t, uc)

			if tt.setPin != "" {
				if err := uc.SetPin(context.Background(), user.ID, tt.setPin); err != nil {
					t.Fatalf("set pin: %v", err)
				}
			}

			err := uc.VerifyPin(context.Background(), user.ID, tt.submitPin)
			if err != tt.wantErr {
				t.Errorf("VerifyPin = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserUseCase_SetPin_Invalid(t *testing.T) {
	uc, _ := newUserUseCase("")
	user := register(t, uc)

	for _, pin := range []string{"12345", "1234567", "12a456", ""} {
		if err := uc.SetPin(context.Background(), user.ID, pin); err == nil {
			t.Errorf("SetPin(%q) accepted an invalid pin", pin)
		}
	}
}

func TestUserUseCase_GetUser_StripsSecrets(t *testing.T) {
	uc, _ := newUserUseCase("")
	user := register(t, uc)
	if err := uc.SetPin(context.Background(), user.ID, "482915"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	got, err := uc.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.HashedPassword != "" || got.PinHash != "" {
		t.Error("GetUser must strip password and pin hashes")
	}
}
