package service

import "testing"

func TestRegisterRejectsTakenIdentity(t *testing.T) {
	authService := AuthService{}

	user := newUser(t)

	if _, err := authService.Register(user.Username, "other@example.com", "pw"); err != ErrForbidden {
		t.Errorf("duplicate username: err = %v, want ErrForbidden", err)
	}
	if _, err := authService.Register("someoneelse", user.Email, "pw"); err != ErrForbidden {
		t.Errorf("duplicate email: err = %v, want ErrForbidden", err)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	authService := AuthService{}

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@example.com", "pw"},
		{"empty email", "a", "", "pw"},
		{"empty password", "a", "a@example.com", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := authService.Register(tc.username, tc.email, tc.password); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCheckUser(t *testing.T) {
	authService := AuthService{}

	user := newUser(t)

	if got := authService.CheckUser(user.Username, "secret123"); got == nil || got.Id != user.Id {
		t.Error("valid credentials should return the user")
	}
	if got := authService.CheckUser(user.Username, "wrong"); got != nil {
		t.Error("wrong password should return nil")
	}
	if got := authService.CheckUser("nobody", "secret123"); got != nil {
		t.Error("unknown username should return nil")
	}
}

func TestCheckUserNeverReturnsPlaintext(t *testing.T) {
	authService := AuthService{}

	user := newUser(t)
	got := authService.CheckUser(user.Username, "secret123")
	if got == nil {
		t.Fatal("login failed")
	}
	if got.Password == "secret123" {
		t.Error("stored password must be hashed")
	}
}

func TestGetMe(t *testing.T) {
	authService := AuthService{}

	user := newUser(t)
	got, err := authService.GetMe(user.Id)
	if err != nil {
		t.Fatal("get me failed:", err)
	}
	if got.Username != user.Username {
		t.Errorf("username = %q, want %q", got.Username, user.Username)
	}

	if _, err := authService.GetMe(999999); err != ErrUnauthorized {
		t.Errorf("unknown id: err = %v, want ErrUnauthorized", err)
	}
}
