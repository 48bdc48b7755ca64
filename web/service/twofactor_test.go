package service

import (
	"strings"
	"testing"

	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/database/model"

	"github.com/xlzd/gotp"
)

func currentCode(t *testing.T, userId int) (string, string) {
	t.Helper()
	db := database.GetDB()
	user := &model.User{}
	if err := db.Where("id = ?", userId).First(user).Error; err != nil {
		t.Fatal("load user failed:", err)
	}
	if user.TwoFactorSecret == "" {
		t.Fatal("no pending secret")
	}
	return gotp.NewDefaultTOTP(user.TwoFactorSecret).Now(), user.TwoFactorSecret
}

func TestGenerateSecretReturnsProvisioningUri(t *testing.T) {
	twoFactorService := TwoFactorService{}
	user := newUser(t)

	uri, err := twoFactorService.GenerateSecret(user.Id)
	if err != nil {
		t.Fatal("generate failed:", err)
	}
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Errorf("uri = %q, want otpauth://totp/ prefix", uri)
	}
	if !strings.Contains(uri, user.Email) {
		t.Error("uri should carry the account email")
	}

	// the pending secret is persisted but the account stays disabled
	code, _ := currentCode(t, user.Id)
	if code == "" {
		t.Fatal("no code")
	}
	loaded := &model.User{}
	if err := database.GetDB().Where("id = ?", user.Id).First(loaded).Error; err != nil {
		t.Fatal(err)
	}
	if loaded.TwoFactorEnabled {
		t.Error("generating a secret must not enable two-factor")
	}
}

func TestGenerateSecretOverwritesPending(t *testing.T) {
	twoFactorService := TwoFactorService{}
	user := newUser(t)

	if _, err := twoFactorService.GenerateSecret(user.Id); err != nil {
		t.Fatal(err)
	}
	_, firstSecret := currentCode(t, user.Id)

	if _, err := twoFactorService.GenerateSecret(user.Id); err != nil {
		t.Fatal(err)
	}
	_, secondSecret := currentCode(t, user.Id)

	if firstSecret == secondSecret {
		t.Error("regenerating should replace the pending secret")
	}
}

func TestTurnOnRequiresValidCode(t *testing.T) {
	twoFactorService := TwoFactorService{}
	user := newUser(t)

	if _, err := twoFactorService.GenerateSecret(user.Id); err != nil {
		t.Fatal(err)
	}

	if _, err := twoFactorService.TurnOn(user.Id, "000000"); err != ErrUnauthorized {
		t.Errorf("bad code: err = %v, want ErrUnauthorized", err)
	}

	code, _ := currentCode(t, user.Id)
	enabled, err := twoFactorService.TurnOn(user.Id, code)
	if err != nil {
		t.Fatal("turn on failed:", err)
	}
	if !enabled.TwoFactorEnabled {
		t.Error("account should be enabled")
	}
}

func TestTurnOffClearsSecret(t *testing.T) {
	twoFactorService := TwoFactorService{}
	user := newUser(t)

	if _, err := twoFactorService.GenerateSecret(user.Id); err != nil {
		t.Fatal(err)
	}
	code, _ := currentCode(t, user.Id)
	if _, err := twoFactorService.TurnOn(user.Id, code); err != nil {
		t.Fatal("turn on failed:", err)
	}

	code, _ = currentCode(t, user.Id)
	disabled, err := twoFactorService.TurnOff(user.Id, code)
	if err != nil {
		t.Fatal("turn off failed:", err)
	}
	if disabled.TwoFactorEnabled {
		t.Error("account should be disabled")
	}

	loaded := &model.User{}
	if err := database.GetDB().Where("id = ?", user.Id).First(loaded).Error; err != nil {
		t.Fatal(err)
	}
	if loaded.TwoFactorSecret != "" {
		t.Error("disabling must clear the stored secret")
	}
}

func TestAuthenticateDoesNotMutate(t *testing.T) {
	twoFactorService := TwoFactorService{}
	user := newUser(t)

	if _, err := twoFactorService.GenerateSecret(user.Id); err != nil {
		t.Fatal(err)
	}
	code, secret := currentCode(t, user.Id)
	if _, err := twoFactorService.TurnOn(user.Id, code); err != nil {
		t.Fatal("turn on failed:", err)
	}

	code = gotp.NewDefaultTOTP(secret).Now()
	if _, err := twoFactorService.Authenticate(user.Id, code); err != nil {
		t.Fatal("authenticate failed:", err)
	}
	if _, err := twoFactorService.Authenticate(user.Id, "999999"); err != ErrUnauthorized {
		t.Errorf("bad code: err = %v, want ErrUnauthorized", err)
	}

	loaded := &model.User{}
	if err := database.GetDB().Where("id = ?", user.Id).First(loaded).Error; err != nil {
		t.Fatal(err)
	}
	if !loaded.TwoFactorEnabled || loaded.TwoFactorSecret != secret {
		t.Error("authenticate must not change two-factor state")
	}
}

func TestValidateCodeEmptyInputs(t *testing.T) {
	twoFactorService := TwoFactorService{}

	secret := gotp.RandomSecret(32)
	user := &model.User{TwoFactorSecret: secret}

	if twoFactorService.ValidateCode(user, "") {
		t.Error("empty code must fail")
	}
	if twoFactorService.ValidateCode(&model.User{}, gotp.NewDefaultTOTP(secret).Now()) {
		t.Error("missing secret must fail")
	}
	if !twoFactorService.ValidateCode(user, gotp.NewDefaultTOTP(secret).Now()) {
		t.Error("current code must pass")
	}
}
