package service

import (
	"time"

	"github.com/arcadia-chat/arcadia/config"
	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/database/model"

	"github.com/xlzd/gotp"
	"gorm.io/gorm"
)

// totpStepSeconds is the TOTP time step; codes from the previous step are
// also accepted to absorb clock drift.
const totpStepSeconds = 30

// TwoFactorService manages the TOTP secret lifecycle:
// disabled -> secret generated (pending) -> enabled -> disabled.
type TwoFactorService struct {
	authService AuthService
}

// GenerateSecret creates a fresh shared secret for the user, persists it
// (overwriting any pending secret) and returns the otpauth provisioning URI.
// The secret is stored before the account is enabled; enabling requires a
// valid code via TurnOn.
func (s *TwoFactorService) GenerateSecret(userId int) (string, error) {
	user, err := s.authService.GetMe(userId)
	if err != nil {
		return "", err
	}

	secret := gotp.RandomSecret(32)

	db := database.GetDB()
	err = db.Model(model.User{}).
		Where("id = ?", user.Id).
		Update("two_factor_secret", secret).
		Error
	if err != nil {
		return "", err
	}

	return gotp.NewDefaultTOTP(secret).ProvisioningUri(user.Email, config.GetTwoFactorIssuer()), nil
}

// ValidateCode checks a submitted code against the user's stored secret,
// accepting the current and the previous time step.
func (s *TwoFactorService) ValidateCode(user *model.User, code string) bool {
	if user.TwoFactorSecret == "" || code == "" {
		return false
	}
	totp := gotp.NewDefaultTOTP(user.TwoFactorSecret)
	now := time.Now().Unix()
	return totp.Verify(code, now) || totp.Verify(code, now-totpStepSeconds)
}

// TurnOn enables two-factor for the user after validating the submitted
// code against the pending secret. Returns the updated user.
func (s *TwoFactorService) TurnOn(userId int, code string) (*model.User, error) {
	db := database.GetDB()

	var user *model.User
	err := db.Transaction(func(tx *gorm.DB) error {
		user = &model.User{}
		if err := tx.Where("id = ?", userId).First(user).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrUnauthorized
			}
			return err
		}
		if !s.ValidateCode(user, code) {
			return ErrUnauthorized
		}
		user.TwoFactorEnabled = true
		return tx.Model(model.User{}).
			Where("id = ?", user.Id).
			Update("two_factor_enabled", true).
			Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// TurnOff disables two-factor after validating the code. The stored secret
// is cleared so a stale code can never re-enter the full-access path.
func (s *TwoFactorService) TurnOff(userId int, code string) (*model.User, error) {
	db := database.GetDB()

	var user *model.User
	err := db.Transaction(func(tx *gorm.DB) error {
		user = &model.User{}
		if err := tx.Where("id = ?", userId).First(user).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrUnauthorized
			}
			return err
		}
		if !s.ValidateCode(user, code) {
			return ErrUnauthorized
		}
		user.TwoFactorEnabled = false
		user.TwoFactorSecret = ""
		return tx.Model(model.User{}).
			Where("id = ?", user.Id).
			Updates(map[string]any{
				"two_factor_enabled": false,
				"two_factor_secret":  "",
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates the second login step for a user holding a partial
// session. No state is mutated; the caller reissues a full token on success.
func (s *TwoFactorService) Authenticate(userId int, code string) (*model.User, error) {
	user, err := s.authService.GetMe(userId)
	if err != nil {
		return nil, err
	}
	if !s.ValidateCode(user, code) {
		return nil, ErrUnauthorized
	}
	return user, nil
}
