package service

import (
	"strings"

	"github.com/arcadia-chat/arcadia/database"
	"github.com/arcadia-chat/arcadia/database/model"
	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/util/common"
	"github.com/arcadia-chat/arcadia/util/crypto"

	"gorm.io/gorm"
)

// AuthService handles account registration and credential verification.
type AuthService struct{}

// Register creates a new account with a hashed password and an empty stats
// row. Username and email must be unused.
func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return nil, common.NewError("username, email and password are required")
	}

	db := database.GetDB()

	var count int64
	err := db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrForbidden
	}

	hashed, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Name:     username,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&model.PlayerStats{UserId: user.Id}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckUser verifies a username/password pair and returns the matching user,
// or nil when the credentials are wrong. Two-factor state is not checked
// here; the caller decides whether the resulting session is partial.
func (s *AuthService) CheckUser(username string, password string) *model.User {
	db := database.GetDB()

	user := &model.User{}

	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil
	}

	return user
}

// GetMe loads the account behind a validated session.
func (s *AuthService) GetMe(userId int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", userId).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrUnauthorized
	} else if err != nil {
		return nil, err
	}
	return user, nil
}
