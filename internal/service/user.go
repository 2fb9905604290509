package service

import (
	"errors"
	"time"

	"bitwise74/vehicle-api/internal/model"
	"bitwise74/vehicle-api/pkg/security"
	"bitwise74/vehicle-api/pkg/validators"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Users owns identity, credentials and issued bearer tokens.
type Users struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	TokenTTL time.Duration
}

// UserPatch carries optional profile changes. Nil fields stay untouched.
type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Users) Create(email, password, name string) (*model.User, error) {
	if err := validators.EmailValidator(email); err != nil {
		return nil, &ValidationError{err}
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, &ValidationError{err}
	}

	if name == "" {
		return nil, &ValidationError{validators.ErrNameEmpty}
	}

	var found bool

	err := s.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found).
		Error
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &ValidationError{ErrEmailTaken}
	}

	hash, err := s.Argon.GenerateFromPassword(password)
	if err != nil {
		return nil, err
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}

	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate checks the credentials and returns the matching user. The
// error is the same for unknown emails and wrong passwords.
func (s *Users) Authenticate(email, password string) (*model.User, error) {
	var user model.User

	err := s.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := s.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// IssueToken mints a fresh opaque token for the user, replacing any
// previously issued one. The old token stops working at once.
func (s *Users) IssueToken(userID string) (string, error) {
	token, err := security.GenerateToken(32)
	if err != nil {
		return "", err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.AuthToken{}).Error; err != nil {
			return err
		}

		return tx.Create(&model.AuthToken{
			UserID:    userID,
			Token:     token,
			ExpiresAt: time.Now().Add(s.TokenTTL),
		}).Error
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResolveToken maps a presented bearer token to its owning user. Unknown
// and expired tokens both come back as ErrInvalidCredentials.
func (s *Users) ResolveToken(token string) (*model.User, error) {
	var auth model.AuthToken

	err := s.DB.Where("token = ?", token).First(&auth).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if time.Now().After(auth.ExpiresAt) {
		return nil, ErrInvalidCredentials
	}

	var user model.User

	err = s.DB.Where("id = ?", auth.UserID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	return &user, nil
}

func (s *Users) Get(userID string) (*model.User, error) {
	var user model.User

	err := s.DB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

// Update applies the present patch fields to the acting user's own record.
func (s *Users) Update(userID string, patch UserPatch) (*model.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		if err := validators.EmailValidator(*patch.Email); err != nil {
			return nil, &ValidationError{err}
		}

		var found bool

		err := s.DB.Model(model.User{}).
			Select("count(*) > 0").
			Where("email = ? AND id <> ?", *patch.Email, userID).
			Find(&found).
			Error
		if err != nil {
			return nil, err
		}

		if found {
			return nil, &ValidationError{ErrEmailTaken}
		}

		user.Email = *patch.Email
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, &ValidationError{validators.ErrNameEmpty}
		}

		user.Name = *patch.Name
	}

	if patch.Password != nil {
		if err := validators.PasswordValidator(*patch.Password); err != nil {
			return nil, &ValidationError{err}
		}

		hash, err := s.Argon.GenerateFromPassword(*patch.Password)
		if err != nil {
			return nil, err
		}

		user.PasswordHash = hash
	}

	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}
