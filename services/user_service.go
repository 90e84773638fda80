package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tabelionato_app_go/models"

	"gorm.io/gorm"
)

var (
	// ErrSelfDelete is returned when a user tries to delete their own account
	ErrSelfDelete = errors.New("você não pode excluir sua própria conta")
	// ErrSetupDone is returned when the bootstrap flow runs after a user exists
	ErrSetupDone = errors.New("configuração inicial já realizada")
	// ErrUserNotFound is returned when the user does not exist
	ErrUserNotFound = errors.New("usuário não encontrado")
)

// UserFormMode selects the rule set of the user form
type UserFormMode int

const (
	// UserFormCreate requires a password
	UserFormCreate UserFormMode = iota
	// UserFormEdit accepts a blank password, meaning unchanged
	UserFormEdit
)

// UserInput is the submitted user form
type UserInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Role            string
	IsActive        bool
	Password        string
	PasswordConfirm string
}

// ParseUserForm reads the user form. The setup form has no role or active
// checkbox, so those are filled in by the caller.
func ParseUserForm(form url.Values) UserInput {
	return UserInput{
		Username:        strings.TrimSpace(form.Get("username")),
		Email:           strings.ToLower(strings.TrimSpace(form.Get("email"))),
		FirstName:       strings.TrimSpace(form.Get("first_name")),
		LastName:        strings.TrimSpace(form.Get("last_name")),
		Role:            strings.TrimSpace(form.Get("role")),
		IsActive:        isChecked(form.Get("is_active")),
		Password:        form.Get("password"),
		PasswordConfirm: form.Get("password_confirm"),
	}
}

// userRules is the rule set built once per form mode
type userRules struct {
	passwordRequired bool
}

func rulesFor(mode UserFormMode) userRules {
	return userRules{passwordRequired: mode == UserFormCreate}
}

// ValidateUserInput checks the form for the given mode. excludeID skips the
// edited user in the username uniqueness check.
func ValidateUserInput(db *gorm.DB, input UserInput, mode UserFormMode, excludeID string) (FieldErrors, error) {
	rules := rulesFor(mode)
	errs := FieldErrors{}

	if input.Username == "" {
		errs.Add("username", "Informe o nome de usuário.")
	} else if strings.ContainsAny(input.Username, " \t") {
		errs.Add("username", "O nome de usuário não pode conter espaços.")
	} else {
		query := db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", input.Username)
		if excludeID != "" {
			query = query.Where("id <> ?", excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if count > 0 {
			errs.Add("username", "Este nome de usuário já está em uso.")
		}
	}

	if input.Email != "" && !IsValidEmail(input.Email) {
		errs.Add("email", "Informe um e-mail válido.")
	}
	if !models.IsValidRole(input.Role) {
		errs.Add("role", "Selecione um perfil válido.")
	}

	if rules.passwordRequired || input.Password != "" || input.PasswordConfirm != "" {
		if err := ValidatePassword(input.Password, input.PasswordConfirm); err != nil {
			errs.Add("password", err.Error())
		}
	}

	if errs.Any() {
		return errs, nil
	}
	return nil, nil
}

// CreateUser validates and creates a user
func CreateUser(db *gorm.DB, input UserInput) (*models.User, FieldErrors, error) {
	errs, err := ValidateUserInput(db, input, UserFormCreate, "")
	if err != nil || errs.Any() {
		return nil, errs, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}
	user := &models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		IsActive:  true,
		Password:  hash,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		// a false IsActive is replaced by the column default on insert
		if !input.IsActive {
			user.IsActive = false
			return tx.Model(user).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil, nil
}

// UpdateUser validates and saves an edited user. A blank password keeps
// the current one; changing it or deactivating the user ends their sessions.
func UpdateUser(db *gorm.DB, id string, input UserInput) (*models.User, FieldErrors, error) {
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil, nil, err
	}

	errs, err := ValidateUserInput(db, input, UserFormEdit, user.ID)
	if err != nil || errs.Any() {
		return nil, errs, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Role = input.Role
	user.IsActive = input.IsActive

	passwordChanged := input.Password != ""
	if passwordChanged {
		hash, err := HashPassword(input.Password)
		if err != nil {
			return nil, nil, err
		}
		user.Password = hash
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if passwordChanged || !user.IsActive {
			return DeleteAllUserSessions(tx, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil, nil
}

// DeleteUser removes a user. Users cannot delete themselves.
func DeleteUser(db *gorm.DB, actor *models.User, id string) (*models.User, error) {
	if actor.ID == id {
		return nil, ErrSelfDelete
	}
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Protocolo{}).Where("responsavel_id = ?", id).Update("responsavel_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return user, nil
}

// GetUserByID fetches a single user
func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers returns all users ordered by username
func GetUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Order("username asc").Find(&users).Error
	return users, err
}

// GetActiveUsers returns the users that can be made responsible for a protocol
func GetActiveUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("is_active = ?", true).Order("first_name asc, username asc").Find(&users).Error
	return users, err
}

// HasUsers reports whether at least one account exists
func HasUsers(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetupMaster creates the first account, always as an active Master.
// It refuses once any user exists.
func SetupMaster(db *gorm.DB, input UserInput) (*models.User, FieldErrors, error) {
	exists, err := HasUsers(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check users: %w", err)
	}
	if exists {
		return nil, nil, ErrSetupDone
	}

	input.Role = models.RoleMaster
	input.IsActive = true
	return CreateUser(db, input)
}
