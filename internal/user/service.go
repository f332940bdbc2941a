package user

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	emailService "github.com/perci-aceron/expensetracker-backend/internal/email"
	"github.com/perci-aceron/expensetracker-backend/internal/finance/domain"
)

const bcryptCost = 10

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrEmailAlreadyExists = errors.New("provided email already exists")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrAlreadyVerified    = errors.New("verification has already been passed")
	ErrNoFieldsToUpdate   = errors.New("at least one field is required")
	ErrNoAvatar           = errors.New("no avatar to delete")
	ErrInternalError      = errors.New("internal server error")
)

type User struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Email             string                   `json:"email"`
	PasswordHash      string                   `json:"-"`
	AvatarURL         string                   `json:"avatarURL,omitempty"`
	Currency          string                   `json:"currency"`
	Verified          bool                     `json:"verified"`
	VerificationToken string                   `json:"-"`
	Token             string                   `json:"-"`
	SID               string                   `json:"-"`
	TransactionsTotal domain.TransactionsTotal `json:"transactionsTotal"`
	CreatedAt         time.Time                `json:"-"`
	UpdatedAt         time.Time                `json:"-"`
}

type Service interface {
	Register(name, email, password string) (*User, error)
	VerifyEmail(verificationToken string) error
	ResendVerificationEmail(email string) error
	GetUserByID(userID string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserBySID(sid string) (*User, error)
	SetAuthTokens(userID, token, sid string) error
	ClearToken(userID string) error
	UpdateInfo(userID string, name, currency *string) (*User, error)
	UpdateAvatar(userID, avatarURL string) error
	DeleteAvatar(userID string) error
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
	baseURL      string
}

func NewUserService(repo Repository, emailService emailService.EmailSender, baseURL string) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
		baseURL:      baseURL,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

// gravatarURL derives the default avatar from the email address, the same way
// the frontend-facing profile endpoints expect it.
func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "http://www.gravatar.com/avatar/" + hex.EncodeToString(hash[:])
}

func (s *service) Register(name, email, password string) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}

	_, err := s.repo.getUserByEmail(email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		fmt.Println("Error with database request: ", err)
		return nil, ErrInternalError
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		fmt.Println("Error during hashing the password")
		return nil, ErrInternalError
	}

	user := &User{
		ID:                uuid.NewString(),
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		AvatarURL:         gravatarURL(email),
		Currency:          "usd",
		VerificationToken: uuid.NewString(),
	}

	if err := s.repo.createUser(user); err != nil {
		fmt.Println("Error during creating the user: ", err)
		return nil, ErrInternalError
	}

	s.queueVerificationEmail(user)

	return user, nil
}

func (s *service) queueVerificationEmail(user *User) {
	s.emailService.QueueEmail(user.Email, emailService.VerifyEmailData{
		UserName:  user.Name,
		VerifyURL: s.baseURL + "/api/users/verify/" + user.VerificationToken,
	})
}

func (s *service) VerifyEmail(verificationToken string) error {
	user, err := s.repo.getUserByVerificationToken(verificationToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if err := s.repo.markVerified(user.ID); err != nil {
		fmt.Println("issue during updating verified account")
		return ErrInternalError
	}
	return nil
}

func (s *service) ResendVerificationEmail(email string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	s.queueVerificationEmail(user)
	return nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByEmail(email string) (*User, error) {
	return s.repo.getUserByEmail(email)
}

func (s *service) GetUserBySID(sid string) (*User, error) {
	return s.repo.getUserBySID(sid)
}

func (s *service) SetAuthTokens(userID, token, sid string) error {
	return s.repo.updateAuthTokens(userID, token, sid)
}

func (s *service) ClearToken(userID string) error {
	return s.repo.clearToken(userID)
}

func (s *service) UpdateInfo(userID string, name, currency *string) (*User, error) {
	if name == nil && currency == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if err := s.repo.updateInfo(userID, name, currency); err != nil {
		return nil, err
	}
	return s.repo.getUserByID(userID)
}

func (s *service) UpdateAvatar(userID, avatarURL string) error {
	return s.repo.updateAvatarURL(userID, &avatarURL)
}

func (s *service) DeleteAvatar(userID string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		return err
	}
	if user.AvatarURL == "" {
		return ErrNoAvatar
	}
	return s.repo.updateAvatarURL(userID, nil)
}
