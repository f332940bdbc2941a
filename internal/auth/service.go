package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/perci-aceron/expensetracker-backend/internal/user"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInternalError      = errors.New("internal server error")
)

type Service interface {
	Login(email, password string) (*user.User, string, string, string, error)
	Logout(userID string) error
	RefreshTokens(sid string) (*user.User, string, string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

// Login verifies credentials and opens a new session. It returns the user, an
// access token, a refresh token and the session id the refresh token is bound
// to.
func (s *service) Login(email, password string) (*user.User, string, string, string, error) {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", "", ErrInvalidCredentials
		}
		fmt.Println("error when getting user from database: ", err)
		return nil, "", "", "", ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, "", "", "", ErrInvalidCredentials
	}

	sid := uuid.NewString()
	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		fmt.Println("error during JWT generation")
		return nil, "", "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, sid)
	if err != nil {
		fmt.Println("error during refresh token generation")
		return nil, "", "", "", ErrInternalError
	}

	if err := s.userService.SetAuthTokens(existingUser.ID, jwtToken, sid); err != nil {
		fmt.Println("error when storing session tokens: ", err)
		return nil, "", "", "", ErrInternalError
	}
	existingUser.Token = jwtToken
	existingUser.SID = sid

	return existingUser, jwtToken, refreshToken, sid, nil
}

// Logout drops the stored access token so the middleware rejects it from now
// on. The session id stays so an active refresh token can still open a new
// session.
func (s *service) Logout(userID string) error {
	if err := s.userService.ClearToken(userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}
	return nil
}

// RefreshTokens rotates the access token for the session identified by sid.
func (s *service) RefreshTokens(sid string) (*user.User, string, string, error) {
	existingUser, err := s.userService.GetUserBySID(sid)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrSessionNotFound
		}
		return nil, "", "", ErrInternalError
	}

	newSID := uuid.NewString()
	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		return nil, "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, newSID)
	if err != nil {
		return nil, "", "", ErrInternalError
	}

	if err := s.userService.SetAuthTokens(existingUser.ID, jwtToken, newSID); err != nil {
		return nil, "", "", ErrInternalError
	}
	existingUser.Token = jwtToken
	existingUser.SID = newSID

	return existingUser, jwtToken, refreshToken, nil
}
