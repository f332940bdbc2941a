package user

import (
	"database/sql"
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(user *User) error
	getUserByID(id string) (*User, error)
	getUserByEmail(email string) (*User, error)
	getUserByVerificationToken(token string) (*User, error)
	getUserBySID(sid string) (*User, error)
	markVerified(userID string) error
	updateAuthTokens(userID, token, sid string) error
	clearToken(userID string) error
	updateInfo(userID string, name, currency *string) error
	updateAvatarURL(userID string, avatarURL *string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, name, email, password_hash, avatar_url, currency, verified, verification_token, token, sid, total_incomes, total_expenses, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var avatarURL, verificationToken, token, sid sql.NullString
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &avatarURL, &user.Currency,
		&user.Verified, &verificationToken, &token, &sid,
		&user.TransactionsTotal.Incomes, &user.TransactionsTotal.Expenses,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	user.AvatarURL = avatarURL.String
	user.VerificationToken = verificationToken.String
	user.Token = token.String
	user.SID = sid.String
	return &user, nil
}

func (r *userRepository) createUser(user *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, avatar_url, verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, user.PasswordHash, user.AvatarURL, user.VerificationToken)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}
	return nil
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) getUserByVerificationToken(token string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token))
}

func (r *userRepository) getUserBySID(sid string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE sid = $1`, sid))
}

func (r *userRepository) markVerified(userID string) error {
	_, err := r.db.Exec(`UPDATE users SET verified = TRUE, verification_token = NULL, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("could not update email verification status: %v", err)
	}
	return nil
}

func (r *userRepository) updateAuthTokens(userID, token, sid string) error {
	_, err := r.db.Exec(`UPDATE users SET token = $1, sid = $2, updated_at = NOW() WHERE id = $3`, token, sid, userID)
	if err != nil {
		return fmt.Errorf("could not update auth tokens: %v", err)
	}
	return nil
}

func (r *userRepository) clearToken(userID string) error {
	_, err := r.db.Exec(`UPDATE users SET token = NULL, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("could not clear token: %v", err)
	}
	return nil
}

func (r *userRepository) updateInfo(userID string, name, currency *string) error {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
		    currency = COALESCE($2, currency),
		    updated_at = NOW()
		WHERE id = $3
	`
	res, err := r.db.Exec(query, name, currency, userID)
	if err != nil {
		return fmt.Errorf("could not update user info: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) updateAvatarURL(userID string, avatarURL *string) error {
	_, err := r.db.Exec(`UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("could not update avatar: %v", err)
	}
	return nil
}
