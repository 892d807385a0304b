package db

import (
	"blinkscore-server/src/models"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, super_admin, locked, last_login, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.Locked,
		&user.LastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(id int, pool *pgxpool.Pool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(pool.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func GetUserByUsername(username string, pool *pgxpool.Pool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(pool.QueryRow(context.Background(), query, username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return user, nil
}

func GetUserByEmail(email string, pool *pgxpool.Pool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(pool.QueryRow(context.Background(), query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return user, nil
}

func CreateUser(req models.RegisterRequest, hashedPassword string, pool *pgxpool.Pool) (*models.RegisterResponse, error) {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var userID int

	err := pool.QueryRow(
		context.Background(),
		query,
		req.FirstName,
		req.LastName,
		req.Username,
		req.Email,
		hashedPassword,
	).Scan(&userID)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := models.RegisterResponse{
		ID:       userID,
		Email:    req.Email,
		Username: req.Username,
	}

	return &resp, nil
}

func UpdateUserLastLogin(pool *pgxpool.Pool, userID int) error {
	_, err := pool.Exec(context.Background(), `UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	return err
}

func UpdateUserProfile(ctx context.Context, pool *pgxpool.Pool, userID int64, email, firstName, lastName string) error {
	_, err := pool.Exec(ctx,
		`UPDATE users SET email = $1, first_name = $2, last_name = $3 WHERE id = $4`,
		email, firstName, lastName, userID)
	return err
}

func UpdateUserPassword(ctx context.Context, pool *pgxpool.Pool, userID int64, passwordHash string) error {
	_, err := pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	return err
}

func DeleteUser(userID int, pool *pgxpool.Pool) error {
	query := `
		DELETE FROM users
		WHERE id = $1;
	`
	_, err := pool.Exec(
		context.Background(),
		query,
		userID,
	)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
