package store

import (
	"database/sql"
	"errors"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	query := `SELECT id, username, email, password, role, food_partner, full_name, sr_code, created_at
	          FROM users WHERE username = ?`
	row := s.DB.QueryRow(query, username)

	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role,
		&user.FoodPartner, &user.FullName, &user.SRCode, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT id, username, email, password, role, food_partner, full_name, sr_code, created_at
	          FROM users WHERE id = ?`
	row := s.DB.QueryRow(query, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role,
		&user.FoodPartner, &user.FullName, &user.SRCode, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new account. Password must already be hashed.
func (s *Store) CreateUser(user *models.User) error {
	query := `INSERT INTO users (username, email, password, role, food_partner, full_name, sr_code, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`
	res, err := s.DB.Exec(query, user.Username, user.Email, user.Password, user.Role,
		user.FoodPartner, user.FullName, user.SRCode)
	if err != nil {
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (s *Store) UsernameExists(username string) (bool, error) {
	var exists int
	err := s.DB.QueryRow(`SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) EmailExists(email string) (bool, error) {
	var exists int
	err := s.DB.QueryRow(`SELECT 1 FROM users WHERE email = ?`, email).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
