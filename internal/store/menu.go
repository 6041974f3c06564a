package store

import (
	"database/sql"
	"errors"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

func (s *Store) CreateMenuItem(item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (name, description, price, image_url, category, food_partner, available, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.Exec(query, item.Name, item.Description, item.Price, item.ImageURL, item.Category, item.FoodPartner, item.Available)
	if err != nil {
		return err
	}
	item.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetMenuItems() ([]models.MenuItem, error) {
	query := `SELECT id, name, description, price, image_url, category, food_partner, available, created_at
	          FROM menu_items ORDER BY created_at DESC, id DESC`
	return s.queryMenuItems(query)
}

func (s *Store) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	query := `SELECT id, name, description, price, image_url, category, food_partner, available, created_at
	          FROM menu_items WHERE id = ?`
	row := s.DB.QueryRow(query, id)

	var i models.MenuItem
	if err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.ImageURL, &i.Category, &i.FoodPartner, &i.Available, &i.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &i, nil
}

// GetPartners lists distinct food partners derived from available menu
// items, with an item count and a representative image per partner.
func (s *Store) GetPartners() ([]models.Partner, error) {
	query := `SELECT food_partner, COUNT(*), COALESCE(MIN(image_url), '')
	          FROM menu_items
	          WHERE available = 1 AND food_partner != ''
	          GROUP BY food_partner
	          ORDER BY food_partner`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []models.Partner
	for rows.Next() {
		var p models.Partner
		if err := rows.Scan(&p.Name, &p.ItemCount, &p.ImageURL); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (s *Store) GetPartnerMenuItems(partner string) ([]models.MenuItem, error) {
	query := `SELECT id, name, description, price, image_url, category, food_partner, available, created_at
	          FROM menu_items WHERE food_partner = ? ORDER BY created_at DESC, id DESC`
	return s.queryMenuItems(query, partner)
}

func (s *Store) queryMenuItems(query string, args ...any) ([]models.MenuItem, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var i models.MenuItem
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.ImageURL, &i.Category, &i.FoodPartner, &i.Available, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
