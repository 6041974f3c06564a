package store

import (
	"database/sql"
	"errors"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

// AddCartItem adds quantity of a menu item to the owner's cart. If a line
// for that menu item already exists, the quantity is incremented rather
// than a second line created. The menu item must exist and be available.
func (s *Store) AddCartItem(ownerKey string, menuItemID int64, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var available bool
	err := s.DB.QueryRow(`SELECT available FROM menu_items WHERE id = ?`, menuItemID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !available) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO cart_items (owner_key, menu_item_id, quantity, added_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (owner_key, menu_item_id)
		DO UPDATE SET quantity = quantity + excluded.quantity
	`
	if _, err := s.DB.Exec(query, ownerKey, menuItemID, quantity); err != nil {
		return nil, err
	}

	var lineID int64
	err = s.DB.QueryRow(`SELECT id FROM cart_items WHERE owner_key = ? AND menu_item_id = ?`, ownerKey, menuItemID).Scan(&lineID)
	if err != nil {
		return nil, err
	}
	return s.GetCartLine(lineID)
}

// UpdateCartItemQuantity sets the quantity of a cart line. Quantity below
// 1 is rejected; callers wanting zero should remove the line instead.
func (s *Store) UpdateCartItemQuantity(lineID int64, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	res, err := s.DB.Exec(`UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, lineID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrCartItemNotFound
	}
	return s.GetCartLine(lineID)
}

// RemoveCartItem deletes a cart line. Removing a line that does not exist
// is a no-op, so duplicate clicks from the UI are harmless.
func (s *Store) RemoveCartItem(lineID int64) error {
	_, err := s.DB.Exec(`DELETE FROM cart_items WHERE id = ?`, lineID)
	return err
}

// GetCart returns the owner's cart lines in insertion order with
// subtotals computed from the live menu price.
func (s *Store) GetCart(ownerKey string) ([]models.CartLine, error) {
	query := `
		SELECT c.id, c.menu_item_id, m.name, m.price, c.quantity, m.image_url, m.category
		FROM cart_items c
		JOIN menu_items m ON c.menu_item_id = m.id
		WHERE c.owner_key = ?
		ORDER BY c.id
	`
	rows, err := s.DB.Query(query, ownerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ID, &l.MenuItemID, &l.Name, &l.Price, &l.Quantity, &l.ImageURL, &l.Category); err != nil {
			return nil, err
		}
		l.Subtotal = l.Price * float64(l.Quantity)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *Store) GetCartLine(lineID int64) (*models.CartLine, error) {
	query := `
		SELECT c.id, c.menu_item_id, m.name, m.price, c.quantity, m.image_url, m.category
		FROM cart_items c
		JOIN menu_items m ON c.menu_item_id = m.id
		WHERE c.id = ?
	`
	var l models.CartLine
	err := s.DB.QueryRow(query, lineID).Scan(&l.ID, &l.MenuItemID, &l.Name, &l.Price, &l.Quantity, &l.ImageURL, &l.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	l.Subtotal = l.Price * float64(l.Quantity)
	return &l, nil
}

// CartTotals returns the owner's cart total and item count in one pass.
func (s *Store) CartTotals(ownerKey string) (total float64, count int, err error) {
	query := `
		SELECT COALESCE(SUM(m.price * c.quantity), 0), COALESCE(SUM(c.quantity), 0)
		FROM cart_items c
		JOIN menu_items m ON c.menu_item_id = m.id
		WHERE c.owner_key = ?
	`
	err = s.DB.QueryRow(query, ownerKey).Scan(&total, &count)
	return total, count, err
}
