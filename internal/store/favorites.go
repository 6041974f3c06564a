package store

import (
	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

// AddFavorite marks a menu item as a favorite for the owner. Adding the
// same item twice is a no-op thanks to the unique constraint.
func (s *Store) AddFavorite(ownerKey string, menuItemID int64) error {
	if _, err := s.GetMenuItemByID(menuItemID); err != nil {
		return err
	}
	_, err := s.DB.Exec(`
		INSERT INTO favorites (owner_key, menu_item_id, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (owner_key, menu_item_id) DO NOTHING`,
		ownerKey, menuItemID)
	return err
}

func (s *Store) RemoveFavorite(ownerKey string, menuItemID int64) error {
	_, err := s.DB.Exec(`DELETE FROM favorites WHERE owner_key = ? AND menu_item_id = ?`, ownerKey, menuItemID)
	return err
}

func (s *Store) GetFavorites(ownerKey string) ([]models.MenuItem, error) {
	query := `
		SELECT m.id, m.name, m.description, m.price, m.image_url, m.category, m.food_partner, m.available, m.created_at
		FROM favorites f
		JOIN menu_items m ON f.menu_item_id = m.id
		WHERE f.owner_key = ?
		ORDER BY f.created_at DESC, f.id DESC
	`
	return s.queryMenuItems(query, ownerKey)
}

// GetFavoriteIDs returns just the favorited menu item IDs, for cheap
// membership checks on the menu grid.
func (s *Store) GetFavoriteIDs(ownerKey string) ([]int64, error) {
	rows, err := s.DB.Query(`SELECT menu_item_id FROM favorites WHERE owner_key = ? ORDER BY id`, ownerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
