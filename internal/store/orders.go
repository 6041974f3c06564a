package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/models"
)

// NewOrder carries the checkout fields needed to create an order. The
// monetary total is never part of it; it is computed from the cart.
type NewOrder struct {
	OwnerKey      string
	CustomerName  string
	PaymentMethod string
	Tip           float64
	PickupDate    string
	PickupTime    string
	// ItemIDs is the checkout selection: cart line IDs chosen on the cart
	// screen. Empty means the whole cart.
	ItemIDs []int64
}

// CreateOrder atomically converts the selected cart lines into an order.
// Prices, names and subtotals are frozen at this moment; the selected
// lines are removed from the cart and unselected lines stay behind.
func (s *Store) CreateOrder(no NewOrder) (*models.Order, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lines, err := cartLinesTx(tx, no.OwnerKey)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	// Re-resolve the selection against the live cart so quantity or
	// price changes made after the cart screen are reflected.
	selected := lines
	if len(no.ItemIDs) > 0 {
		byID := make(map[int64]models.CartLine, len(lines))
		for _, l := range lines {
			byID[l.ID] = l
		}
		selected = selected[:0:0]
		for _, id := range no.ItemIDs {
			if l, ok := byID[id]; ok {
				selected = append(selected, l)
			}
		}
		if len(selected) == 0 {
			return nil, ErrCartEmpty
		}
	}

	var total float64
	for _, l := range selected {
		total += l.Subtotal
	}

	res, err := tx.Exec(`
		INSERT INTO orders (owner_key, customer_name, total_amount, tip_amount, payment_method, pickup_date, pickup_time, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		no.OwnerKey, no.CustomerName, total, no.Tip, no.PaymentMethod, no.PickupDate, no.PickupTime, models.StatusPending.String())
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for _, l := range selected {
		var partner string
		if err := tx.QueryRow(`SELECT food_partner FROM menu_items WHERE id = ?`, l.MenuItemID).Scan(&partner); err != nil {
			return nil, err
		}
		_, err = tx.Exec(`
			INSERT INTO order_items (order_id, menu_item_id, name, food_partner, quantity, price_at_purchase)
			VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, l.MenuItemID, l.Name, partner, l.Quantity, l.Price)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`DELETE FROM cart_items WHERE id = ?`, l.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrderByID(orderID)
}

// TransitionOrder moves an order to newStatus after checking the status
// machine. The check and the update happen in one transaction, so a
// transition that loses a race is rejected with the order untouched.
func (s *Store) TransitionOrder(orderID int64, newStatus models.OrderStatus, reason string) (*models.Order, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow(`SELECT status FROM orders WHERE id = ?`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	from, err := models.ParseStatus(current)
	if err != nil {
		return nil, err
	}
	if err := models.CheckTransition(from, newStatus); err != nil {
		return nil, err
	}

	if newStatus == models.StatusCancelled && strings.TrimSpace(reason) != "" {
		_, err = tx.Exec(`UPDATE orders SET status = ?, cancel_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			newStatus.String(), strings.TrimSpace(reason), orderID)
	} else {
		_, err = tx.Exec(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			newStatus.String(), orderID)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetOrderByID(orderID)
}

// OrderHasPartner reports whether the order contains at least one item
// from the partner, i.e. whether it appears in that partner's feed.
func (s *Store) OrderHasPartner(orderID int64, partner string) (bool, error) {
	var n int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = ? AND food_partner = ?`, orderID, partner).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// OrderBelongsTo reports whether the order is owned by ownerKey.
func (s *Store) OrderBelongsTo(orderID int64, ownerKey string) (bool, error) {
	var n int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders WHERE id = ? AND owner_key = ?`, orderID, ownerKey).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) GetOrderByID(orderID int64) (*models.Order, error) {
	query := `
		SELECT id, owner_key, customer_name, total_amount, tip_amount, payment_method,
		       pickup_date, pickup_time, status, cancel_reason, created_at
		FROM orders WHERE id = ?
	`
	row := s.DB.QueryRow(query, orderID)
	o, ownerKey, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.CustomerName = displayName(o.CustomerName, ownerKey)
	o.Items, err = s.orderItems(o.ID, "")
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrdersByOwner returns a customer's orders, newest first.
func (s *Store) GetOrdersByOwner(ownerKey string) ([]models.Order, error) {
	query := `
		SELECT id, owner_key, customer_name, total_amount, tip_amount, payment_method,
		       pickup_date, pickup_time, status, cancel_reason, created_at
		FROM orders WHERE owner_key = ? ORDER BY created_at DESC, id DESC
	`
	return s.queryOrders(query, "", ownerKey)
}

// GetAllOrders returns every order, newest first (admin projection).
func (s *Store) GetAllOrders() ([]models.Order, error) {
	query := `
		SELECT id, owner_key, customer_name, total_amount, tip_amount, payment_method,
		       pickup_date, pickup_time, status, cancel_reason, created_at
		FROM orders ORDER BY created_at DESC, id DESC
	`
	return s.queryOrders(query, "")
}

// GetPartnerOrders returns orders containing at least one item from the
// partner. Items are filtered to the partner's own, and the total is the
// partner-specific subtotal sum, tip excluded.
func (s *Store) GetPartnerOrders(partner string) ([]models.Order, error) {
	query := `
		SELECT DISTINCT o.id, o.owner_key, o.customer_name, o.total_amount, o.tip_amount, o.payment_method,
		       o.pickup_date, o.pickup_time, o.status, o.cancel_reason, o.created_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.food_partner = ?
		ORDER BY o.created_at DESC, o.id DESC
	`
	orders, err := s.queryOrders(query, partner, partner)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		var partnerTotal float64
		for _, it := range orders[i].Items {
			partnerTotal += it.Subtotal
		}
		orders[i].Total = partnerTotal
	}
	return orders, nil
}

func (s *Store) queryOrders(query, partnerFilter string, args ...any) ([]models.Order, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, ownerKey, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		o.CustomerName = displayName(o.CustomerName, ownerKey)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = s.orderItems(orders[i].ID, partnerFilter)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Store) orderItems(orderID int64, partnerFilter string) ([]models.OrderItem, error) {
	query := `SELECT name, food_partner, quantity, price_at_purchase FROM order_items WHERE order_id = ?`
	args := []any{orderID}
	if partnerFilter != "" {
		query += ` AND food_partner = ?`
		args = append(args, partnerFilter)
	}
	query += ` ORDER BY id`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.Name, &it.FoodPartner, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		it.Subtotal = it.Price * float64(it.Quantity)
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, string, error) {
	var o models.Order
	var ownerKey, status string
	err := row.Scan(&o.ID, &ownerKey, &o.CustomerName, &o.Total, &o.Tip, &o.PaymentMethod,
		&o.PickupDate, &o.PickupTime, &status, &o.CancelReason, &o.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	o.Status = models.OrderStatus(status)
	o.Total += o.Tip // surfaced total always includes the tip
	return &o, ownerKey, nil
}

func cartLinesTx(tx *sql.Tx, ownerKey string) ([]models.CartLine, error) {
	rows, err := tx.Query(`
		SELECT c.id, c.menu_item_id, m.name, m.price, c.quantity
		FROM cart_items c
		JOIN menu_items m ON c.menu_item_id = m.id
		WHERE c.owner_key = ?
		ORDER BY c.id`, ownerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ID, &l.MenuItemID, &l.Name, &l.Price, &l.Quantity); err != nil {
			return nil, err
		}
		l.Subtotal = l.Price * float64(l.Quantity)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// displayName falls back to a short anonymous label derived from the
// owner key when the customer left no name.
func displayName(name, ownerKey string) string {
	if name != "" {
		return name
	}
	key := ownerKey
	if i := strings.IndexByte(key, ':'); i >= 0 {
		key = key[i+1:]
	}
	if len(key) > 8 {
		key = key[:8]
	}
	return fmt.Sprintf("Customer #%s", key)
}
