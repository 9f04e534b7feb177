// Package cart implements the customer cart as an explicit object with
// injected persistence, replacing the hidden module-level store the web
// client used. Callers construct a Cart with a Storage and pass it around.
package cart

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// StorageKey is the fixed name the cart persists under
const StorageKey = "cart-storage"

// Storage is the injected persistence backend for the cart
type Storage interface {
	// Load returns the stored bytes for a key; (nil, nil) when absent
	Load(key string) ([]byte, error)
	// Save writes the bytes for a key
	Save(key string, data []byte) error
}

// Item is one cart line keyed by menu item id
type Item struct {
	MenuItemID  string  `json:"menu_item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Quantity    int     `json:"quantity"`
}

// Cart holds the quantity map for a single customer session
type Cart struct {
	mu      sync.Mutex
	storage Storage
	items   []Item
}

// New creates a cart backed by the given storage, loading any persisted state
func New(storage Storage) (*Cart, error) {
	c := &Cart{storage: storage}
	if storage == nil {
		return c, nil
	}
	data, err := storage.Load(StorageKey)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.items); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddItem adds one unit of the given menu item, creating the line on first add
func (c *Cart) AddItem(item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].MenuItemID == item.MenuItemID {
			c.items[i].Quantity++
			return c.persist()
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
	return c.persist()
}

// RemoveItem drops the line for the given menu item id
func (c *Cart) RemoveItem(menuItemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, item := range c.items {
		if item.MenuItemID != menuItemID {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return c.persist()
}

// UpdateQuantity sets the quantity for a line; zero or negative removes it
func (c *Cart) UpdateQuantity(menuItemID string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(menuItemID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].MenuItemID == menuItemID {
			c.items[i].Quantity = quantity
			break
		}
	}
	return c.persist()
}

// Clear empties the cart
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return c.persist()
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums price × quantity over all lines
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums quantities over all lines
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// ItemQuantity returns the quantity for a menu item id, 0 when absent
func (c *Cart) ItemQuantity(menuItemID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.MenuItemID == menuItemID {
			return item.Quantity
		}
	}
	return 0
}

// persist writes the current lines through the storage; callers hold the lock
func (c *Cart) persist() error {
	if c.storage == nil {
		return nil
	}
	data, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return c.storage.Save(StorageKey, data)
}

// FileStorage persists cart state as JSON files inside a directory
type FileStorage struct {
	Dir string
}

// NewFileStorage creates the directory if needed and returns a FileStorage
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{Dir: dir}, nil
}

// Load implements Storage
func (s *FileStorage) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, key+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save implements Storage
func (s *FileStorage) Save(key string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, key+".json"), data, 0o644)
}
