package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-arena/internal/combat"
)

// MemoryRepository is a map-backed Repository. It is the default wiring
// for standalone runs and the collaborator used by tests; production
// deployments substitute a database-backed implementation.
type MemoryRepository struct {
	mu         sync.Mutex
	companions map[string]*Companion
	gear       map[string][]combat.Item
	positions  map[string]Position
	coins      map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		companions: map[string]*Companion{},
		gear:       map[string][]combat.Item{},
		positions:  map[string]Position{},
		coins:      map[string]int{},
	}
}

func (r *MemoryRepository) Companion(_ context.Context, id string) (*Companion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.companions[id]
	if !ok {
		return nil, fmt.Errorf("companion %s: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) ActiveCompanion(_ context.Context, ownerID string) (*Companion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.companions {
		if c.OwnerID == ownerID && c.Active {
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("active companion for %s: %w", ownerID, ErrNotFound)
}

func (r *MemoryRepository) CreateCompanion(_ context.Context, c *Companion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, exists := r.companions[c.ID]; exists {
		return fmt.Errorf("companion %s already exists", c.ID)
	}
	cp := *c
	r.companions[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) SaveCompanion(_ context.Context, c *Companion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.companions[c.ID]; !ok {
		return fmt.Errorf("companion %s: %w", c.ID, ErrNotFound)
	}
	cp := *c
	r.companions[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) EquippedGear(_ context.Context, ownerID string) ([]combat.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]combat.Item{}, r.gear[ownerID]...), nil
}

func (r *MemoryRepository) GrantItem(_ context.Context, ownerID string, item combat.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gear[ownerID] = append(r.gear[ownerID], item)
	return nil
}

func (r *MemoryRepository) Position(_ context.Context, playerID string) (*Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.positions[playerID]
	if !ok {
		return nil, fmt.Errorf("position for %s: %w", playerID, ErrNotFound)
	}
	return &pos, nil
}

func (r *MemoryRepository) SavePosition(_ context.Context, playerID string, pos Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[playerID] = pos
	return nil
}

func (r *MemoryRepository) AddCoins(_ context.Context, playerID string, coins int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coins[playerID] += coins
	return nil
}

// Coins returns a player's balance. Test helper.
func (r *MemoryRepository) Coins(playerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coins[playerID]
}
