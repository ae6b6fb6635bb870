package merch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocator keeps positions unique inside a Class. Every position change on an
// existing row is conditional on its version column, so a row changed by
// another writer since it was read fails the whole transaction with
// ErrConflict. The insert in Place is not version-checked: writers on the same
// class are serialized by an in-process mutex only, so two processes placing
// into the same class at once can pick the same free slot.
type Allocator struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

type slot struct {
	ID       uuid.UUID
	Position int
	Version  int
}

func (a *Allocator) lock(c Class) func() {
	a.mu.Lock()
	m, ok := a.locks[c.Name]
	if !ok {
		m = &sync.Mutex{}
		a.locks[c.Name] = m
	}
	a.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func scoped(tx *gorm.DB, c Class) *gorm.DB {
	q := tx.Table(c.Table)
	if len(c.Scope) > 0 {
		q = q.Where(c.Scope)
	}
	return q
}

func (a *Allocator) load(tx *gorm.DB, c Class) ([]slot, error) {
	var slots []slot
	if err := scoped(tx, c).Select("id", "position", "version").Order("position ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("load %s positions: %w", c.Name, err)
	}
	return slots, nil
}

func (a *Allocator) setPosition(tx *gorm.DB, c Class, s slot, position int) error {
	res := tx.Table(c.Table).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]interface{}{"position": position, "version": s.Version + 1})
	if res.Error != nil {
		return fmt.Errorf("set %s position of %s: %w", c.Name, s.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func find(slots []slot, id uuid.UUID) (slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return slot{}, false
}

func holderOf(slots []slot, position int, except uuid.UUID) (slot, bool) {
	for _, s := range slots {
		if s.Position == position && s.ID != except {
			return s, true
		}
	}
	return slot{}, false
}

// Place picks a position for a new row and runs insert with it in the same
// transaction. requested == 0 auto-assigns. When the requested slot is held,
// the holder moves to the slot auto-assignment would have picked.
// Place does not enforce capacity; insert is the place to refuse a full class.
func (a *Allocator) Place(ctx context.Context, c Class, requested int, insert func(tx *gorm.DB, position int) error) (int, error) {
	if requested != 0 {
		if err := ValidatePosition(c, requested); err != nil {
			return 0, err
		}
	}

	unlock := a.lock(c)
	defer unlock()

	var position int
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots, err := a.load(tx, c)
		if err != nil {
			return err
		}

		occupied := make([]int, len(slots))
		for i, s := range slots {
			occupied[i] = s.Position
		}
		auto := NextPosition(occupied, c.Capacity)

		position = auto
		if requested != 0 && requested != auto {
			position = requested
			if holder, ok := holderOf(slots, requested, uuid.Nil); ok {
				if err := a.setPosition(tx, c, holder, auto); err != nil {
					return err
				}
			}
		}

		return insert(tx, position)
	})
	if err != nil {
		return 0, err
	}
	return position, nil
}

// Move applies edit and then moves the row to target, swapping with whichever
// row held target. Both happen in one transaction. target == 0 keeps the
// current position.
func (a *Allocator) Move(ctx context.Context, c Class, id uuid.UUID, target int, edit func(tx *gorm.DB) error) error {
	if target != 0 {
		if err := ValidatePosition(c, target); err != nil {
			return err
		}
	}

	unlock := a.lock(c)
	defer unlock()

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if edit != nil {
			if err := edit(tx); err != nil {
				return err
			}
		}

		slots, err := a.load(tx, c)
		if err != nil {
			return err
		}
		self, ok := find(slots, id)
		if !ok {
			return &NotFoundError{Kind: c.Name, ID: id.String()}
		}
		if target == 0 || self.Position == target {
			return nil
		}

		if holder, ok := holderOf(slots, target, id); ok {
			if err := a.setPosition(tx, c, holder, self.Position); err != nil {
				return err
			}
		}
		return a.setPosition(tx, c, self, target)
	})
}

// Reorder renumbers the class so ids[i] gets position i+1. ids must list every
// member of the class exactly once. Rows already in place are not rewritten,
// so repeating a reorder changes nothing.
func (a *Allocator) Reorder(ctx context.Context, c Class, ids []uuid.UUID) error {
	unlock := a.lock(c)
	defer unlock()

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots, err := a.load(tx, c)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]slot, len(slots))
		for _, s := range slots {
			byID[s.ID] = s
		}

		seen := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return invalid("%s is not part of %s", id, c.Name)
			}
			if seen[id] {
				return invalid("%s is listed more than once", id)
			}
			seen[id] = true
		}
		if len(ids) != len(slots) {
			return invalid("reorder of %s must list all %d entries, got %d", c.Name, len(slots), len(ids))
		}

		for i, id := range ids {
			s := byID[id]
			if s.Position == i+1 {
				continue
			}
			if err := a.setPosition(tx, c, s, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes a row of the class. before, if set, runs first in the same
// transaction (dependent rows). Positions are not compacted afterwards.
func (a *Allocator) Remove(ctx context.Context, c Class, id uuid.UUID, before func(tx *gorm.DB) error) error {
	unlock := a.lock(c)
	defer unlock()

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots, err := a.load(tx, c)
		if err != nil {
			return err
		}
		if _, ok := find(slots, id); !ok {
			return &NotFoundError{Kind: c.Name, ID: id.String()}
		}

		if before != nil {
			if err := before(tx); err != nil {
				return err
			}
		}

		if err := tx.Exec("DELETE FROM "+tx.Statement.Quote(c.Table)+" WHERE id = ?", id).Error; err != nil {
			return fmt.Errorf("delete %s %s: %w", c.Name, id, err)
		}
		return nil
	})
}
