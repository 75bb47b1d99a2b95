package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yardtrack/yardmap/pkg/core"
)

var (
	// ErrExists is returned when adding an entity whose id is taken
	ErrExists = errors.New("entity already exists")
	// ErrNotFound is returned when updating or deleting an unknown entity
	ErrNotFound = errors.New("entity not found")
)

// EntityCache holds the beacon and motorcycle records behind the map markers.
// Records are independent of their markers; a marker only projects one onto the map.
type EntityCache struct {
	m           sync.Mutex
	Beacons     map[int]core.Beacon
	Motorcycles map[int]core.Motorcycle
}

func NewEntityCache() *EntityCache {
	return &EntityCache{
		m:           sync.Mutex{},
		Beacons:     make(map[int]core.Beacon),
		Motorcycles: make(map[int]core.Motorcycle),
	}
}

func (c *EntityCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.Beacons = make(map[int]core.Beacon)
	c.Motorcycles = make(map[int]core.Motorcycle)
}

func (c *EntityCache) GetBeacon(id int) (core.Beacon, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if b, ok := c.Beacons[id]; ok {
		return b, true
	}
	return core.Beacon{}, false
}

func (c *EntityCache) GetMotorcycle(id int) (core.Motorcycle, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if v, ok := c.Motorcycles[id]; ok {
		return v, true
	}
	return core.Motorcycle{}, false
}

func (c *EntityCache) AddBeacon(b core.Beacon) error {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Beacons[b.ID]; ok {
		return fmt.Errorf("beacon %d: %w", b.ID, ErrExists)
	}
	c.Beacons[b.ID] = b
	return nil
}

func (c *EntityCache) AddMotorcycle(v core.Motorcycle) error {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Motorcycles[v.ID]; ok {
		return fmt.Errorf("motorcycle %d: %w", v.ID, ErrExists)
	}
	c.Motorcycles[v.ID] = v
	return nil
}

func (c *EntityCache) UpdateBeacon(b core.Beacon) error {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Beacons[b.ID]; !ok {
		return fmt.Errorf("beacon %d: %w", b.ID, ErrNotFound)
	}
	c.Beacons[b.ID] = b
	return nil
}

func (c *EntityCache) UpdateMotorcycle(v core.Motorcycle) error {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Motorcycles[v.ID]; !ok {
		return fmt.Errorf("motorcycle %d: %w", v.ID, ErrNotFound)
	}
	c.Motorcycles[v.ID] = v
	return nil
}

func (c *EntityCache) DeleteBeacon(id int) error {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Beacons[id]; !ok {
		return fmt.Errorf("beacon %d: %w", id, ErrNotFound)
	}
	delete(c.Beacons, id)
	return nil
}

func (c *EntityCache) DeleteMotorcycle(id int) error {
	c.m.Lock()
	defer c.m.Unlock()
	if _, ok := c.Motorcycles[id]; !ok {
		return fmt.Errorf("motorcycle %d: %w", id, ErrNotFound)
	}
	delete(c.Motorcycles, id)
	return nil
}

// ListBeacons returns all beacons ordered by id
func (c *EntityCache) ListBeacons() []core.Beacon {
	c.m.Lock()
	defer c.m.Unlock()
	out := make([]core.Beacon, 0, len(c.Beacons))
	for _, b := range c.Beacons {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListMotorcycles returns all motorcycles ordered by id
func (c *EntityCache) ListMotorcycles() []core.Motorcycle {
	c.m.Lock()
	defer c.m.Unlock()
	out := make([]core.Motorcycle, 0, len(c.Motorcycles))
	for _, v := range c.Motorcycles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
