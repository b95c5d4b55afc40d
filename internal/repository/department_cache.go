package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatdesk/internal/models"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DepartmentSource is the backing lookup the cache reads through to,
// implemented by DepartmentRepository.
type DepartmentSource interface {
	List(ctx context.Context, clientID uuid.UUID) ([]models.Department, error)
	GetByName(ctx context.Context, clientID uuid.UUID, name string) (*models.Department, error)
}

// DepartmentCache is a read-through TTL cache in front of the department
// repository. The router hits the registry on every message, admin edits
// are rare, so lookups are served from memory and invalidated on writes.
type DepartmentCache struct {
	source DepartmentSource
	cache  *cache.Cache
}

func NewDepartmentCache(source DepartmentSource, ttl time.Duration) *DepartmentCache {
	return &DepartmentCache{
		source: source,
		cache:  cache.New(ttl, 10*time.Minute),
	}
}

func (c *DepartmentCache) List(ctx context.Context, clientID uuid.UUID) ([]models.Department, error) {
	key := listKey(clientID)
	if x, found := c.cache.Get(key); found {
		return x.([]models.Department), nil
	}

	departments, err := c.source.List(ctx, clientID)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, departments, cache.DefaultExpiration)
	return departments, nil
}

func (c *DepartmentCache) GetByName(ctx context.Context, clientID uuid.UUID, name string) (*models.Department, error) {
	key := nameKey(clientID, name)
	if x, found := c.cache.Get(key); found {
		return x.(*models.Department), nil
	}

	dept, err := c.source.GetByName(ctx, clientID, name)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, dept, cache.DefaultExpiration)
	return dept, nil
}

// Invalidate drops every cached entry for a client. Called after admin
// writes so the router never routes on stale departments past one write.
func (c *DepartmentCache) Invalidate(clientID uuid.UUID) {
	prefix := "departments:" + clientID.String()
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func listKey(clientID uuid.UUID) string {
	return fmt.Sprintf("departments:%s:list", clientID)
}

func nameKey(clientID uuid.UUID, name string) string {
	return fmt.Sprintf("departments:%s:name:%s", clientID, strings.ToLower(name))
}
