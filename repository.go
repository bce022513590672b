// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package gemfire

import (
	"context"
	"fmt"
	"strings"
)

// Repository stores entities of type T in a region, keyed by an ID extracted
// from each entity.
//
// Example:
//
//	type Customer struct {
//	    ID      int    `json:"id"`
//	    Name    string `json:"name"`
//	    Surname string `json:"surname"`
//	}
//
//	orders, _ := client.Region(ctx, "orders")
//	repo, _ := gemfire.NewRepository(orders, func(c Customer) any { return c.ID })
//	_, err := repo.Save(ctx, Customer{ID: 10, Name: "abc", Surname: "def"})
//	found, ok, err := repo.Find(ctx, 10)
type Repository[T any] struct {
	region *Region
	id     func(T) any
}

// NewRepository creates a Repository over region using id to key entities
func NewRepository[T any](region *Region, id func(T) any) (*Repository[T], error) {
	if region == nil {
		return nil, fmt.Errorf("region cannot be nil")
	}
	if id == nil {
		return nil, fmt.Errorf("id function cannot be nil")
	}
	return &Repository[T]{region: region, id: id}, nil
}

// Region returns the underlying region
func (r *Repository[T]) Region() *Region {
	return r.region
}

// Save stores entities, using Put for one and PutAll for several
func (r *Repository[T]) Save(ctx context.Context, entities ...T) (Res, error) {
	switch len(entities) {
	case 0:
		return Res{Operation: OpPut, Region: r.region.Name}, fmt.Errorf("save: no entities given")
	case 1:
		return r.region.Put(ctx, r.id(entities[0]), entities[0])
	}

	entries := make(map[string]any, len(entities))
	for _, e := range entities {
		key := keyString(r.id(e))
		if _, dup := entries[key]; dup {
			return Res{Operation: OpPutAll, Region: r.region.Name}, fmt.Errorf("save: duplicate id %s", key)
		}
		entries[key] = e
	}
	return r.region.PutAll(ctx, entries)
}

// Find returns the entity stored under id. ok is false if there is none.
func (r *Repository[T]) Find(ctx context.Context, id any) (entity T, ok bool, err error) {
	res, err := r.region.Item(ctx, id)
	if err != nil {
		return entity, false, err
	}

	payload := strings.TrimSpace(res.Payload())
	if payload == "" || payload == "null" {
		return entity, false, nil
	}
	if err := res.Decode(&entity); err != nil {
		return entity, false, err
	}
	return entity, true, nil
}

// FindAll returns every entity in the region
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	res, err := r.region.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var entities []T
	if strings.TrimSpace(res.Payload()) == "" {
		return entities, nil
	}
	if err := res.Decode(&entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// Exists reports whether an entity is stored under id
func (r *Repository[T]) Exists(ctx context.Context, id any) (bool, error) {
	_, ok, err := r.Find(ctx, id)
	return ok, err
}

// Delete removes the entities stored under ids
func (r *Repository[T]) Delete(ctx context.Context, ids ...any) (Res, error) {
	return r.region.Delete(ctx, ids)
}

// DeleteEntities removes the given entities by their ids
func (r *Repository[T]) DeleteEntities(ctx context.Context, entities ...T) (Res, error) {
	ids := make([]any, len(entities))
	for i, e := range entities {
		ids[i] = r.id(e)
	}
	return r.region.Delete(ctx, ids)
}
