package client

import (
	"context"

	"github.com/google/uuid"
)

// ItemsAPI wraps the /items collection.
type ItemsAPI struct {
	c *Client
}

func NewItemsAPI(c *Client) *ItemsAPI {
	return &ItemsAPI{c: c}
}

func (a *ItemsAPI) List(ctx context.Context) ([]Item, error) {
	var out []Item
	if err := a.c.Get(ctx, "/items", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ItemsAPI) Create(ctx context.Context, input CreateItemInput) (Item, error) {
	if err := checkStruct(input); err != nil {
		return Item{}, err
	}
	var out Item
	if err := a.c.Post(ctx, "/items", input, &out); err != nil {
		return Item{}, err
	}
	return out, nil
}

// Update sends a partial payload; omitted fields stay untouched server-side.
func (a *ItemsAPI) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (Item, error) {
	if err := checkStruct(input); err != nil {
		return Item{}, err
	}
	var out Item
	if err := a.c.Patch(ctx, "/items/"+id.String(), input, &out); err != nil {
		return Item{}, err
	}
	return out, nil
}

func (a *ItemsAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return a.c.Delete(ctx, "/items/"+id.String())
}
