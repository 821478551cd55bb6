package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"grabbi-storefront/dtos"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ListProducts lists catalogue products; query is passed through (search,
// category, page).
func (c *Client) ListProducts(ctx context.Context, query url.Values) ([]dtos.Product, error) {
	path := "/product"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var products []dtos.Product
	if err := c.get(ctx, path, "", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*dtos.Product, error) {
	var product dtos.Product
	if err := c.get(ctx, "/product/"+itoa(id), "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) GetCart(ctx context.Context, token string, customerID int64) ([]dtos.CartLine, error) {
	var lines []dtos.CartLine
	if err := c.get(ctx, "/cart/customer/"+itoa(customerID), token, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *Client) AddCartLine(ctx context.Context, token string, line dtos.CartLine) (*dtos.CartLine, error) {
	var created dtos.CartLine
	if err := c.post(ctx, "/cart", token, line, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCartLine(ctx context.Context, token string, line dtos.CartLine) error {
	return c.put(ctx, "/cart/"+itoa(line.ID), token, line, nil)
}

func (c *Client) DeleteCartLine(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, "/cart/"+itoa(id), token)
}

func (c *Client) ListAddresses(ctx context.Context, token string, customerID int64) ([]dtos.Address, error) {
	var addresses []dtos.Address
	if err := c.get(ctx, "/address/customer/"+itoa(customerID), token, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, token string, addr dtos.Address) (*dtos.Address, error) {
	var created dtos.Address
	if err := c.post(ctx, "/address", token, addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, token string, addr dtos.Address) error {
	return c.put(ctx, "/address/"+itoa(addr.ID), token, addr, nil)
}

func (c *Client) DeleteAddress(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, "/address/"+itoa(id), token)
}
