package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"grabbi-storefront/dtos"

	"github.com/tidwall/gjson"
)

func (c *Client) ListRewards(ctx context.Context, token string) ([]dtos.Reward, error) {
	var rewards []dtos.Reward
	if err := c.get(ctx, "/reward", token, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (c *Client) GetReward(ctx context.Context, token string, id int64) (*dtos.Reward, error) {
	var reward dtos.Reward
	if err := c.get(ctx, "/reward/"+strconv.FormatInt(id, 10), token, &reward); err != nil {
		return nil, err
	}
	return &reward, nil
}

// recipientIDPaths are the places the username lookup may put the id.
var recipientIDPaths = []string{"Id", "id", "CustomerId", "customerId", "User.Id"}

// CheckUsername resolves a username to a customer id. It returns 0 and a nil
// error when the backend answers without a match (empty body, null, or id 0);
// a 404 is returned as an *APIError.
func (c *Client) CheckUsername(ctx context.Context, token, username string) (int64, error) {
	raw, err := c.DoRaw(ctx, "GET", "/redeemedreward/check-username/"+url.PathEscape(username), token, nil)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return 0, nil
	}

	parsed := gjson.ParseBytes(raw)
	switch parsed.Type {
	case gjson.Number, gjson.String:
		return parsed.Int(), nil
	case gjson.JSON:
		for _, p := range recipientIDPaths {
			if v := parsed.Get(p); v.Exists() {
				return v.Int(), nil
			}
		}
		return 0, nil
	case gjson.Null, gjson.False:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected username lookup response: %s", parsed.Raw)
	}
}

func (c *Client) CreateRedeemedReward(ctx context.Context, token string, record dtos.RedeemedReward) error {
	return c.post(ctx, "/redeemedreward", token, record, nil)
}

func (c *Client) ListRedeemedRewards(ctx context.Context, token string, customerID int64) ([]dtos.RedeemedReward, error) {
	var records []dtos.RedeemedReward
	if err := c.get(ctx, "/redeemedreward/customer/"+strconv.FormatInt(customerID, 10), token, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) ListVouchers(ctx context.Context, token string) ([]dtos.Voucher, error) {
	var vouchers []dtos.Voucher
	if err := c.get(ctx, "/voucher", token, &vouchers); err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (c *Client) ClaimVoucher(ctx context.Context, token string, claim dtos.VoucherClaim) error {
	return c.post(ctx, "/voucher/claim", token, claim, nil)
}
