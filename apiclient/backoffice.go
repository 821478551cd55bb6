package apiclient

import (
	"context"

	"grabbi-storefront/dtos"
)

func (c *Client) ListStaff(ctx context.Context, token string) ([]dtos.Staff, error) {
	var staff []dtos.Staff
	if err := c.get(ctx, "/staff", token, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) CreateStaff(ctx context.Context, token string, s dtos.Staff) (*dtos.Staff, error) {
	var created dtos.Staff
	if err := c.post(ctx, "/staff", token, s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteStaff(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, "/staff/"+itoa(id), token)
}

func (c *Client) ImportStock(ctx context.Context, token string, batch dtos.StockImport) (*dtos.StockImportResult, error) {
	var result dtos.StockImportResult
	if err := c.post(ctx, "/stock/import", token, batch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SubmitJobApplication(ctx context.Context, app dtos.JobApplication) error {
	return c.post(ctx, "/jobapplication", "", app, nil)
}

func (c *Client) ListJobApplications(ctx context.Context, token string) ([]dtos.JobApplication, error) {
	var apps []dtos.JobApplication
	if err := c.get(ctx, "/jobapplication", token, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) SetJobApplicationStatus(ctx context.Context, token string, id int64, status string) error {
	return c.put(ctx, "/jobapplication/"+itoa(id)+"/status", token, map[string]string{"Status": status}, nil)
}

func (c *Client) RegisterDeliveryStaff(ctx context.Context, token string, d dtos.DeliveryStaff) (*dtos.DeliveryStaff, error) {
	var created dtos.DeliveryStaff
	if err := c.post(ctx, "/deliverystaff", token, d, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListFulfilmentStaff(ctx context.Context, token string) ([]dtos.FulfilmentStaff, error) {
	var staff []dtos.FulfilmentStaff
	if err := c.get(ctx, "/fulfilmentstaff", token, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) CreateFulfilmentStaff(ctx context.Context, token string, s dtos.FulfilmentStaff) (*dtos.FulfilmentStaff, error) {
	var created dtos.FulfilmentStaff
	if err := c.post(ctx, "/fulfilmentstaff", token, s, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteFulfilmentStaff(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, "/fulfilmentstaff/"+itoa(id), token)
}
