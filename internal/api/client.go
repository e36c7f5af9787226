// Package api is the typed client for the data-collection REST API. It
// plays the role a SQL repository layer plays server-side: one uniform
// search/get/create/update/delete surface per record kind, everything
// going through the authenticated transport.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-dcp-console/internal/entity"
	"github.com/noah-isme/agri-dcp-console/internal/models"
	"github.com/noah-isme/agri-dcp-console/internal/transport"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

// Client exposes the per-entity endpoints.
type Client struct {
	transport *transport.Client
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClient constructs the API client.
func NewClient(t *transport.Client, validate *validator.Validate, logger *zap.Logger) *Client {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{transport: t, validator: validate, logger: logger}
}

// Search requests one page of records. page is zero-based on the wire.
func (c *Client) Search(ctx context.Context, kind entity.Descriptor, page, pageSize int, filters map[string]any) (*models.ListResult, error) {
	if filters == nil {
		filters = map[string]any{}
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	envelope, err := c.transport.Do(ctx, http.MethodPost, kind.Path+"/search", query, filters)
	if err != nil {
		return nil, err
	}

	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unreadable search response")
	}

	result := &models.ListResult{Items: []models.Record{}}
	if raw, ok := payload["totalCount"]; ok {
		if err := json.Unmarshal(raw, &result.TotalCount); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unreadable totalCount")
		}
	}
	if raw, ok := payload[kind.PluralKey]; ok {
		if err := json.Unmarshal(raw, &result.Items); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unreadable record list")
		}
	}
	if result.TotalCount < 0 {
		result.TotalCount = 0
	}
	return result, nil
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, kind entity.Descriptor, id string) (models.Record, error) {
	envelope, err := c.transport.Do(ctx, http.MethodGet, kind.Path+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	record := models.Record{}
	if err := json.Unmarshal(envelope.Data, &record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unreadable record")
	}
	return record, nil
}

// Create validates the payload locally and posts it. Validation failures
// never reach the network.
func (c *Client) Create(ctx context.Context, kind entity.Descriptor, payload any) (models.Record, error) {
	if err := c.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+kind.Name+" payload")
	}
	envelope, err := c.transport.Do(ctx, http.MethodPost, kind.Path, nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord(envelope)
}

// Update validates the payload locally and puts it.
func (c *Client) Update(ctx context.Context, kind entity.Descriptor, id string, payload any) (models.Record, error) {
	if err := c.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+kind.Name+" payload")
	}
	envelope, err := c.transport.Do(ctx, http.MethodPut, kind.Path+"/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeRecord(envelope)
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, kind entity.Descriptor, id string) error {
	_, err := c.transport.Do(ctx, http.MethodDelete, kind.Path+"/"+url.PathEscape(id), nil, nil)
	return err
}

func decodeRecord(envelope *models.Envelope) (models.Record, error) {
	if len(envelope.Data) == 0 {
		return models.Record{}, nil
	}
	record := models.Record{}
	if err := json.Unmarshal(envelope.Data, &record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "unreadable record")
	}
	return record, nil
}
