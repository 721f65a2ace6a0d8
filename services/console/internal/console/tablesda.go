package console

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
)

// tableResource mirrors the table record owned by the booking service.
type tableResource struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Zone   string `json:"zone"`
	Status string `json:"status"`
}

// TableDataAccess resolves table reference data from the booking service.
type TableDataAccess struct {
	client *apt.ServiceClient
}

func NewTableDataAccess(client *apt.ServiceClient) *TableDataAccess {
	return &TableDataAccess{client: client}
}

func (da *TableDataAccess) FetchCode(ctx context.Context, id string) (string, error) {
	if da == nil || da.client == nil {
		return "", fmt.Errorf("table client not configured")
	}
	if id == "" {
		return "", fmt.Errorf("missing table id")
	}

	resp, err := da.client.Get(ctx, "tables", id)
	if err != nil {
		return "", err
	}

	var table tableResource
	if err := decodeSuccessResponse(resp, &table); err != nil {
		return "", err
	}
	if table.Code == "" {
		return "", fmt.Errorf("table %s has no code", id)
	}

	return table.Code, nil
}

func (da *TableDataAccess) ListOpenTables(ctx context.Context) ([]tableResource, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	resp, err := da.client.Request(ctx, "GET", "/tables?status=open", nil)
	if err != nil {
		return nil, err
	}

	var tables []tableResource
	if err := decodeSuccessResponse(resp, &tables); err != nil {
		return nil, err
	}

	return tables, nil
}
