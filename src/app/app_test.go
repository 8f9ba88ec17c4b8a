package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxcopilot/src/warehouse"
)

type pingGateway struct {
	pingErr error
	pings   int
}

func (g *pingGateway) Validate(ctx context.Context, sql string) (int64, error) { return 0, nil }
func (g *pingGateway) Execute(ctx context.Context, sql string) (*warehouse.QueryResult, error) {
	return &warehouse.QueryResult{}, nil
}
func (g *pingGateway) TableSchema(ctx context.Context) ([]warehouse.Field, error) { return nil, nil }
func (g *pingGateway) TableInfo(ctx context.Context) (*warehouse.TableInfo, error) {
	return &warehouse.TableInfo{}, nil
}
func (g *pingGateway) SampleRows(ctx context.Context, limit int) (*warehouse.QueryResult, error) {
	return &warehouse.QueryResult{}, nil
}
func (g *pingGateway) Ping(ctx context.Context) error {
	g.pings++
	return g.pingErr
}
func (g *pingGateway) TableID() string { return "proj.weather.daily" }

func TestVerifyWarehouseReachable(t *testing.T) {
	gw := &pingGateway{}

	require.NoError(t, verifyWarehouse(context.Background(), gw))
	assert.Equal(t, 1, gw.pings)
}

func TestVerifyWarehouseUnreachable(t *testing.T) {
	cause := errors.New("dataset not found")
	gw := &pingGateway{pingErr: cause}

	err := verifyWarehouse(context.Background(), gw)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "warehouse unreachable")
}
