package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-journal/internal/journal"
)

func catalogHandler(calls map[string]*atomic.Int32) http.HandlerFunc {
	bodies := map[string]string{
		"/api/symbol":           `[{"id":3,"codeSymbol":"EURUSD","label":"Euro / Dollar"}]`,
		"/api/operation-type":   `[{"id":1,"label":"Compra","operation":"BUY"},{"id":2,"label":"Venta","operation":"SELL"}]`,
		"/api/result":           `[{"id":1,"label":"Ganada","result":"Win"}]`,
		"/api/status-operation": `[{"id":2,"label":"Cerrada","status":"Close"}]`,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if c, ok := calls[r.URL.Path]; ok {
			c.Add(1)
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}
}

func TestCatalog_CachesLists(t *testing.T) {
	symbolCalls := &atomic.Int32{}
	client := newTestClient(t, catalogHandler(map[string]*atomic.Int32{"/api/symbol": symbolCalls}))
	catalog, err := NewCatalog(client, time.Hour)
	require.NoError(t, err)
	defer catalog.Close()

	first, err := catalog.Symbols(context.Background())
	require.NoError(t, err)
	catalog.cache.Wait()

	second, err := catalog.Symbols(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), symbolCalls.Load())

	catalog.Invalidate()
	_, err = catalog.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), symbolCalls.Load())
}

func TestCatalog_Expand(t *testing.T) {
	client := newTestClient(t, catalogHandler(nil))
	catalog, err := NewCatalog(client, time.Hour)
	require.NoError(t, err)
	defer catalog.Close()

	trades := []journal.Trade{
		{ID: 1, SymbolID: 3, OperationTypeID: 2, ResultID: 1, StatusOperationID: 2},
		{ID: 2, SymbolID: 99, OperationTypeID: 1, ResultID: 1, StatusOperationID: 2},
	}

	expanded, err := catalog.Expand(context.Background(), trades)

	require.NoError(t, err)
	require.NotNil(t, expanded[0].Symbol)
	assert.Equal(t, "EURUSD", expanded[0].Symbol.CodeSymbol)
	assert.True(t, expanded[0].OperationType.IsSell())
	assert.Equal(t, "Win", expanded[0].Result.Result)
	assert.Equal(t, "Close", expanded[0].StatusOperation.Status)
	assert.Nil(t, expanded[1].Symbol)
	assert.False(t, expanded[1].OperationType.IsSell())
	assert.Nil(t, trades[0].Symbol, "input must not be modified")
}

func TestCatalog_SellTypes(t *testing.T) {
	client := newTestClient(t, catalogHandler(nil))
	catalog, err := NewCatalog(client, time.Hour)
	require.NoError(t, err)
	defer catalog.Close()

	sells, err := catalog.SellTypes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, journal.SellTypes{2: true}, sells)
	assert.True(t, sells.IsSell(journal.Trade{OperationTypeID: 2}))
}
