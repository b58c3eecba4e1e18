package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-journal/internal/api"
	"github.com/camuig/trade-journal/internal/config"
	"github.com/camuig/trade-journal/internal/journal"
	"github.com/camuig/trade-journal/internal/logger"
	"github.com/camuig/trade-journal/internal/store"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2025-03-14T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 9, d.Hour())

	d, err = parseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("14/03/2025")
	assert.EqualError(t, err, `invalid date "14/03/2025"`)
}

func newTestApp(t *testing.T, handler http.HandlerFunc) *app {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Backend.URL = server.URL + "/api"
	cfg.Backend.ReadTimeoutSeconds = 2
	cfg.Backend.WriteTimeoutSeconds = 2
	log := logger.Nop()

	client := api.NewClient(cfg, log)
	catalog, err := api.NewCatalog(client, time.Minute)
	require.NoError(t, err)
	t.Cleanup(catalog.Close)

	return &app{
		client:  client,
		catalog: catalog,
		trades:  store.NewTradeStore(client, time.Minute, log),
		log:     log,
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	err := a.run(context.Background(), "close-all", nil)

	var usageErr usageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestRun_AddRejectsInvalidTradeLocally(t *testing.T) {
	var calls atomic.Int32
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	err := a.run(context.Background(), "add", []string{"-symbol", "1", "-op", "1", "-result", "1", "-status", "1", "-entry", "1.1"})

	var vErr *journal.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, int32(0), calls.Load())
}

func TestRun_EditRequiresChanges(t *testing.T) {
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	})

	err := a.run(context.Background(), "edit", []string{"-id", "3"})

	assert.EqualError(t, err, "edit: nothing to change")
}

func TestRun_EditSendsPatch(t *testing.T) {
	var updated atomic.Bool
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/trades":
			w.Write([]byte(`[{"id":3,"symbolId":1,"operationTypeId":1,"resultId":1,"statusOperationId":1,"quantity":1,"dateEntry":"2025-01-01T00:00:00Z","priceEntry":1,"priceExit":1.2,"spread":0}]`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/trades/3":
			updated.Store(true)
			w.Write([]byte(`{"id":3,"symbolId":1,"operationTypeId":1,"resultId":1,"statusOperationId":1,"quantity":4,"dateEntry":"2025-01-01T00:00:00Z","priceEntry":1,"priceExit":1.2,"spread":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, a.run(context.Background(), "edit", []string{"-id", "3", "-qty", "4"}))

	assert.True(t, updated.Load())
	assert.Equal(t, 4.0, a.trades.Trades()[0].Quantity)
}

func TestRun_NotesCreatesThenUpdates(t *testing.T) {
	var detail atomic.Pointer[string]
	var posts, patches atomic.Int32
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/trade-details/trade/5":
			if body := detail.Load(); body != nil {
				w.Write([]byte(*body))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost && r.URL.Path == "/api/trade-details":
			posts.Add(1)
			body := `{"id":9,"tradeId":5,"observaciones":"late entry"}`
			detail.Store(&body)
			w.Write([]byte(body))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/trade-details/9":
			patches.Add(1)
			var in journal.NewTradeDetail
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "late entry", in.Notes)
			assert.Equal(t, "https://img.example.com/b.png", in.ImageURLBefore)
			w.Write([]byte(`{"id":9,"tradeId":5,"observaciones":"late entry","imageUrlpre":"https://img.example.com/b.png"}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	require.NoError(t, a.run(ctx, "notes", []string{"-id", "5"}))
	require.NoError(t, a.run(ctx, "notes", []string{"-id", "5", "-set", "late entry"}))
	require.NoError(t, a.run(ctx, "notes", []string{"-id", "5", "-before", "https://img.example.com/b.png"}))

	assert.Equal(t, int32(1), posts.Load())
	assert.Equal(t, int32(1), patches.Load())
}

func TestRun_StrategiesDetachAndConditions(t *testing.T) {
	var detached, conditionLookups atomic.Int32
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/api/strategy-confirmation":
			detached.Add(1)
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/strategies":
			w.Write([]byte(`[{"id":2,"name":"Breakout"}]`))
		case r.URL.Path == "/api/strategy-confirmation/strategy/2/confirmations":
			w.Write([]byte(`[{"id":4,"name":"Trend"}]`))
		case r.URL.Path == "/api/confirmations/4/conditions":
			conditionLookups.Add(1)
			w.Write([]byte(`[{"id":1,"name":"EMA 50 rising","confirmationId":4}]`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	require.NoError(t, a.run(context.Background(), "strategies", []string{"-strategy", "2", "-detach", "8"}))

	assert.Equal(t, int32(1), detached.Load())
	assert.Equal(t, int32(1), conditionLookups.Load())
}

func TestRun_StrategiesDetachNeedsStrategy(t *testing.T) {
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	})

	err := a.run(context.Background(), "strategies", []string{"-detach", "8"})

	var usageErr usageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestRun_SummaryFailsWithoutOperationTypes(t *testing.T) {
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/trades":
			w.Write([]byte(`[{"id":1,"operationTypeId":2,"quantity":1,"priceEntry":100,"priceExit":110}]`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	err := a.run(context.Background(), "summary", nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, api.StatusCode(err))
}
