package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/trade-journal/internal/journal"
)

func TestTradeDetails_ForTrade(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantNotes string
		wantNil   bool
	}{
		{name: "object", status: http.StatusOK, body: `{"id":3,"tradeId":7,"observaciones":"entered late","imageUrlpre":"https://img.example.com/a.png"}`, wantNotes: "entered late"},
		{name: "wrapped in list", status: http.StatusOK, body: `[{"id":3,"tradeId":7,"observaciones":"clean setup"}]`, wantNotes: "clean setup"},
		{name: "empty list", status: http.StatusOK, body: `[]`, wantNil: true},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"Trade detail not found"}`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/trade-details/trade/7", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			detail, err := client.TradeDetails().ForTrade(context.Background(), 7)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, detail)
				return
			}
			require.NotNil(t, detail)
			assert.Equal(t, int64(3), detail.ID)
			assert.Equal(t, tt.wantNotes, detail.Notes)
		})
	}
}

func TestTradeDetails_ForTradeServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to fetch trade details"}`))
	})

	_, err := client.TradeDetails().ForTrade(context.Background(), 7)

	assert.EqualError(t, err, "fetch trade details for trade 7: Failed to fetch trade details")
}

func TestTradeDetails_CreateAndUpdate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/trade-details":
			assert.Equal(t, map[string]any{"tradeId": 7.0, "observaciones": "waited for retest"}, body)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":11,"tradeId":7,"observaciones":"waited for retest"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/trade-details/11":
			assert.Equal(t, "https://img.example.com/after.png", body["imageUrlpost"])
			w.Write([]byte(`{"id":11,"tradeId":7,"observaciones":"waited for retest","imageUrlpost":"https://img.example.com/after.png"}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	details := client.TradeDetails()

	created, err := details.Create(context.Background(), journal.NewTradeDetail{TradeID: 7, Notes: "waited for retest"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)

	in := created.Input()
	in.ImageURLAfter = "https://img.example.com/after.png"
	updated, err := details.Update(context.Background(), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/after.png", updated.ImageURLAfter)
}

func TestTradeDetails_RejectsBadImageURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent")
	})

	_, err := client.TradeDetails().Create(context.Background(), journal.NewTradeDetail{TradeID: 7, ImageURLBefore: "chart.png"})

	assert.EqualError(t, err, "validation failed: imageUrlpre: must be an http(s) URL")
}
