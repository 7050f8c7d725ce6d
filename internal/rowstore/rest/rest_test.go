package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore/rest"
)

const testKey = "anon-key"

func newServer(t *testing.T, handler http.HandlerFunc) *rest.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return rest.New(srv.URL+"/", testKey, 5*time.Second)
}

func TestClient_List(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/objetivos_mensuales", r.URL.Path)
		assert.Equal(t, testKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "*", q.Get("select"))
		assert.Equal(t, "created_at.asc", q.Get("order"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "eq.3", q.Get("mes"))
		assert.Equal(t, "eq.2024", q.Get("anio"))

		_, _ = io.WriteString(w, `[{"id":"g1"},{"id":"g2"}]`)
	})

	rows, err := client.List(context.Background(), rowstore.TableGoals, rowstore.Query{
		OrderBy:   "created_at",
		Ascending: true,
		Limit:     5,
		Filters:   []rowstore.Filter{{Column: "mes", Value: 3}, {Column: "anio", Value: 2024}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"id":"g1"}`, string(rows[0]))
}

func TestClient_Insert(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/bancos", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Test Bank", body["nombre"])
		assert.NotContains(t, body, "id")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"b1","nombre":"Test Bank","tipo":"debito"}]`)
	})

	row, err := client.Insert(context.Background(), rowstore.TableBanks, rowstore.Row{"nombre": "Test Bank", "tipo": "debito"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b1","nombre":"Test Bank","tipo":"debito"}`, string(row))
}

func TestClient_Update(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "eq.c1", r.URL.Query().Get("id"))

			_, _ = io.WriteString(w, `[{"id":"c1","fecha_cierre":20}]`)
		})

		row, err := client.Update(context.Background(), rowstore.TableCards, "c1", rowstore.Row{"fecha_cierre": 20})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"c1","fecha_cierre":20}`, string(row))
	})

	t.Run("NotFound", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})

		_, err := client.Update(context.Background(), rowstore.TableCards, "missing", rowstore.Row{"saldo": 0})
		assert.ErrorIs(t, err, rowstore.ErrNotFound)
	})
}

func TestClient_Delete(t *testing.T) {
	var called bool

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true

		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.b1", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Delete(context.Background(), rowstore.TableBanks, "b1"))
	assert.True(t, called)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		connectivity bool
		want         *rowstore.Error
	}{
		{
			name:   "Rejection",
			status: http.StatusConflict,
			body:   `{"code":"23503","message":"insert or update violates foreign key constraint","details":"Key (banco_id) is not present.","hint":null}`,
			want: &rowstore.Error{
				Status:  http.StatusConflict,
				Code:    "23503",
				Message: "insert or update violates foreign key constraint",
				Details: "Key (banco_id) is not present.",
			},
		},
		{
			name:   "PlainText",
			status: http.StatusUnauthorized,
			body:   "Invalid API key",
			want:   &rowstore.Error{Status: http.StatusUnauthorized, Message: "Invalid API key"},
		},
		{
			name:   "EmptyBody",
			status: http.StatusInternalServerError,
			want:   &rowstore.Error{Status: http.StatusInternalServerError, Message: "Internal Server Error"},
		},
		{
			name:         "GatewayWithoutCode",
			status:       http.StatusBadGateway,
			body:         "<html>bad gateway</html>",
			connectivity: true,
		},
		{
			name:   "GatewayWithCode",
			status: http.StatusServiceUnavailable,
			body:   `{"code":"PGRST002","message":"Could not query the database for the schema cache"}`,
			want: &rowstore.Error{
				Status:  http.StatusServiceUnavailable,
				Code:    "PGRST002",
				Message: "Could not query the database for the schema cache",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.List(context.Background(), rowstore.TableExpenses, rowstore.Query{})
			require.Error(t, err)

			if tt.connectivity {
				assert.True(t, rowstore.IsConnectivity(err))
				return
			}

			be, ok := rowstore.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, be)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := rest.New(url, testKey, time.Second)

	_, err := client.List(context.Background(), rowstore.TableExpenses, rowstore.Query{Limit: 1})
	assert.True(t, rowstore.IsConnectivity(err))
}
