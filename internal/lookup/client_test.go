package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "AB12CDE", normalize("ab12 cde"))
	assert.Equal(t, "AB12CDE", normalize("AB12CDE"))
}

func TestVehicleSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "AB12CDE", body["registrationNumber"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vesResponse{
			RegistrationNumber: "AB12CDE",
			Make:               "Ford",
			Colour:             "White",
			YearOfManufacture:  2019,
			FuelType:           "DIESEL",
			EngineCapacity:     1995,
			TaxStatus:          "Taxed",
			MotStatus:          "Valid",
		})
	}))
	defer server.Close()

	client := NewClient(nil)
	client.vesURL = server.URL

	snapshot, err := client.VehicleSnapshot(context.Background(), "ab12 cde")
	require.NoError(t, err)
	assert.Equal(t, "AB12CDE", snapshot.Registration)
	assert.Equal(t, "Ford", snapshot.Make)
	assert.Equal(t, 2019, snapshot.YearOfManufacture)
	assert.Equal(t, "Taxed", snapshot.TaxStatus)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestVehicleSnapshot_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(nil)
	client.vesURL = server.URL

	_, err := client.VehicleSnapshot(context.Background(), "ZZ99ZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVehicleSnapshot_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(nil)
	client.vesURL = server.URL

	_, err := client.VehicleSnapshot(context.Background(), "AB12CDE")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMotHistorySnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/registration/AB12CDE", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"registration":"AB12CDE","make":"FORD","model":"TRANSIT","primaryColour":"WHITE","fuelType":"DIESEL","firstUsedDate":"2019-03-01"}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	client.motURL = server.URL

	snapshot, err := client.MotHistorySnapshot(context.Background(), "AB12CDE")
	require.NoError(t, err)
	assert.Equal(t, "TRANSIT", snapshot.Model)
	assert.Equal(t, "WHITE", snapshot.Colour)
	assert.Equal(t, "2019-03-01", snapshot.FirstUsedDate)
}
