// Package lookup fetches government vehicle-register (VES) and
// MOT-test-history data for a registration, caching responses in Redis
// and persisting snapshots to the store so stale data can still be
// served when the upstream is down.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// ErrNotFound means the registration is unknown to the upstream register.
var ErrNotFound = errors.New("registration not found")

// DefaultCacheTTL is how long a cached lookup stays fresh.
const DefaultCacheTTL = 24 * time.Hour

// Client queries the VES and MOT-history APIs.
type Client struct {
	rest     *resty.Client
	cache    *redis.Client
	vesURL   string
	motURL   string
	apiKey   string
	cacheTTL time.Duration
}

// NewClient builds a lookup client from the environment. A nil redis
// client disables caching; lookups then always hit the upstream.
func NewClient(cache *redis.Client) *Client {
	vesURL := os.Getenv("VES_API_URL")
	if vesURL == "" {
		vesURL = "https://driver-vehicle-licensing.api.gov.uk/vehicle-enquiry/v1"
	}
	motURL := os.Getenv("MOT_API_URL")
	if motURL == "" {
		motURL = "https://history.mot.api.gov.uk/v1/trade/vehicles"
	}

	rest := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		rest:     rest,
		cache:    cache,
		vesURL:   vesURL,
		motURL:   motURL,
		apiKey:   os.Getenv("VES_API_KEY"),
		cacheTTL: DefaultCacheTTL,
	}
}

// vesResponse mirrors the register's enquiry payload.
type vesResponse struct {
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
	Colour             string `json:"colour"`
	YearOfManufacture  int    `json:"yearOfManufacture"`
	FuelType           string `json:"fuelType"`
	EngineCapacity     int    `json:"engineCapacity"`
	TaxStatus          string `json:"taxStatus"`
	MotStatus          string `json:"motStatus"`
	CO2Emissions       int    `json:"co2Emissions"`
	EuroStatus         string `json:"euroStatus"`
	Wheelplan          string `json:"wheelplan"`
}

// motResponse mirrors one vehicle of the MOT history payload.
type motResponse struct {
	Registration    string `json:"registration"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	PrimaryColour   string `json:"primaryColour"`
	FuelType        string `json:"fuelType"`
	ManufactureYear int    `json:"manufactureYear,string,omitempty"`
	FirstUsedDate   string `json:"firstUsedDate"`
}

// VehicleSnapshot fetches register data for a registration, preferring
// the Redis cache. A fresh upstream response refreshes the cache.
func (c *Client) VehicleSnapshot(ctx context.Context, registration string) (*models.VehicleSnapshot, error) {
	registration = normalize(registration)
	cacheKey := "ves:" + registration

	if snapshot := c.fromCache(ctx, cacheKey, &models.VehicleSnapshot{}); snapshot != nil {
		return snapshot.(*models.VehicleSnapshot), nil
	}

	var payload vesResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetBody(map[string]string{"registrationNumber": registration}).
		SetResult(&payload).
		Post(c.vesURL)
	if err != nil {
		return nil, fmt.Errorf("ves lookup failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ves lookup failed: status %d", resp.StatusCode())
	}

	snapshot := &models.VehicleSnapshot{
		Registration:      registration,
		Make:              payload.Make,
		Colour:            payload.Colour,
		YearOfManufacture: payload.YearOfManufacture,
		FuelType:          payload.FuelType,
		EngineCapacity:    payload.EngineCapacity,
		TaxStatus:         payload.TaxStatus,
		MotStatus:         payload.MotStatus,
		CO2Emissions:      payload.CO2Emissions,
		EuroStatus:        payload.EuroStatus,
		Wheelplan:         payload.Wheelplan,
		FetchedAt:         time.Now().UTC(),
	}
	c.toCache(ctx, cacheKey, snapshot)
	return snapshot, nil
}

// MotHistorySnapshot fetches MOT history for a registration, preferring
// the Redis cache.
func (c *Client) MotHistorySnapshot(ctx context.Context, registration string) (*models.MotHistorySnapshot, error) {
	registration = normalize(registration)
	cacheKey := "mot:" + registration

	if snapshot := c.fromCache(ctx, cacheKey, &models.MotHistorySnapshot{}); snapshot != nil {
		return snapshot.(*models.MotHistorySnapshot), nil
	}

	var payload motResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetResult(&payload).
		Get(c.motURL + "/registration/" + registration)
	if err != nil {
		return nil, fmt.Errorf("mot history lookup failed: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mot history lookup failed: status %d", resp.StatusCode())
	}

	snapshot := &models.MotHistorySnapshot{
		Registration:    registration,
		Make:            payload.Make,
		Model:           payload.Model,
		Colour:          payload.PrimaryColour,
		FuelType:        payload.FuelType,
		ManufactureYear: payload.ManufactureYear,
		FirstUsedDate:   payload.FirstUsedDate,
		FetchedAt:       time.Now().UTC(),
	}
	c.toCache(ctx, cacheKey, snapshot)
	return snapshot, nil
}

func (c *Client) fromCache(ctx context.Context, key string, out interface{}) interface{} {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("key", key).Warn("lookup cache read failed")
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.WithError(err).WithField("key", key).Warn("lookup cache entry corrupt")
		return nil
	}
	return out
}

func (c *Client) toCache(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("lookup cache write failed")
	}
}

func normalize(registration string) string {
	return strings.ToUpper(strings.ReplaceAll(registration, " ", ""))
}

// ConnectRedis connects to Redis using the REDIS_ADDR environment
// variable. Returns nil (caching disabled) when unset.
func ConnectRedis(ctx context.Context) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, lookup caching disabled")
		return nil
	}
	return client
}
