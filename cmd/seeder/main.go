// Seeder populates a running API with a demo fleet: a handful of
// vehicles and plant machines, maintenance records in various states of
// compliance, and workshop tasks part-way through their lifecycle.
// Useful for local development and dashboard demos.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

var authToken string

func authorizedRequest(method, url string, body *bytes.Buffer) (*http.Response, error) {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func postJSON(url string, payload interface{}) (map[string]interface{}, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	resp, err := authorizedRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode, nil
}

func putJSON(url string, payload interface{}) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	resp, err := authorizedRequest(http.MethodPut, url, bytes.NewBuffer(data))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// login registers the seed admin on first run, then logs in.
func login(apiURL string) error {
	creds := map[string]interface{}{
		"username":   "seeder",
		"password":   "SeedMe123!",
		"email":      "seeder@example.com",
		"role":       "admin",
		"first_name": "Seed",
		"last_name":  "Admin",
	}
	result, code, err := postJSON(apiURL+"/auth/register", creds)
	if err != nil {
		return err
	}
	if code != http.StatusCreated {
		result, code, err = postJSON(apiURL+"/auth/login", map[string]string{
			"username": "seeder",
			"password": "SeedMe123!",
		})
		if err != nil {
			return err
		}
		if code != http.StatusOK {
			return fmt.Errorf("login failed with status %d", code)
		}
	}

	token, ok := result["token"].(string)
	if !ok {
		return fmt.Errorf("no token in auth response")
	}
	authToken = token
	return nil
}

type seedAsset struct {
	Class        string `json:"class"`
	Registration string `json:"registration,omitempty"`
	FleetNumber  string `json:"fleet_number"`
	Nickname     string `json:"nickname,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
}

func createAsset(apiURL string, asset seedAsset) (string, error) {
	result, code, err := postJSON(apiURL+"/assets", asset)
	if err != nil {
		return "", err
	}
	if code != http.StatusCreated {
		return "", fmt.Errorf("asset creation failed with status %d", code)
	}
	id, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("no asset ID in response")
	}
	log.WithFields(log.Fields{
		"asset_id":     id,
		"class":        asset.Class,
		"fleet_number": asset.FleetNumber,
	}).Info("Created asset")
	return id, nil
}

func isoDaysFromNow(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(time.RFC3339)
}

// seedMaintenance gives each vehicle a spread of compliance states:
// some comfortably in date, some inside the warning window, some
// overdue.
func seedMaintenance(apiURL, assetID string, index int) error {
	mileage := 30000 + rand.Intn(90000)
	record := map[string]interface{}{
		"current_mileage":      mileage,
		"tax_due_date":         isoDaysFromNow(120 - index*45),
		"mot_due_date":         isoDaysFromNow(200 - index*70),
		"first_aid_kit_expiry": isoDaysFromNow(25),
		"next_service_mileage": mileage + 800 + rand.Intn(4000),
		"notes":                "Seeded demo record",
	}
	code, err := putJSON(apiURL+"/assets/"+assetID+"/maintenance", map[string]interface{}{
		"record":  record,
		"comment": "Initial seed of maintenance data",
	})
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("maintenance seed failed with status %d", code)
	}
	return nil
}

func seedPlantMaintenance(apiURL, assetID string) error {
	hours := 400 + rand.Intn(2000)
	record := map[string]interface{}{
		"current_hours":      hours,
		"next_service_hours": hours + 30 + rand.Intn(200),
		"loler_due_date":     isoDaysFromNow(45),
	}
	code, err := putJSON(apiURL+"/assets/"+assetID+"/maintenance", map[string]interface{}{
		"record":  record,
		"comment": "Initial seed of plant maintenance data",
	})
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("plant maintenance seed failed with status %d", code)
	}
	return nil
}

// seedTask raises a workshop task and optionally walks it through the
// start of its lifecycle so the board shows tasks in every column.
func seedTask(apiURL, assetID, title string, progress int) error {
	result, code, err := postJSON(apiURL+"/tasks", map[string]string{
		"asset_id": assetID,
		"category": "defect",
		"title":    title,
	})
	if err != nil {
		return err
	}
	if code != http.StatusCreated {
		return fmt.Errorf("task creation failed with status %d", code)
	}
	taskID, ok := result["id"].(string)
	if !ok {
		return fmt.Errorf("no task ID in response")
	}

	if progress >= 1 {
		if _, code, err = postJSON(apiURL+"/tasks/"+taskID+"/start", map[string]string{
			"comment": "Seeded: work started",
		}); err != nil || code != http.StatusOK {
			return fmt.Errorf("task start failed (status %d): %v", code, err)
		}
	}
	if progress >= 2 {
		if _, code, err = postJSON(apiURL+"/tasks/"+taskID+"/complete", map[string]string{
			"comment": "Seeded: work completed",
		}); err != nil || code != http.StatusOK {
			return fmt.Errorf("task complete failed (status %d): %v", code, err)
		}
	}

	log.WithFields(log.Fields{"task_id": taskID, "title": title}).Info("Created task")
	return nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	if err := login(apiURL); err != nil {
		log.WithError(err).Fatal("authentication failed")
	}

	vehicles := []seedAsset{
		{Class: "vehicle", Registration: "AV12 SWL", FleetNumber: "V-01", Nickname: "Big Red", Make: "Ford", Model: "Transit"},
		{Class: "vehicle", Registration: "AV13 SWL", FleetNumber: "V-02", Make: "Mercedes-Benz", Model: "Sprinter"},
		{Class: "vehicle", Registration: "AV14 SWL", FleetNumber: "V-03", Make: "Iveco", Model: "Daily"},
	}
	plant := []seedAsset{
		{Class: "plant", FleetNumber: "P-01", Nickname: "Little Digger", Make: "JCB", Model: "3CX"},
		{Class: "plant", FleetNumber: "P-02", Make: "Genie", Model: "Z-45"},
	}

	for i, v := range vehicles {
		id, err := createAsset(apiURL, v)
		if err != nil {
			log.WithError(err).Fatal("vehicle seed failed")
		}
		if err := seedMaintenance(apiURL, id, i); err != nil {
			log.WithError(err).Fatal("maintenance seed failed")
		}
		if err := seedTask(apiURL, id, fmt.Sprintf("Inspection defect on %s", v.FleetNumber), i%3); err != nil {
			log.WithError(err).Fatal("task seed failed")
		}
	}

	for _, p := range plant {
		id, err := createAsset(apiURL, p)
		if err != nil {
			log.WithError(err).Fatal("plant seed failed")
		}
		if err := seedPlantMaintenance(apiURL, id); err != nil {
			log.WithError(err).Fatal("plant maintenance seed failed")
		}
	}

	log.Info("Seeding complete")
}
