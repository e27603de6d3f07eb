package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles API requests to the mushtrack API.
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client.
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("MUSHTRACK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running.
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// Batch mirrors the server's batch payload.
type Batch struct {
	ID                       string    `json:"id"`
	BatchLabel               string    `json:"batch_label"`
	Variety                  string    `json:"variety"`
	SubstrateRecipe          string    `json:"substrate_recipe"`
	SpawnSupplier            string    `json:"spawn_supplier"`
	NumUnits                 int       `json:"num_units"`
	UnitType                 string    `json:"unit_type"`
	UnitWeight               float64   `json:"unit_weight"`
	Stage                    string    `json:"stage"`
	ContaminatedUnits        int       `json:"contaminated_units"`
	InoculationDate          string    `json:"inoculation_date"`
	ColonisationCompleteDate *string   `json:"colonisation_complete_date"`
	GrowRoomEntryDate        *string   `json:"grow_room_entry_date"`
	RetirementDate           *string   `json:"retirement_date"`
	Harvests                 []Harvest `json:"harvests"`
	ParentBatchID            *string   `json:"parent_batch_id"`
	Notes                    string    `json:"notes"`
}

// Harvest is one weigh-in entry.
type Harvest struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// Totals mirrors the server's aggregate figures.
type Totals struct {
	Count                  int     `json:"count"`
	TotalUnits             int     `json:"total_units"`
	ContaminatedUnits      int     `json:"contaminated_units"`
	SuccessfulUnits        int     `json:"successful_units"`
	TotalHarvestWeight     float64 `json:"total_harvest_weight"`
	ContaminationRate      float64 `json:"contamination_rate"`
	SuccessRate            float64 `json:"success_rate"`
	AvgColonisationDays    float64 `json:"avg_colonisation_days"`
	AvgGrowDays            float64 `json:"avg_grow_days"`
	YieldPerKgSubstrate    float64 `json:"yield_per_kg_substrate"`
	YieldPerSuccessfulUnit float64 `json:"yield_per_successful_unit"`
}

// Summary is totals plus grouped breakdowns.
type Summary struct {
	Totals
	ByVariety   map[string]Totals `json:"by_variety"`
	BySubstrate map[string]Totals `json:"by_substrate"`
	BySupplier  map[string]Totals `json:"by_supplier"`
}

// Overview is the dashboard payload.
type Overview struct {
	AllTime        Summary            `json:"all_time"`
	Last7Days      Summary            `json:"last_7_days"`
	Last30Days     Summary            `json:"last_30_days"`
	Last90Days     Summary            `json:"last_90_days"`
	Last365Days    Summary            `json:"last_365_days"`
	WeeklyHarvests map[string]float64 `json:"weekly_harvests"`
}

// ListBatches fetches every batch.
func (c *ApiClient) ListBatches() ([]Batch, error) {
	var batches []Batch
	err := c.get("/api/v1/batches", &batches)
	return batches, err
}

// GetBatch fetches one batch by id.
func (c *ApiClient) GetBatch(id string) (*Batch, error) {
	var batch Batch
	if err := c.get("/api/v1/batches/"+id, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// CreateBatch creates a new batch.
func (c *ApiClient) CreateBatch(fields map[string]interface{}) (*Batch, error) {
	var batch Batch
	if err := c.post("/api/v1/batches", fields, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// MoveBatch applies a stage transition.
func (c *ApiClient) MoveBatch(id, stage string) (*Batch, error) {
	var batch Batch
	if err := c.post("/api/v1/batches/"+id+"/move", map[string]interface{}{"stage": stage}, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// SetColonised records the colonisation completion date.
func (c *ApiClient) SetColonised(id, date string) (*Batch, error) {
	var batch Batch
	if err := c.post("/api/v1/batches/"+id+"/colonised", map[string]interface{}{"date": date}, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// SplitBatch moves quantity units off a parent into a new grow-room batch.
func (c *ApiClient) SplitBatch(id string, quantity int, colonisationDate, notes string) (*Batch, *Batch, error) {
	var result struct {
		Parent Batch `json:"parent"`
		Child  Batch `json:"child"`
	}
	body := map[string]interface{}{
		"quantity":          quantity,
		"colonisation_date": colonisationDate,
		"notes":             notes,
	}
	if err := c.post("/api/v1/batches/"+id+"/split", body, &result); err != nil {
		return nil, nil, err
	}
	return &result.Parent, &result.Child, nil
}

// LogHarvest appends today's weigh-ins to a batch.
func (c *ApiClient) LogHarvest(id string, weights []float64) (*Batch, error) {
	var batch Batch
	if err := c.post("/api/v1/batches/"+id+"/harvests", map[string]interface{}{"weights": weights}, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetOverview fetches the dashboard overview.
func (c *ApiClient) GetOverview() (*Overview, error) {
	var overview Overview
	if err := c.get("/api/v1/stats/overview", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// GetSummary fetches one summary with an optional query string, e.g.
// "days=30" or "fy=FY24/25".
func (c *ApiClient) GetSummary(query string) (*Summary, error) {
	url := "/api/v1/stats/summary"
	if query != "" {
		url += "?" + query
	}
	var summary Summary
	if err := c.get(url, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *ApiClient) get(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *ApiClient) post(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Post(c.BaseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
