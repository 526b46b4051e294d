package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yathra/auth"
	"yathra/db/mem"
	"yathra/mq/goch"
	"yathra/web"
)

type fakeGoogleVerifier struct {
	profile auth.GoogleProfile
	err     error
}

func (f *fakeGoogleVerifier) Verify(_ context.Context, _ string) (*auth.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.profile, nil
}

func newTestRouter(google auth.GoogleVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if google == nil {
		google = &fakeGoogleVerifier{err: fmt.Errorf("google sign-in not configured")}
	}
	server := web.NewServer(mem.NewInMemoryStore(), goch.NewGoChanRecordEventQueueWrapper(), google)
	return server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func registerAndLogin(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test Owner",
		"email":    email,
		"phone":    "9876543210",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"emailOrPhone": email,
		"password":     "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok, "login response missing token")
	return token
}

func createVehicle(t *testing.T, router *gin.Engine, token, number string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/vehicles", token, gin.H{
		"model":           "Innova Crysta",
		"manufacturer":    "Toyota",
		"vehicleNumber":   number,
		"fixedRateFor5Km": 300,
		"perKmRate":       25,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, ok := decodeBody(t, w)["id"].(string)
	require.True(t, ok)
	return id
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(nil)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test Owner",
		"email":    "Owner@Example.com",
		"phone":    "9876543210",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// duplicate email
	w = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Someone Else",
		"email":    "owner@example.com",
		"phone":    "1112223334",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// login with the phone number works too
	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"emailOrPhone": "9876543210",
		"password":     "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner@example.com", decodeBody(t, w)["email"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"emailOrPhone": "owner@example.com",
		"password":     "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	router := newTestRouter(nil)

	w := doJSON(t, router, http.MethodGet, "/api/vehicles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/vehicles", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGoogleSignIn(t *testing.T) {
	verifier := &fakeGoogleVerifier{profile: auth.GoogleProfile{
		Subject: "google-sub-1",
		Email:   "guser@example.com",
		Name:    "G User",
	}}
	router := newTestRouter(verifier)

	w := doJSON(t, router, http.MethodPost, "/api/auth/google", "", gin.H{"idToken": "fake"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody(t, w)
	token, _ := first["token"].(string)
	require.NotEmpty(t, token)

	// second sign-in resolves to the same account
	w = doJSON(t, router, http.MethodPost, "/api/auth/google", "", gin.H{"idToken": "fake"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody(t, w)
	assert.Equal(t, first["user"].(map[string]interface{})["id"], second["user"].(map[string]interface{})["id"])

	w = doJSON(t, router, http.MethodPost, "/api/auth/google", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleCRUD(t *testing.T) {
	router := newTestRouter(nil)
	token := registerAndLogin(t, router, "fleet@example.com")

	id := createVehicle(t, router, token, "KA-01-AB-1234")

	// duplicate number is rejected
	w := doJSON(t, router, http.MethodPost, "/api/vehicles", token, gin.H{
		"model":         "Swift Dzire",
		"manufacturer":  "Maruti",
		"vehicleNumber": "KA-01-AB-1234",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/vehicles", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vehicles []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vehicles))
	require.Len(t, vehicles, 1)

	w = doJSON(t, router, http.MethodPut, "/api/vehicles/"+id, token, gin.H{
		"model":           "Innova Crysta ZX",
		"manufacturer":    "Toyota",
		"vehicleNumber":   "KA-01-AB-1234",
		"fixedRateFor5Km": 350,
		"perKmRate":       28,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Innova Crysta ZX", decodeBody(t, w)["model"])

	// another tenant cannot see or delete it
	otherToken := registerAndLogin(t, router, "other@example.com")
	w = doJSON(t, router, http.MethodDelete, "/api/vehicles/"+id, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/vehicles/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSavariTripComputesFare(t *testing.T) {
	router := newTestRouter(nil)
	token := registerAndLogin(t, router, "savari@example.com")
	vehicleID := createVehicle(t, router, token, "KA-02-CD-5678")

	w := doJSON(t, router, http.MethodPost, "/api/trips", token, gin.H{
		"tripType":   "savari",
		"vehicleId":  vehicleID,
		"clientName": "Ravi",
		"driverName": "Kumar",
		"startKm":    1000,
		"endKm":      1012,
		"tripRate":   9999, // client value must be overridden
		"tripDate":   time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	trip := decodeBody(t, w)

	// 12 km: 300 flat for the first 5, 25 * 7 beyond
	assert.Equal(t, float64(12), trip["distance"])
	assert.Equal(t, float64(475), trip["tripRate"])
	assert.Equal(t, float64(300), trip["fixedRateUsed"])
	assert.Equal(t, float64(25), trip["perKmRateUsed"])
	assert.Equal(t, float64(7), trip["additionalKm"])

	// updating the odometer recomputes distance and fare
	tripID := trip["id"].(string)
	w = doJSON(t, router, http.MethodPut, "/api/trips/"+tripID, token, gin.H{
		"tripType":   "savari",
		"vehicleId":  vehicleID,
		"clientName": "Ravi",
		"driverName": "Kumar",
		"startKm":    1000,
		"endKm":      1004,
		"tripDate":   time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody(t, w)
	assert.Equal(t, float64(4), updated["distance"])
	assert.Equal(t, float64(300), updated["tripRate"])

	// odometer readings out of order are rejected
	w = doJSON(t, router, http.MethodPost, "/api/trips", token, gin.H{
		"tripType":   "savari",
		"vehicleId":  vehicleID,
		"clientName": "Ravi",
		"driverName": "Kumar",
		"startKm":    500,
		"endKm":      400,
		"tripDate":   time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContractTripsAndListing(t *testing.T) {
	router := newTestRouter(nil)
	token := registerAndLogin(t, router, "contracts@example.com")
	vehicleID := createVehicle(t, router, token, "KA-03-EF-9012")

	w := doJSON(t, router, http.MethodPost, "/api/contracts", token, gin.H{
		"contractName":    "School Run",
		"rate":            30000,
		"vehicleId":       vehicleID,
		"averageDistance": 40,
		"contractEndDate": time.Now().AddDate(0, 6, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contractID := decodeBody(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/api/trips", token, gin.H{
		"tripType":   "contract",
		"contractId": contractID,
		"vehicleId":  vehicleID,
		"clientName": "School",
		"driverName": "Kumar",
		"tripRate":   1000,
		"tripDate":   time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// a contract trip without a contract id is invalid
	w = doJSON(t, router, http.MethodPost, "/api/trips", token, gin.H{
		"tripType":   "contract",
		"vehicleId":  vehicleID,
		"clientName": "School",
		"driverName": "Kumar",
		"tripDate":   time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/trips?tripType=contract", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	listing := decodeBody(t, w)
	for _, key := range []string{"trips", "contracts", "vehicles", "drivers", "pagination"} {
		assert.Contains(t, listing, key)
	}
	trips := listing["trips"].([]interface{})
	require.Len(t, trips, 1)
	tripVehicle := trips[0].(map[string]interface{})["vehicle"].(map[string]interface{})
	assert.Equal(t, "KA-03-EF-9012", tripVehicle["vehicleNumber"])

	pagination := listing["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
	assert.Equal(t, false, pagination["hasNext"])

	w = doJSON(t, router, http.MethodGet, "/api/trips/contract/"+contractID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "School Run", decodeBody(t, w)["contractName"])

	// the contract listing hydrates references the same way
	w = doJSON(t, router, http.MethodGet, "/api/contracts", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	contractListing := decodeBody(t, w)
	contracts := contractListing["contracts"].([]interface{})
	require.Len(t, contracts, 1)
	contractVehicle := contracts[0].(map[string]interface{})["vehicle"].(map[string]interface{})
	assert.Equal(t, "KA-03-EF-9012", contractVehicle["vehicleNumber"])
}

func TestContractBillingReportEndpoint(t *testing.T) {
	router := newTestRouter(nil)
	token := registerAndLogin(t, router, "report@example.com")
	vehicleID := createVehicle(t, router, token, "KA-04-GH-3456")

	w := doJSON(t, router, http.MethodPost, "/api/contracts", token, gin.H{
		"contractName":    "Office Shuttle",
		"rate":            25000,
		"vehicleId":       vehicleID,
		"averageDistance": 30,
		"contractEndDate": time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contractID := decodeBody(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodGet, "/api/reports/contract-billing/"+contractID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"), "body should be a PDF document")

	// unknown contract
	w = doJSON(t, router, http.MethodGet, "/api/reports/contract-billing/00000000-0000-0000-0000-000000000001", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
