package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguide/models"
)

type captured struct {
	method string
	path   string
	body   map[string]any
}

func newServer(t *testing.T, status int, response string, got *captured) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.method = r.Method
			got.path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &got.body)
			}
		}
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), nil)
}

func TestCreateSession(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `{"session_id":"abc-123"}`, &got)

	id, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/session", got.path)
}

func TestCreateSession_EmptyID(t *testing.T) {
	c := newServer(t, http.StatusOK, `{}`, nil)
	_, err := c.CreateSession(context.Background())
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestAssessTemperature_CelsiusOnly(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `{"category":"fever","temperature_c":38.5,"temperature_f":101.3,"input_type":"numeric"}`, &got)

	req := NewTemperatureRequest("s1", models.NumericReading(38.5, models.Celsius))
	out, err := c.AssessTemperature(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fever", out.Category)

	assert.Equal(t, "s1", got.body["session_id"])
	assert.Equal(t, 38.5, got.body["temperature_celsius"])
	require.Contains(t, got.body, "temperature_fahrenheit")
	require.Contains(t, got.body, "descriptive")
	assert.Nil(t, got.body["temperature_fahrenheit"])
	assert.Nil(t, got.body["descriptive"])
}

func TestNewTemperatureRequest_ExactlyOneField(t *testing.T) {
	tests := []struct {
		name    string
		reading models.TemperatureReading
		want    string
	}{
		{"celsius", models.NumericReading(37.2, models.Celsius), "c"},
		{"fahrenheit", models.NumericReading(101.2, models.Fahrenheit), "f"},
		{"descriptive", models.DescriptiveReading(models.BurningUp), "d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewTemperatureRequest("s", tt.reading)
			set := map[string]bool{
				"c": req.TemperatureCelsius != nil,
				"f": req.TemperatureFahrenheit != nil,
				"d": req.Descriptive != nil,
			}
			for k, v := range set {
				assert.Equal(t, k == tt.want, v, "field %s", k)
			}
		})
	}
}

func TestAPIError_Detail(t *testing.T) {
	c := newServer(t, http.StatusBadRequest, `{"detail":"Temperature out of range"}`, nil)

	_, err := c.AssessTemperature(context.Background(), TemperatureRequest{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Temperature out of range", DetailOf(err))
}

func TestAPIError_ValidationDetail(t *testing.T) {
	c := newServer(t, http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"value is not a valid float"}]}`, nil)

	_, err := c.AssessTemperature(context.Background(), TemperatureRequest{})
	assert.Equal(t, "field required; value is not a valid float", DetailOf(err))
}

func TestAPIError_NoDetail(t *testing.T) {
	c := newServer(t, http.StatusInternalServerError, `oops`, nil)

	_, err := c.DetectDisease(context.Background(), DiseaseRequest{Symptoms: []string{"fever"}})
	require.Error(t, err)
	assert.Empty(t, DetailOf(err))
}

func TestDetectDisease_PreservesOrder(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `{"probable_causes":[
		{"disease":"Dengue","match_score":90,"home_care":["Rest"]},
		{"disease":"Flu","match_score":70},
		{"disease":"Cold","match_score":50}]}`, &got)

	out, err := c.DetectDisease(context.Background(), DiseaseRequest{Symptoms: []string{"fever"}})
	require.NoError(t, err)
	require.Len(t, out.ProbableCauses, 3)
	assert.Equal(t, []float64{90, 70, 50}, []float64{
		out.ProbableCauses[0].MatchScore,
		out.ProbableCauses[1].MatchScore,
		out.ProbableCauses[2].MatchScore,
	})
	assert.Equal(t, map[string]any{}, got.body["additional_context"])
	assert.NotContains(t, got.body, "temperature_category")
}

func TestNearby(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `[{"id":"p1","name":"City Hospital","type":"hospital","distance_km":1.2}]`, &got)

	out, err := c.Nearby(context.Background(), NearbyRequest{Latitude: 1, Longitude: 2, RadiusKm: 5, ProviderType: models.ProviderHospital, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "City Hospital", out[0].Name)
	assert.Equal(t, float64(10), got.body["limit"])
	assert.Equal(t, "/api/providers/nearby", got.path)
}

func TestChat(t *testing.T) {
	var got captured
	c := newServer(t, http.StatusOK, `{"reply":"Call 112"}`, &got)

	reply, err := c.Chat(context.Background(), "help")
	require.NoError(t, err)
	assert.Equal(t, "Call 112", reply)
	assert.Equal(t, "/chat", got.path)
	assert.Equal(t, "help", got.body["message"])
}

func TestReminders(t *testing.T) {
	t.Run("list defaults to empty", func(t *testing.T) {
		var got captured
		c := newServer(t, http.StatusOK, `{}`, &got)
		out, err := c.ListReminders(context.Background(), "s 1")
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.NotNil(t, out)
		assert.Equal(t, "/api/medication/reminders/s 1", got.path)
	})

	t.Run("stop", func(t *testing.T) {
		var got captured
		c := newServer(t, http.StatusOK, `{"message":"Reminder stopped successfully"}`, &got)
		require.NoError(t, c.StopReminder(context.Background(), 42))
		assert.Equal(t, http.MethodDelete, got.method)
		assert.Equal(t, "/api/medication/reminder/42", got.path)
	})

	t.Run("stop missing", func(t *testing.T) {
		c := newServer(t, http.StatusNotFound, `{"detail":"Reminder not found"}`, nil)
		err := c.StopReminder(context.Background(), 7)
		assert.Equal(t, "Reminder not found", DetailOf(err))
	})
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, nil, nil)

	err := c.Ping(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
