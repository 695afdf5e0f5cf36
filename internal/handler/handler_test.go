package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quickride/internal/catalog"
	"quickride/internal/domain"
	"quickride/internal/fare"
	"quickride/internal/repository/memory"
	"quickride/internal/service"
	"quickride/internal/ussd"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router  *gin.Engine
	catalog *catalog.Catalog
	trips   *service.TripService
	drivers *service.DriverService
}

func newFixture(t *testing.T, pathReplay bool, csvPath string) *fixture {
	t.Helper()

	cat := catalog.New([]domain.Location{
		{Town: "Libode", Name: "Main Street"},
		{Town: "Libode", Name: "Taxi Rank", ZoneType: "rank"},
		{Town: "Mthatha", Name: "Central Taxi Rank", ZoneType: "rank"},
		{Town: "Mthatha", Name: "Savoy"},
	})

	trips := service.NewTripService(memory.NewTripRepository())
	drivers := service.NewDriverService(memory.NewDriverRepository())
	estimator := fare.NewEstimator(fare.NewTableDistance(fare.DefaultTownPairs()))
	engine := ussd.NewEngine(cat, estimator, trips, 6, 30)

	sessions := memory.NewSessionStore(0)
	ussdHandler := NewUSSDHandler(engine, sessions, sessions, pathReplay)
	driverHandler := NewDriverHandler(drivers, trips)
	adminHandler := NewAdminHandler(cat, csvPath, trips, drivers)

	router := gin.New()
	router.GET("/", adminHandler.Root)
	router.POST("/ussd", ussdHandler.Callback)
	router.POST("/api/ussd/callback", ussdHandler.Callback)
	router.POST("/driver/register", driverHandler.Register)
	router.POST("/driver/login", driverHandler.Login)
	router.GET("/driver/trips/pending", driverHandler.PendingTrips)
	router.POST("/driver/trips/:id/accept", driverHandler.Accept)
	router.POST("/driver/trips/:id/decline", driverHandler.Decline)
	router.POST("/driver/trips/:id/update", driverHandler.UpdateStatus)
	router.POST("/admin/reload-csv", adminHandler.ReloadCSV)
	router.GET("/admin/trips", adminHandler.Trips)
	router.GET("/admin/drivers", adminHandler.Drivers)

	return &fixture{router: router, catalog: cat, trips: trips, drivers: drivers}
}

func (f *fixture) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
}

func ussdForm(sessionID, phone, text string) url.Values {
	return url.Values{
		"sessionId":   {sessionID},
		"phoneNumber": {phone},
		"text":        {text},
	}
}

func TestUSSDCallback_RootMenuForm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postForm(t, "/ussd", ussdForm("s1", "+27831234567", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "CON ") || !strings.Contains(body, "Welcome to QuickRide") {
		t.Errorf("unexpected reply: %q", body)
	}
}

func TestUSSDCallback_RootMenuJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postJSON(t, "/api/ussd/callback", map[string]string{
		"sessionId":   "s1",
		"phoneNumber": "+27831234567",
		"text":        "",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "CON Welcome to QuickRide") {
		t.Errorf("unexpected reply: %q", w.Body.String())
	}
}

func TestUSSDCallback_UserTextAlias(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postForm(t, "/ussd", url.Values{
		"sessionId":   {"s1"},
		"phoneNumber": {"+27831234567"},
		"userText":    {"3"},
	})

	if !strings.HasPrefix(w.Body.String(), "END For help call") {
		t.Errorf("unexpected reply: %q", w.Body.String())
	}
}

func TestUSSDCallback_InvalidOptionEnds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postForm(t, "/ussd", ussdForm("s1", "+27831234567", "9"))

	if got := w.Body.String(); got != "END Invalid option" {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestUSSDCallback_FullBookingOverHTTP(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	phone := "+27831234567"

	steps := []struct {
		input      string
		wantPrefix string
	}{
		{"", "CON Welcome to QuickRide"},
		{"1", "CON Select PICK-UP town:"},
		{"1", "CON Select PICK-UP zone in Libode:"},
		{"1", "CON Select DROP-OFF town:"},
		{"2", "CON Select DROP-OFF zone in Mthatha:"},
		{"1", "CON Confirm Ride:"},
		{"1", "END Your ride request has been received"},
	}
	for _, step := range steps {
		w := f.postForm(t, "/ussd", ussdForm("s1", phone, step.input))
		if !strings.HasPrefix(w.Body.String(), step.wantPrefix) {
			t.Fatalf("input %q: expected prefix %q, got %q", step.input, step.wantPrefix, w.Body.String())
		}
	}

	w := f.get(t, "/driver/trips/pending")
	var trips []domain.Trip
	decodeJSON(t, w, &trips)
	if len(trips) != 1 {
		t.Fatalf("expected 1 pending trip, got %d", len(trips))
	}
	if trips[0].ID != "TR-1" || trips[0].Phone != phone || trips[0].Status != domain.TripStatusPending {
		t.Errorf("unexpected trip: %+v", trips[0])
	}
}

func TestUSSDCallback_PathReplay(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true, "")

	// Same dialog, but the gateway resends the whole path each call.
	w := f.postForm(t, "/ussd", ussdForm("s1", "+27831234567", "1*1*1*2"))
	if !strings.HasPrefix(w.Body.String(), "CON Select DROP-OFF zone in Mthatha:") {
		t.Errorf("unexpected reply: %q", w.Body.String())
	}

	w = f.postForm(t, "/ussd", ussdForm("s1", "+27831234567", "1*1*1*2*1*1"))
	if !strings.HasPrefix(w.Body.String(), "END Your ride request has been received") {
		t.Errorf("unexpected reply: %q", w.Body.String())
	}
}

func TestUSSDCallback_MalformedBodyShowsRootMenu(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	req := httptest.NewRequest(http.MethodPost, "/ussd", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "CON Welcome to QuickRide") {
		t.Errorf("unexpected reply: %q", w.Body.String())
	}
}

func registerDriver(t *testing.T, f *fixture, phone string) string {
	t.Helper()
	w := f.postJSON(t, "/driver/register", RegisterRequest{
		Name:     "Sipho",
		IDNumber: "8001015009087",
		Phone:    phone,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}
	var resp RegisterResponse
	decodeJSON(t, w, &resp)
	return resp.DriverID
}

func TestDriverRegister(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	id := registerDriver(t, f, "+27831111111")
	if id != "DR-1" {
		t.Errorf("expected DR-1, got %s", id)
	}
}

func TestDriverRegister_MissingField(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postJSON(t, "/driver/register", RegisterRequest{Name: "Sipho", Phone: "+27831111111"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDriverRegister_DuplicatePhone(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	registerDriver(t, f, "+27831111111")

	w := f.postJSON(t, "/driver/register", RegisterRequest{
		Name:     "Thabo",
		IDNumber: "8203125009081",
		Phone:    "+27831111111",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDriverLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	id := registerDriver(t, f, "+27831111111")

	w := f.postJSON(t, "/driver/login", LoginRequest{Phone: "+27831111111"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	decodeJSON(t, w, &resp)
	if resp.DriverID != id || resp.Name != "Sipho" {
		t.Errorf("unexpected login response: %+v", resp)
	}
}

func TestDriverLogin_UnknownPhone(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postJSON(t, "/driver/login", LoginRequest{Phone: "+27839999999"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp ErrorResponse
	decodeJSON(t, w, &resp)
	if resp.Error != "phone not registered" {
		t.Errorf("unexpected error body: %+v", resp)
	}
}

func TestPendingTrips_EmptyIsArray(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.get(t, "/driver/trips/pending")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}
}

func createTrip(t *testing.T, f *fixture) *domain.Trip {
	t.Helper()
	trip, err := f.trips.Create(context.Background(), service.CreateTripRequest{
		Phone:       "+27831234567",
		Pickup:      "Main Street",
		Dropoff:     "Savoy",
		PickupTown:  "Libode",
		DropoffTown: "Mthatha",
		Fare:        "R100+",
	})
	if err != nil {
		t.Fatal(err)
	}
	return trip
}

func TestDriverAccept(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	trip := createTrip(t, f)
	id := registerDriver(t, f, "+27831111111")

	w := f.postJSON(t, "/driver/trips/"+trip.ID+"/accept", ClaimRequest{DriverID: id})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got domain.Trip
	decodeJSON(t, w, &got)
	if got.Status != domain.TripStatusAccepted || got.DriverID != id {
		t.Errorf("unexpected trip: %+v", got)
	}
}

func TestDriverAccept_UnknownTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postJSON(t, "/driver/trips/TR-99/accept", ClaimRequest{DriverID: "DR-1"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestDriverAccept_AlreadyClaimed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	trip := createTrip(t, f)

	first := f.postJSON(t, "/driver/trips/"+trip.ID+"/accept", ClaimRequest{DriverID: "DR-1"})
	if first.Code != http.StatusOK {
		t.Fatalf("first claim failed: %d", first.Code)
	}

	second := f.postJSON(t, "/driver/trips/"+trip.ID+"/accept", ClaimRequest{DriverID: "DR-2"})
	if second.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for losing claim, got %d: %s", second.Code, second.Body.String())
	}
}

func TestDriverDecline_LeavesTripPending(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	trip := createTrip(t, f)

	w := f.postJSON(t, "/driver/trips/"+trip.ID+"/decline", gin.H{"driverId": "DR-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got, err := f.trips.Get(context.Background(), trip.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.TripStatusPending || got.DriverID != "" {
		t.Errorf("decline mutated trip: %+v", got)
	}
}

func TestDriverUpdateStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	trip := createTrip(t, f)

	w := f.postJSON(t, "/driver/trips/"+trip.ID+"/update", UpdateStatusRequest{Status: "pickedup"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got domain.Trip
	decodeJSON(t, w, &got)
	if got.Status != domain.TripStatusPickedUp {
		t.Errorf("unexpected status: %s", got.Status)
	}
}

func TestDriverUpdateStatus_Invalid(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	trip := createTrip(t, f)

	for _, status := range []string{"accepted", "pending", "flying"} {
		w := f.postJSON(t, "/driver/trips/"+trip.ID+"/update", UpdateStatusRequest{Status: status})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status %q: expected 400, got %d", status, w.Code)
		}
	}
}

func TestDriverUpdateStatus_UnknownTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.postJSON(t, "/driver/trips/TR-99/update", UpdateStatusRequest{Status: "completed"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAdminReloadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "locations.csv")
	csv := "zone_id,town,zone_name\n1,Mthatha,Savoy\n2,Libode,Main Street\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, false, path)
	w := f.postJSON(t, "/admin/reload-csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		OK        bool `json:"ok"`
		Locations int  `json:"locations"`
	}
	decodeJSON(t, w, &resp)
	if !resp.OK || resp.Locations != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if f.catalog.Count() != 2 {
		t.Errorf("catalog not replaced, count %d", f.catalog.Count())
	}
}

func TestAdminReloadCSV_MissingFile(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, filepath.Join(t.TempDir(), "absent.csv"))
	w := f.postJSON(t, "/admin/reload-csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		OK        bool `json:"ok"`
		Locations int  `json:"locations"`
	}
	decodeJSON(t, w, &resp)
	if resp.OK || resp.Locations != 0 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if f.catalog.Count() != 0 {
		t.Errorf("catalog should be emptied, count %d", f.catalog.Count())
	}
}

func TestAdminTrips_ListsClaimedAndUnclaimed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	first := createTrip(t, f)
	second := createTrip(t, f)

	w := f.postJSON(t, "/driver/trips/"+first.ID+"/accept", ClaimRequest{DriverID: "DR-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("claim failed: %d", w.Code)
	}

	w = f.get(t, "/admin/trips")
	var trips []domain.Trip
	decodeJSON(t, w, &trips)
	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}
	if trips[0].ID != first.ID || trips[1].ID != second.ID {
		t.Errorf("creation order lost: %s, %s", trips[0].ID, trips[1].ID)
	}
	if trips[0].Status != domain.TripStatusAccepted || trips[1].Status != domain.TripStatusPending {
		t.Errorf("unexpected statuses: %s, %s", trips[0].Status, trips[1].Status)
	}
}

func TestAdminDrivers_EmptyIsArray(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.get(t, "/admin/drivers")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}
}

func TestRootLiveness(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false, "")
	w := f.get(t, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "QuickRide") {
		t.Errorf("unexpected liveness reply: %d %q", w.Code, w.Body.String())
	}
}
