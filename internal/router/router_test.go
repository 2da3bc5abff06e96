package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	mem "vet-booking/internal/adapters/storage/memory"
	"vet-booking/internal/config"
	"vet-booking/internal/domain/professionals"
	"vet-booking/internal/domain/services"
	"vet-booking/internal/router"
)

const (
	adminUser = "admin"
	adminPass = "s3cret-pass"
	bookDate  = "2024-06-10"
)

func testConfig() config.Config {
	return config.Config{
		AppName:            "vet-booking-test",
		Timezone:           "UTC",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		AdminUsername:      adminUser,
		AdminPassword:      adminPass,
		BcryptCost:         4,
		LoginRateLimit:     100,
		CORSAllowedOrigins: []string{"*"},
	}
}

// fixedNow deja 2024-06-10 en el futuro.
func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newServer(t *testing.T, store *mem.Store) *httptest.Server {
	t.Helper()

	h, err := router.NewRouter(router.Options{
		Config: testConfig(),
		Store:  store,
		Now:    fixedNow,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_BookingReducesAvailability(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	serviceID := createService(t, ts.URL, token, "Consulta general", 30)
	createProfessional(t, ts.URL, token, serviceID, "Ana")

	// 1) Antes de reservar: los 12 slots del catálogo denso
	if slots := availableSlots(t, ts.URL, serviceID); len(slots) != 12 {
		t.Fatalf("expected 12 free slots, got %v", slots)
	}

	// 2) Cliente reserva 09:00
	appointmentID := book(t, ts.URL, serviceID, "12.345.678-5", "09:00", http.StatusCreated)

	// 3) 09:00 desaparece, 09:30 sigue
	slots := availableSlots(t, ts.URL, serviceID)
	if contains(slots, "09:00") || !contains(slots, "09:30") || len(slots) != 11 {
		t.Fatalf("unexpected availability after booking: %v", slots)
	}

	// 4) El mismo slot ya no se puede reservar
	book(t, ts.URL, serviceID, "11.111.111-1", "09:00", http.StatusConflict)

	// 5) Vista de ocupadas
	{
		st, body := doReq(t, ts.URL, "GET", "/availability/occupied?date="+bookDate+"&serviceId="+serviceID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 occupied, got %d body=%s", st, string(body))
		}
		var resp struct {
			Occupied []struct {
				Time  string `json:"time"`
				Count int    `json:"count"`
			} `json:"occupied"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Occupied) != 1 || resp.Occupied[0].Time != "09:00" || resp.Occupied[0].Count != 1 {
			t.Fatalf("unexpected occupied view %s", string(body))
		}
	}

	// 6) Admin ve la cita con datos del cliente
	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/"+appointmentID, token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get appointment, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status      string `json:"status"`
			ClientTaxID string `json:"clientTaxId"`
			Time        string `json:"time"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "pending" || resp.ClientTaxID != "12345678-5" || resp.Time != "09:00" {
			t.Fatalf("unexpected appointment %s", string(body))
		}
	}

	// 7) Cancelar libera el slot
	{
		st, body := doReq(t, ts.URL, "DELETE", "/appointments/"+appointmentID, token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, string(body))
		}
	}
	if slots := availableSlots(t, ts.URL, serviceID); !contains(slots, "09:00") {
		t.Fatalf("09:00 should be free after cancel, got %v", slots)
	}
}

func TestHTTP_StatusTransitions(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	serviceID := createService(t, ts.URL, token, "Peluquería", 120)
	createProfessional(t, ts.URL, token, serviceID, "Luis")
	id := book(t, ts.URL, serviceID, "12345678-5", "11:00", http.StatusCreated)

	steps := []struct {
		status string
		want   int
	}{
		{"confirmed", http.StatusOK},
		{"confirmed", http.StatusOK}, // no-op
		{"pending", http.StatusConflict},
		{"cancelled", http.StatusOK},
		{"confirmed", http.StatusConflict},
		{"finished", http.StatusBadRequest},
	}
	for _, s := range steps {
		st, body := doReq(t, ts.URL, "PUT", "/appointments/"+id, token, map[string]any{"status": s.status})
		if st != s.want {
			t.Fatalf("status %q: expected %d, got %d body=%s", s.status, s.want, st, string(body))
		}
	}
}

func TestHTTP_ClientCancelRequiresTaxID(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	serviceID := createService(t, ts.URL, token, "Consulta", 30)
	createProfessional(t, ts.URL, token, serviceID, "Ana")
	id := book(t, ts.URL, serviceID, "12345678-5", "10:00", http.StatusCreated)

	if st, _ := doReq(t, ts.URL, "POST", "/appointments/"+id+"/cancel", "", map[string]any{"taxId": "99999999-9"}); st != http.StatusNotFound {
		t.Fatalf("expected 404 with another tax id, got %d", st)
	}
	if st, body := doReq(t, ts.URL, "POST", "/appointments/"+id+"/cancel", "", map[string]any{"taxId": "12.345.678-5"}); st != http.StatusOK {
		t.Fatalf("expected 200 client cancel, got %d body=%s", st, string(body))
	}
}

func TestHTTP_ConcurrentBookingSingleCapacity(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	serviceID := createService(t, ts.URL, token, "Consulta", 30)
	createProfessional(t, ts.URL, token, serviceID, "Ana")

	var (
		wg       sync.WaitGroup
		statuses = make([]int, 2)
	)
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			taxID := []string{"11111111-1", "22222222-2"}[i]
			statuses[i], _ = doReq(t, ts.URL, "POST", "/clients", "", bookingPayload(serviceID, taxID, "09:00"))
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, st := range statuses {
		switch st {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	if created != 1 || conflicts != 1 {
		t.Fatalf("expected one 201 and one 409, got %v", statuses)
	}
}

func TestHTTP_ClientMaintenance(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	serviceID := createService(t, ts.URL, token, "Consulta general", 30)
	createProfessional(t, ts.URL, token, serviceID, "Ana")
	createProfessional(t, ts.URL, token, serviceID, "Bruno")

	first := book(t, ts.URL, serviceID, "12.345.678-5", "09:00", http.StatusCreated)

	// Una segunda reserva pública con el mismo RUT no reescribe la ficha.
	other := bookingPayload(serviceID, "12.345.678-5", "09:30")
	other["firstName"] = "Mallory"
	other["petName"] = "Rex"
	if st, body := doReq(t, ts.URL, "POST", "/clients", "", other); st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/appointments/"+first, token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", st, string(body))
		}
		var resp struct {
			ClientName string `json:"clientName"`
			PetName    string `json:"petName"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ClientName != "Camila Pérez" || resp.PetName != "Toby" {
			t.Fatalf("client record was rewritten by a public booking: %s", string(body))
		}
	}

	st, body := doReq(t, ts.URL, "GET", "/clients?taxId=12345678-5", token, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 client lookup, got %d body=%s", st, string(body))
	}
	var found []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &found); err != nil || len(found) != 1 {
		t.Fatalf("unexpected client lookup %s", string(body))
	}
	clientID := found[0].ID

	update := map[string]any{
		"firstName":  "Camila",
		"lastName":   "Pérez",
		"taxId":      "12.345.678-5",
		"phone":      "+56999998888",
		"petName":    "Toby",
		"petSpecies": "dog",
	}
	if st, _ := doReq(t, ts.URL, "PUT", "/clients/"+clientID, "", update); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", st)
	}
	st, body = doReq(t, ts.URL, "PUT", "/clients/"+clientID, token, update)
	if st != http.StatusOK {
		t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
	}
	var updated struct {
		Phone string `json:"phone"`
	}
	_ = json.Unmarshal(body, &updated)
	if updated.Phone != "+56999998888" {
		t.Fatalf("phone not updated: %s", string(body))
	}

	if st, body := doReq(t, ts.URL, "DELETE", "/clients/"+clientID, token, nil); st != http.StatusConflict {
		t.Fatalf("expected 409 deleting a client with appointments, got %d body=%s", st, string(body))
	}
}

func TestHTTP_AvailabilityEdgeCases(t *testing.T) {
	store := mem.NewStore()
	ts := newServer(t, store)
	token := login(t, ts.URL)

	// Sin profesionales: capacidad 0 => lista vacía (no el catálogo completo)
	emptyID := createService(t, ts.URL, token, "Sin personal", 30)
	{
		st, body := doReq(t, ts.URL, "GET", "/availability?date="+bookDate+"&serviceId="+emptyID, "", nil)
		if st != http.StatusOK || !bytes.Contains(body, []byte(`"availableSlots":[]`)) {
			t.Fatalf("expected empty slots, got %d body=%s", st, string(body))
		}
	}

	// Duración sin catálogo cargada directo en el store (la API la rechaza)
	oddID := uuid.NewString()
	ctx := context.Background()
	if err := mem.NewServicesRepo(store).Create(ctx, services.Service{ID: oddID, Name: "Legacy", DurationMinutes: 45}); err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if err := mem.NewProfessionalsRepo(store).Create(ctx, professionals.Professional{ID: uuid.NewString(), FirstName: "Eva", ServiceID: oddID, Active: true}); err != nil {
		t.Fatalf("seed professional: %v", err)
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/availability?date="+bookDate+"&serviceId="+oddID, "", nil)
		if st != http.StatusInternalServerError || !bytes.Contains(body, []byte("service misconfigured")) {
			t.Fatalf("expected 500 misconfigured, got %d body=%s", st, string(body))
		}
	}

	// Fecha malformada => 400
	if st, _ := doReq(t, ts.URL, "GET", "/availability?date=2024-13-40&serviceId="+emptyID, "", nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", st)
	}

	// Servicio inexistente => 404
	if st, _ := doReq(t, ts.URL, "GET", "/availability?date="+bookDate+"&serviceId="+uuid.NewString(), "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown service, got %d", st)
	}

	// La API no acepta duraciones sin catálogo
	if st, _ := doReq(t, ts.URL, "POST", "/services", token, map[string]any{"name": "X", "durationMinutes": 45, "price": "1000"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 creating a 45 minute service, got %d", st)
	}
}

func TestHTTP_BookingValidation(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	serviceID := createService(t, ts.URL, token, "Consulta", 30)
	createProfessional(t, ts.URL, token, serviceID, "Ana")

	// fuera de catálogo
	book(t, ts.URL, serviceID, "12345678-5", "09:15", http.StatusBadRequest)

	// en el pasado respecto del reloj fijo
	payload := bookingPayload(serviceID, "12345678-5", "09:00")
	payload["date"] = "2024-05-20"
	if st, _ := doReq(t, ts.URL, "POST", "/clients", "", payload); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for past date, got %d", st)
	}

	// campo requerido ausente
	delete(payload, "petName")
	payload["date"] = bookDate
	if st, _ := doReq(t, ts.URL, "POST", "/clients", "", payload); st != http.StatusBadRequest {
		t.Fatalf("expected 400 without pet name, got %d", st)
	}
}

func TestHTTP_AdminRoutesRequireToken(t *testing.T) {
	ts := newServer(t, nil)

	for _, path := range []string{"/appointments", "/clients", "/contacts", "/professionals/all", "/admin/me"} {
		if st, _ := doReq(t, ts.URL, "GET", path, "", nil); st != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: expected 401, got %d", path, st)
		}
		if st, _ := doReq(t, ts.URL, "GET", path, "not-a-jwt", nil); st != http.StatusUnauthorized {
			t.Fatalf("GET %s with bad token: expected 401, got %d", path, st)
		}
	}

	if st, _ := doReq(t, ts.URL, "POST", "/services", "", map[string]any{"name": "X", "durationMinutes": 30}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 creating service anonymously, got %d", st)
	}

	// credenciales malas
	if st, _ := doReq(t, ts.URL, "POST", "/admin/login", "", map[string]any{"username": adminUser, "password": "wrong-pass"}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong password, got %d", st)
	}

	token := login(t, ts.URL)
	if st, body := doReq(t, ts.URL, "GET", "/admin/me", token, nil); st != http.StatusOK {
		t.Fatalf("expected 200 /admin/me, got %d body=%s", st, string(body))
	}
}

func TestHTTP_PublicContentAndHealth(t *testing.T) {
	ts := newServer(t, nil)
	token := login(t, ts.URL)

	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}

	if st, body := doReq(t, ts.URL, "POST", "/contacts", "", map[string]any{
		"name":    "Pedro",
		"email":   "pedro@example.com",
		"message": "¿Atienden exóticos?",
	}); st != http.StatusCreated {
		t.Fatalf("expected 201 contact, got %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "GET", "/contacts", token, nil); st != http.StatusOK || !bytes.Contains(body, []byte("Pedro")) {
		t.Fatalf("expected contact listed, got %d body=%s", st, string(body))
	}

	if st, body := doReq(t, ts.URL, "POST", "/posts", token, map[string]any{
		"title":   "Vacunas de invierno",
		"content": "Calendario de vacunación.",
	}); st != http.StatusCreated {
		t.Fatalf("expected 201 post, got %d body=%s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "GET", "/posts", "", nil); st != http.StatusOK || !bytes.Contains(body, []byte("Vacunas de invierno")) {
		t.Fatalf("expected post listed, got %d body=%s", st, string(body))
	}
}

// -------------------------
// helpers
// -------------------------

func login(t *testing.T, baseURL string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/admin/login", "", map[string]any{
		"username": adminUser,
		"password": adminPass,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" {
		t.Fatalf("login: missing token body=%s", string(body))
	}
	return resp.Token
}

func createService(t *testing.T, baseURL, token, name string, duration int) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/services", token, map[string]any{
		"name":            name,
		"durationMinutes": duration,
		"price":           "15000",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create service, got %d body=%s", st, string(body))
	}
	return idFrom(t, body, "id")
}

func createProfessional(t *testing.T, baseURL, token, serviceID, name string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/professionals", token, map[string]any{
		"firstName": name,
		"lastName":  "Soto",
		"serviceId": serviceID,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create professional, got %d body=%s", st, string(body))
	}
	return idFrom(t, body, "id")
}

func bookingPayload(serviceID, taxID, hhmm string) map[string]any {
	return map[string]any{
		"firstName":  "Camila",
		"lastName":   "Pérez",
		"taxId":      taxID,
		"phone":      "+56912345678",
		"petName":    "Toby",
		"petSpecies": "dog",
		"serviceId":  serviceID,
		"date":       bookDate,
		"time":       hhmm,
	}
}

func book(t *testing.T, baseURL, serviceID, taxID, hhmm string, want int) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/clients", "", bookingPayload(serviceID, taxID, hhmm))
	if st != want {
		t.Fatalf("book %s: expected %d, got %d body=%s", hhmm, want, st, string(body))
	}
	if want != http.StatusCreated {
		return ""
	}
	return idFrom(t, body, "appointmentId")
}

func availableSlots(t *testing.T, baseURL, serviceID string) []string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/availability?date="+bookDate+"&serviceId="+serviceID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 availability, got %d body=%s", st, string(body))
	}
	var resp struct {
		AvailableSlots []string `json:"availableSlots"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode availability: %v body=%s", err, string(body))
	}
	return resp.AvailableSlots
}

func idFrom(t *testing.T, body []byte, field string) string {
	t.Helper()

	var m map[string]any
	_ = json.Unmarshal(body, &m)
	id, _ := m[field].(string)
	if id == "" {
		t.Fatalf("missing %s in body=%s", field, string(body))
	}
	return id
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
