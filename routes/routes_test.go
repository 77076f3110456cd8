package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"food-share-api/authz"
	"food-share-api/config"
	"food-share-api/handlers"
	"food-share-api/middleware"
	"food-share-api/models"
	"food-share-api/services"
	"food-share-api/session"
	"food-share-api/statemachine"
	"food-share-api/store"
	"food-share-api/uploads"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminPhone    = "9000000000"
	adminPassword = "admin-secret"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type captureCourier struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (c *captureCourier) DeliverTemporaryPassword(_ context.Context, user models.User, temp string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent[user.Phone] = temp
	return nil
}

func (c *captureCourier) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *captureCourier) last(phone string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[phone]
}

type testApp struct {
	router  *gin.Engine
	courier *captureCourier
}

func newTestApp(t *testing.T, variant statemachine.Variant) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "routes.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := store.NewUserStore(db)
	courier := &captureCourier{sent: map[string]string{}}
	machine, err := statemachine.New(variant)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	identity := services.NewIdentityService(users, services.NewBcryptHasher(bcrypt.MinCost), courier, logger,
		services.WithRegistrationRoles(machine.Roles()))
	if _, err := identity.SeedAdmin(ctx, adminPhone, adminPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	lifecycle := services.NewLifecycleService(store.NewPostStore(db), users, machine, logger)

	codec, err := session.NewTokenCodec([]byte("routes-test-secret"))
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	sessions := session.NewManager(session.NewRedisStore(rdb, ""), codec, time.Hour)

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	saver, err := uploads.NewSaver(uploadDir, 1<<20)
	if err != nil {
		t.Fatalf("saver: %v", err)
	}
	authorizer, err := authz.NewAuthorizer(ctx)
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}

	h := handlers.New(handlers.Deps{
		Identity:  identity,
		Lifecycle: lifecycle,
		Sessions:  sessions,
		Uploads:   saver,
		Limiter:   middleware.NewAttemptLimiter(rdb, "", 5, time.Minute),
		Logger:    logger,
	})
	router := NewRouter(Options{
		Handler:    h,
		Sessions:   sessions,
		Authorizer: authorizer,
		Machine:    machine,
		UploadDir:  uploadDir,
		Logger:     logger,
	})
	return &testApp{router: router, courier: courier}
}

// doJSON sends an API request; token is sent as a Bearer header when set.
func (a *testApp) doJSON(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return w, out
}

// doForm sends a browser form post, optionally carrying the session cookie.
func (a *testApp) doForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T, name, phone, role, password string) {
	t.Helper()
	w, body := a.doJSON(t, http.MethodPost, "/register", "", gin.H{
		"name": name, "phone": phone, "role": role, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", name, w.Code, body)
	}
}

func (a *testApp) login(t *testing.T, phone, password string) string {
	t.Helper()
	w, body := a.doJSON(t, http.MethodPost, "/login", "", gin.H{"phone": phone, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%v)", phone, w.Code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", phone, body)
	}
	return token
}

func (a *testApp) createPost(t *testing.T, token string) uint {
	t.Helper()
	w, body := a.doJSON(t, http.MethodPost, "/add_food", token, gin.H{
		"food_name": "Rice", "quantity": "5kg", "location": "Ward 3",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add_food: expected 201, got %d (%v)", w.Code, body)
	}
	post := body["post"].(map[string]interface{})
	return uint(post["id"].(float64))
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == handlers.SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestAshaListsFoodThroughBrowserForms(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")

	w := app.doForm(t, "/login", url.Values{"phone": {"5551111"}, "password": {"pw1"}}, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/donor" {
		t.Fatalf("expected 303 to /donor, got %d %q", w.Code, w.Header().Get("Location"))
	}
	cookie := sessionCookie(t, w)
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("food_name", "Rice")
	_ = mw.WriteField("quantity", "5kg")
	_ = mw.WriteField("location", "Ward 3")
	_ = mw.WriteField("price", "40")
	part, err := mw.CreateFormFile("image", "../../etc/rice.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(pngImage)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/add_food", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/donor" {
		t.Fatalf("expected 303 to /donor after add_food, got %d: %s", rec.Code, rec.Body.String())
	}

	dash := app.get(t, "/donor", cookie)
	if dash.Code != http.StatusOK {
		t.Fatalf("donor dashboard: expected 200, got %d", dash.Code)
	}
	var body struct {
		Count int               `json:"count"`
		Posts []models.FoodPost `json:"posts"`
	}
	if err := json.Unmarshal(dash.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if body.Count != 1 || body.Posts[0].Status != models.StatusPending {
		t.Fatalf("expected one Pending post, got %+v", body)
	}
	post := body.Posts[0]
	if post.FoodName != "Rice" || post.Price == nil || *post.Price != 40 {
		t.Fatalf("unexpected post %+v", post)
	}
	if !strings.HasSuffix(post.Image, ".png") || strings.Contains(post.Image, "..") {
		t.Fatalf("expected a generated .png name, got %q", post.Image)
	}

	img := app.get(t, "/uploads/"+post.Image, nil)
	if img.Code != http.StatusOK || !bytes.Equal(img.Body.Bytes(), pngImage) {
		t.Fatalf("uploaded image not served: %d", img.Code)
	}
}

func TestAcceptTwiceIsRejected(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")
	app.register(t, "Vik", "5552222", "volunteer", "pw2")
	donor := app.login(t, "5551111", "pw1")
	volunteer := app.login(t, "5552222", "pw2")

	id := app.createPost(t, donor)
	path := fmt.Sprintf("/accept/%d", id)

	w, body := app.doJSON(t, http.MethodGet, path, volunteer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first accept: expected 200, got %d (%v)", w.Code, body)
	}
	post := body["post"].(map[string]interface{})
	if post["status"] != string(models.StatusCollected) {
		t.Fatalf("expected Collected, got %v", post["status"])
	}

	w, body = app.doJSON(t, http.MethodPost, path, volunteer, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second accept: expected 409, got %d (%v)", w.Code, body)
	}
	if body["current_status"] != string(models.StatusCollected) {
		t.Fatalf("expected current_status Collected, got %v", body["current_status"])
	}

	w, _ = app.doJSON(t, http.MethodPost, "/accept/999", volunteer, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown post: expected 404, got %d", w.Code)
	}
	w, _ = app.doJSON(t, http.MethodPost, "/accept/abc", volunteer, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", w.Code)
	}
}

func TestReceiverBooksCollectedFood(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")
	app.register(t, "Vik", "5552222", "volunteer", "pw2")
	app.register(t, "Ria", "5553333", "receiver", "pw3")
	donor := app.login(t, "5551111", "pw1")
	volunteer := app.login(t, "5552222", "pw2")
	receiver := app.login(t, "5553333", "pw3")

	id := app.createPost(t, donor)
	book := fmt.Sprintf("/book/%d", id)

	if w, _ := app.doJSON(t, http.MethodPost, book, receiver, nil); w.Code != http.StatusConflict {
		t.Fatalf("booking a Pending post: expected 409, got %d", w.Code)
	}
	if w, _ := app.doJSON(t, http.MethodPost, fmt.Sprintf("/accept/%d", id), volunteer, nil); w.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d", w.Code)
	}

	w, body := app.doJSON(t, http.MethodGet, "/receiver", receiver, nil)
	if w.Code != http.StatusOK || body["count"].(float64) != 1 {
		t.Fatalf("receiver dashboard: %d %v", w.Code, body)
	}

	w, body = app.doJSON(t, http.MethodPost, book, receiver, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("book: expected 200, got %d (%v)", w.Code, body)
	}
	post := body["post"].(map[string]interface{})
	if post["status"] != string(models.StatusBooked) || post["receiver_id"] == nil {
		t.Fatalf("expected Booked with receiver, got %v", post)
	}

	w, body = app.doJSON(t, http.MethodGet, fmt.Sprintf("/posts/%d/history", id), donor, nil)
	if w.Code != http.StatusOK || body["count"].(float64) != 3 {
		t.Fatalf("history: expected 3 entries, got %d %v", w.Code, body)
	}
}

func TestWrongPasswordLeavesSessionUnchanged(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")

	w := app.doForm(t, "/login", url.Values{"phone": {"5551111"}, "password": {"pw1"}}, nil)
	cookie := sessionCookie(t, w)

	w = app.doForm(t, "/login", url.Values{"phone": {"5551111"}, "password": {"wrong"}}, cookie)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == handlers.SessionCookie {
			t.Fatalf("failed login must not touch the session cookie, got %+v", c)
		}
	}

	if dash := app.get(t, "/donor", cookie); dash.Code != http.StatusOK {
		t.Fatalf("existing session should still work, got %d", dash.Code)
	}
}

func TestLoginIsThrottledAfterRepeatedFailures(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")

	for i := 0; i < 5; i++ {
		if w, _ := app.doJSON(t, http.MethodPost, "/login", "", gin.H{"phone": "5551111", "password": "nope"}); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, w.Code)
		}
	}
	w, _ := app.doJSON(t, http.MethodPost, "/login", "", gin.H{"phone": "5551111", "password": "pw1"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once throttled, got %d", w.Code)
	}
}

func TestWrongRoleIsSentToLogin(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Vik", "5552222", "volunteer", "pw2")
	w := app.doForm(t, "/login", url.Values{"phone": {"5552222"}, "password": {"pw2"}}, nil)
	cookie := sessionCookie(t, w)

	for _, path := range []string{"/donor", "/admin", "/receiver"} {
		res := app.get(t, path, cookie)
		if res.Code != http.StatusSeeOther || res.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected 303 to /login, got %d %q", path, res.Code, res.Header().Get("Location"))
		}
	}
	anon := app.get(t, "/volunteer", nil)
	if anon.Code != http.StatusSeeOther {
		t.Fatalf("anonymous: expected 303, got %d", anon.Code)
	}
}

func TestRecoverNeverLeaksTemporaryPassword(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")

	known, knownBody := app.doJSON(t, http.MethodPost, "/recover", "", gin.H{"phone": "5551111"})
	unknown, unknownBody := app.doJSON(t, http.MethodPost, "/recover", "", gin.H{"phone": "5559999"})
	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d / %d", known.Code, unknown.Code)
	}
	if knownBody["message"] != unknownBody["message"] {
		t.Fatalf("responses differ: %v vs %v", knownBody, unknownBody)
	}

	temp := app.courier.last("5551111")
	if temp == "" {
		t.Fatal("expected courier delivery")
	}
	if strings.Contains(known.Body.String(), temp) {
		t.Fatal("response leaked the temporary password")
	}
	app.login(t, "5551111", temp)
}

func TestRecoverAnswersAlikeWhenDeliveryFails(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")
	app.courier.fail(errors.New("broker unreachable"))

	known, _ := app.doJSON(t, http.MethodPost, "/recover", "", gin.H{"phone": "5551111"})
	unknown, _ := app.doJSON(t, http.MethodPost, "/recover", "", gin.H{"phone": "5559999"})
	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d / %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Fatalf("responses differ: %s vs %s", known.Body.String(), unknown.Body.String())
	}
	// The old password still works because nothing was delivered.
	app.login(t, "5551111", "pw1")
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")
	token := app.login(t, "5551111", "pw1")

	if w, _ := app.doJSON(t, http.MethodPost, "/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if w, _ := app.doJSON(t, http.MethodGet, "/donor", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", w.Code)
	}
	if w, _ := app.doJSON(t, http.MethodPost, "/logout", "", nil); w.Code != http.StatusOK {
		t.Fatalf("anonymous logout: expected 200, got %d", w.Code)
	}
}

func TestAdminDashboardCountsAddUp(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	app.register(t, "Asha", "5551111", "donor", "pw1")
	app.register(t, "Vik", "5552222", "volunteer", "pw2")
	donor := app.login(t, "5551111", "pw1")
	volunteer := app.login(t, "5552222", "pw2")

	first := app.createPost(t, donor)
	app.createPost(t, donor)
	app.doJSON(t, http.MethodPost, fmt.Sprintf("/accept/%d", first), volunteer, nil)

	admin := app.login(t, adminPhone, adminPassword)
	w, body := app.doJSON(t, http.MethodGet, "/admin", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", w.Code)
	}
	if body["total_users"].(float64) != 2 {
		t.Fatalf("expected 2 users, got %v", body["total_users"])
	}
	byStatus := body["posts_by_status"].(map[string]interface{})
	var sum float64
	for _, n := range byStatus {
		sum += n.(float64)
	}
	if body["total_posts"].(float64) != 2 || sum != 2 {
		t.Fatalf("expected total 2 == sum %v, got %v", sum, body["total_posts"])
	}
	if byStatus["Booked"].(float64) != 0 {
		t.Fatalf("expected Booked reported as 0, got %v", byStatus["Booked"])
	}

	if w, _ := app.doJSON(t, http.MethodGet, "/admin", donor, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("donor on /admin: expected 401, got %d", w.Code)
	}
}

func TestPickupVariantRoutes(t *testing.T) {
	app := newTestApp(t, statemachine.VariantPickup)
	app.register(t, "Asha", "5551111", "donor", "pw1")
	app.register(t, "Vik", "5552222", "volunteer", "pw2")
	app.register(t, "Mo", "5554444", "volunteer", "pw4")
	donor := app.login(t, "5551111", "pw1")
	vik := app.login(t, "5552222", "pw2")
	mo := app.login(t, "5554444", "pw4")

	id := app.createPost(t, donor)
	w, body := app.doJSON(t, http.MethodPost, fmt.Sprintf("/accept/%d", id), vik, nil)
	if w.Code != http.StatusOK || body["post"].(map[string]interface{})["status"] != string(models.StatusPicked) {
		t.Fatalf("accept: %d %v", w.Code, body)
	}

	if w, _ := app.doJSON(t, http.MethodPost, fmt.Sprintf("/collected/%d", id), mo, nil); w.Code != http.StatusForbidden {
		t.Fatalf("other volunteer: expected 403, got %d", w.Code)
	}
	w, body = app.doJSON(t, http.MethodPost, fmt.Sprintf("/collected/%d", id), vik, nil)
	if w.Code != http.StatusOK || body["post"].(map[string]interface{})["status"] != string(models.StatusCollected) {
		t.Fatalf("collected: %d %v", w.Code, body)
	}

	for _, path := range []string{fmt.Sprintf("/book/%d", id), "/receiver"} {
		if w, _ := app.doJSON(t, http.MethodGet, path, vik, nil); w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 in pickup variant, got %d", path, w.Code)
		}
	}
}

func TestPickupVariantRejectsReceiverSignup(t *testing.T) {
	app := newTestApp(t, statemachine.VariantPickup)

	w, body := app.doJSON(t, http.MethodGet, "/register", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register form: expected 200, got %d", w.Code)
	}
	roles, _ := body["roles"].([]interface{})
	if len(roles) != 2 || roles[0] != "donor" || roles[1] != "volunteer" {
		t.Fatalf("pickup variant should offer donor and volunteer, got %v", body["roles"])
	}

	w, body = app.doJSON(t, http.MethodPost, "/register", "", gin.H{
		"name": "Mina", "phone": "5553333", "role": "receiver", "password": "pw3",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("receiver signup: expected 400, got %d (%v)", w.Code, body)
	}
}

func TestReceiverVariantHasNoCollectedRoute(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)
	if w, _ := app.doJSON(t, http.MethodPost, "/collected/1", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t, statemachine.VariantReceiver)

	if w := app.get(t, "/", nil); w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("home: expected redirect to /login, got %d", w.Code)
	}
	if w := app.get(t, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	w, body := app.doJSON(t, http.MethodGet, "/state-machine", "", nil)
	if w.Code != http.StatusOK || body["variant"] != "receiver" {
		t.Fatalf("state-machine: %d %v", w.Code, body)
	}
	if w := app.get(t, "/metrics", nil); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "food_share_http_requests_total") {
		t.Fatalf("metrics: expected exposition, got %d", w.Code)
	}
}
