package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"band-backend/controllers"
	"band-backend/services"
	"band-backend/testsupport"
)

const (
	ownerAddr = "band@example.com"
	adminAddr = "admin@example.com"
)

type testServer struct {
	engine       *gin.Engine
	auth         *services.AuthService
	members      *testsupport.MemberStore
	performances *testsupport.PerformanceStore
	sender       *testsupport.RecordingSender
	uploadDir    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newLimitedTestServer(t, 0)
}

func newLimitedTestServer(t *testing.T, maxBody int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		members:      testsupport.NewMemberStore(),
		performances: testsupport.NewPerformanceStore(),
		sender:       testsupport.NewRecordingSender(),
		uploadDir:    t.TempDir(),
	}
	admins := testsupport.NewAdminStore()
	ts.auth = services.NewAuthService(admins, "router-secret", time.Hour, services.WithBcryptCost(bcrypt.MinCost))
	if _, err := ts.auth.EnsureDefaultAdmin(t.Context(), "admin", "admin123", adminAddr); err != nil {
		t.Fatal(err)
	}

	notifications := services.NewNotificationService(ts.sender, "noreply@example.com", ownerAddr, "Knights Khayal")
	resets := services.NewPasswordResetService(admins, testsupport.NewResetTokenStore(), ts.auth, notifications, "https://band.example", time.Hour)
	images := services.NewImageStore(ts.uploadDir, "/uploads", 5<<20)

	ts.engine = SetupRouter(Options{
		CORSOrigins:     []string{"http://localhost:5173"},
		UploadDir:       ts.uploadDir,
		UploadURLPrefix: "/uploads",
		MaxBodyBytes:    maxBody,
	}, Controllers{
		Contact:      controllers.NewContactController(notifications),
		Auth:         controllers.NewAuthController(ts.auth, resets),
		Members:      controllers.NewMemberController(services.NewMemberService(ts.members, images)),
		Performances: controllers.NewPerformanceController(services.NewPerformanceService(ts.performances, images, time.UTC, time.Now)),
	}, ts.auth)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) doJSON(t *testing.T, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return ts.do(t, method, path, bytes.NewReader(raw), "application/json", token)
}

func (ts *testServer) doForm(t *testing.T, method, path string, fields map[string]string, token string, files ...testsupport.Upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType, err := testsupport.MultipartBody(fields, files...)
	if err != nil {
		t.Fatal(err)
	}
	return ts.do(t, method, path, body, contentType, token)
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	w := ts.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "admin123"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body)
	}
	var body struct{ Token string }
	decode(t, w, &body)
	return body.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct{ Message string }
	decode(t, w, &body)
	return body.Message
}

func memberFields(name string) map[string]string {
	return map[string]string{"name": name, "instrument": "Tabla", "bio": "Plays tabla."}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil, "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/admin/members", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/admin/members", nil, "", "")
	if w.Code != http.StatusUnauthorized || message(t, w) != "Access token required" {
		t.Fatalf("no token: %d %s", w.Code, w.Body)
	}

	w = ts.do(t, http.MethodGet, "/api/admin/members", nil, "", "not-a-jwt")
	if w.Code != http.StatusForbidden {
		t.Fatalf("bad token: %d %s", w.Code, w.Body)
	}

	w = ts.doForm(t, http.MethodPost, "/api/admin/members", memberFields("Ravi"), "", testsupport.JPEG(16))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("create without token: %d", w.Code)
	}
	entries, _ := os.ReadDir(ts.uploadDir)
	if len(entries) != 0 {
		t.Fatal("rejected request must not store an upload")
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.do(t, http.MethodGet, "/api/admin/me", nil, "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body)
	}
	var me struct {
		ID       uint
		Username string
	}
	decode(t, w, &me)
	if me.ID != 1 || me.Username != "admin" {
		t.Fatalf("me = %+v", me)
	}

	for _, payload := range []map[string]string{
		{"username": "admin", "password": "wrong"},
		{"username": "nobody", "password": "admin123"},
		{"username": "admin"},
	} {
		w := ts.doJSON(t, http.MethodPost, "/api/admin/login", payload, "")
		if w.Code != http.StatusBadRequest || message(t, w) != "Invalid credentials" {
			t.Errorf("login %v: %d %s", payload, w.Code, w.Body)
		}
	}
}

func TestMemberLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	fields := memberFields("Ravi")
	fields["order"] = "2"
	fields["isCaptain"] = "true"
	w := ts.doForm(t, http.MethodPost, "/api/admin/members", fields, token, testsupport.JPEG(64))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	var created struct {
		ID        uint `json:"_id"`
		Name      string
		Image     string
		IsCaptain bool
		Order     int
		Active    bool
	}
	decode(t, w, &created)
	if created.ID == 0 || !strings.HasPrefix(created.Image, "/uploads/") || !created.IsCaptain || created.Order != 2 || !created.Active {
		t.Fatalf("created = %+v", created)
	}

	if w := ts.do(t, http.MethodGet, created.Image, nil, "", ""); w.Code != http.StatusOK || w.Body.Len() != 64 {
		t.Fatalf("static upload: %d len=%d", w.Code, w.Body.Len())
	}

	w = ts.do(t, http.MethodGet, "/api/members", nil, "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"_id":1`) {
		t.Fatalf("public list: %d %s", w.Code, w.Body)
	}

	update := memberFields("Ravi K")
	update["active"] = "false"
	w = ts.doForm(t, http.MethodPut, "/api/admin/members/1", update, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body)
	}

	w = ts.do(t, http.MethodGet, "/api/members", nil, "", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("inactive member listed publicly: %s", w.Body)
	}
	w = ts.do(t, http.MethodGet, "/api/admin/members", nil, "", token)
	if !strings.Contains(w.Body.String(), `"name":"Ravi K"`) {
		t.Fatalf("admin list: %s", w.Body)
	}

	w = ts.do(t, http.MethodDelete, "/api/admin/members/1", nil, "", token)
	if w.Code != http.StatusOK || message(t, w) != "Member deleted" {
		t.Fatalf("delete: %d %s", w.Code, w.Body)
	}
	if _, err := os.Stat(filepath.Join(ts.uploadDir, filepath.Base(created.Image))); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("image should be removed with the member")
	}

	for _, path := range []string{"/api/admin/members/1", "/api/admin/members/abc"} {
		w = ts.do(t, http.MethodGet, path, nil, "", token)
		if w.Code != http.StatusNotFound || message(t, w) != "Member not found" {
			t.Errorf("GET %s: %d %s", path, w.Code, w.Body)
		}
	}
	w = ts.do(t, http.MethodDelete, "/api/admin/members/1", nil, "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", w.Code)
	}
}

func TestCreateMemberRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	gif := testsupport.Upload{Field: "image", Filename: "a.gif", ContentType: "image/gif", Data: []byte("GIF89a")}
	badFlag := memberFields("Ravi")
	badFlag["isCaptain"] = "maybe"

	cases := []struct {
		name   string
		fields map[string]string
		files  []testsupport.Upload
		want   string
	}{
		{"no image", memberFields("Ravi"), nil, "Image is required"},
		{"gif", memberFields("Ravi"), []testsupport.Upload{gif}, "Only JPEG, PNG and WebP images are allowed"},
		{"two images", memberFields("Ravi"), []testsupport.Upload{testsupport.JPEG(8), testsupport.JPEG(8)}, "Only one image can be uploaded"},
		{"bad flag", badFlag, []testsupport.Upload{testsupport.JPEG(8)}, "isCaptain must be true or false"},
		{"missing bio", map[string]string{"name": "Ravi", "instrument": "Tabla"}, []testsupport.Upload{testsupport.JPEG(8)}, "Name, instrument and bio are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.doForm(t, http.MethodPost, "/api/admin/members", tc.fields, token, tc.files...)
			if w.Code != http.StatusBadRequest || message(t, w) != tc.want {
				t.Fatalf("%d %s", w.Code, w.Body)
			}
		})
	}
	entries, _ := os.ReadDir(ts.uploadDir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads left %d files", len(entries))
	}
}

func TestAdminBodyLimit(t *testing.T) {
	ts := newLimitedTestServer(t, 4<<10)
	token := ts.login(t)

	w := ts.doForm(t, http.MethodPost, "/api/admin/members", memberFields("Ravi"), token, testsupport.JPEG(16<<10))
	if w.Code != http.StatusBadRequest || message(t, w) != "Request body too large" {
		t.Fatalf("oversized create: %d %s", w.Code, w.Body)
	}
	w = ts.doForm(t, http.MethodPost, "/api/admin/performances", map[string]string{"title": "Mehfil", "date": "2030-01-01", "venue": "Hall", "city": "Lahore"}, token, testsupport.JPEG(16<<10))
	if w.Code != http.StatusBadRequest || message(t, w) != "Request body too large" {
		t.Fatalf("oversized performance: %d %s", w.Code, w.Body)
	}
	entries, _ := os.ReadDir(ts.uploadDir)
	if len(entries) != 0 {
		t.Fatalf("oversized bodies left %d files", len(entries))
	}

	w = ts.doForm(t, http.MethodPost, "/api/admin/members", memberFields("Ravi"), token, testsupport.JPEG(64))
	if w.Code != http.StatusCreated {
		t.Fatalf("small create: %d %s", w.Code, w.Body)
	}
}

func TestPerformanceListings(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	for title, date := range map[string]string{"Old show": "2020-01-01", "Future show": "2999-01-01"} {
		w := ts.doForm(t, http.MethodPost, "/api/admin/performances", map[string]string{
			"title": title, "date": date, "venue": "Blue Note", "city": "Pune", "description": "Evening set",
		}, token, testsupport.JPEG(8))
		if w.Code != http.StatusCreated {
			t.Fatalf("create %s: %d %s", title, w.Code, w.Body)
		}
	}

	w := ts.do(t, http.MethodGet, "/api/performances", nil, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("public: %d", w.Code)
	}
	var listing struct {
		Upcoming []struct{ Title, TicketLink string }
		Previous []struct{ Title string }
	}
	decode(t, w, &listing)
	if len(listing.Upcoming) != 1 || listing.Upcoming[0].Title != "Future show" {
		t.Fatalf("upcoming = %+v", listing.Upcoming)
	}
	if len(listing.Previous) != 1 || listing.Previous[0].Title != "Old show" {
		t.Fatalf("previous = %+v", listing.Previous)
	}

	w = ts.doForm(t, http.MethodPost, "/api/admin/performances", map[string]string{
		"title": "Bad", "date": "someday", "venue": "v", "city": "c", "description": "d",
	}, token, testsupport.JPEG(8))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: %d %s", w.Code, w.Body)
	}

	w = ts.do(t, http.MethodDelete, "/api/admin/performances/1", nil, "", token)
	if w.Code != http.StatusOK || message(t, w) != "Performance deleted" {
		t.Fatalf("delete: %d %s", w.Code, w.Body)
	}
	w = ts.do(t, http.MethodGet, "/api/admin/performances/1", nil, "", token)
	if w.Code != http.StatusNotFound || message(t, w) != "Performance not found" {
		t.Fatalf("get deleted: %d %s", w.Code, w.Body)
	}
}

func TestSendEmail(t *testing.T) {
	valid := map[string]string{"name": "Asha", "email": "fan@example.com", "subject": "Hello", "message": "Hi there"}

	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.doJSON(t, http.MethodPost, "/api/send-email", valid, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%d %s", w.Code, w.Body)
		}
		var body struct {
			Success bool
			Message string
			Data    map[string]string
		}
		decode(t, w, &body)
		if !body.Success || body.Message != "Emails sent successfully" || body.Data["notification"] == "" || body.Data["confirmation"] == "" {
			t.Fatalf("body = %+v", body)
		}
	})

	t.Run("confirmation fails", func(t *testing.T) {
		ts := newTestServer(t)
		ts.sender.FailFor["fan@example.com"] = errors.New("bounced")
		w := ts.doJSON(t, http.MethodPost, "/api/send-email", valid, "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"warning"`) {
			t.Fatalf("%d %s", w.Code, w.Body)
		}
	})

	t.Run("notification fails", func(t *testing.T) {
		ts := newTestServer(t)
		ts.sender.FailFor[ownerAddr] = errors.New("provider down")
		w := ts.doJSON(t, http.MethodPost, "/api/send-email", valid, "")
		if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), `"success":false`) {
			t.Fatalf("%d %s", w.Code, w.Body)
		}
	})

	for name, tc := range map[string]struct {
		payload map[string]string
		want    string
	}{
		"missing field": {map[string]string{"name": "Asha", "email": "fan@example.com", "subject": "Hello"}, "Missing required fields"},
		"bad email":     {map[string]string{"name": "Asha", "email": "not-an-email", "subject": "Hello", "message": "Hi"}, "Invalid email address"},
	} {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t)
			w := ts.doJSON(t, http.MethodPost, "/api/send-email", tc.payload, "")
			var body struct {
				Success bool
				Error   string
			}
			decode(t, w, &body)
			if w.Code != http.StatusBadRequest || body.Success || body.Error != tc.want {
				t.Fatalf("%d %s", w.Code, w.Body)
			}
			if len(ts.sender.Sent) != 0 {
				t.Fatal("nothing should be sent")
			}
		})
	}
}

var resetLinkPattern = regexp.MustCompile(`/admin/reset-password/(\d+)/([0-9a-f]{64})`)

func TestPasswordResetFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.doJSON(t, http.MethodPost, "/api/admin/reset-password", map[string]string{"email": "stranger@example.com"}, "")
	unknownReply := w.Body.String()
	if w.Code != http.StatusOK || len(ts.sender.Sent) != 0 {
		t.Fatalf("unknown email: %d %s", w.Code, w.Body)
	}

	w = ts.doJSON(t, http.MethodPost, "/api/admin/reset-password", map[string]string{"email": adminAddr}, "")
	if w.Code != http.StatusOK || w.Body.String() != unknownReply {
		t.Fatalf("known email reply differs: %s vs %s", w.Body, unknownReply)
	}

	w = ts.doJSON(t, http.MethodPost, "/api/admin/reset-password", map[string]string{}, "")
	if w.Code != http.StatusBadRequest || message(t, w) != "Email is required" {
		t.Fatalf("missing email: %d %s", w.Code, w.Body)
	}

	mails := ts.sender.To(adminAddr)
	if len(mails) != 1 {
		t.Fatalf("reset mails = %d", len(mails))
	}
	match := resetLinkPattern.FindStringSubmatch(mails[0].HTML)
	if match == nil {
		t.Fatal("reset link not found in email")
	}
	resetPath := "/api/admin/reset-password/" + match[1] + "/" + match[2]

	w = ts.doJSON(t, http.MethodPost, resetPath, map[string]string{"password": "n3w-pass"}, "")
	if w.Code != http.StatusOK || message(t, w) != "Password reset successful" {
		t.Fatalf("reset: %d %s", w.Code, w.Body)
	}
	w = ts.doJSON(t, http.MethodPost, resetPath, map[string]string{"password": "again"}, "")
	if w.Code != http.StatusBadRequest || message(t, w) != "Invalid or expired reset token" {
		t.Fatalf("reuse: %d %s", w.Code, w.Body)
	}

	w = ts.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "n3w-pass"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: %d %s", w.Code, w.Body)
	}
}
