package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/realtime"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/anonto42/preference/backend/internal/validators"
	"github.com/anonto42/preference/backend/pkg/config"
	"github.com/anonto42/preference/backend/pkg/firebase"
	"github.com/anonto42/preference/backend/pkg/push"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "router-test-secret"

// memoryMessages is an in-memory MessageRepository.
type memoryMessages struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (m *memoryMessages) CreateMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	if msg.Images == nil {
		msg.Images = []string{}
	}
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memoryMessages) filter(keep func(*models.Message) bool) []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if keep(msg) {
			out = append(out, *msg)
		}
	}
	return out
}

func isDirect(msg *models.Message, from, to uint) bool {
	return msg.SenderID == from && msg.ReceiverID != nil && *msg.ReceiverID == to
}

func (m *memoryMessages) GetDirectMessages(_ context.Context, a, b uint) ([]models.Message, error) {
	return m.filter(func(msg *models.Message) bool {
		return isDirect(msg, a, b) || isDirect(msg, b, a)
	}), nil
}

func (m *memoryMessages) GetGroupMessages(_ context.Context, groupID uint) ([]models.Message, error) {
	return m.filter(func(msg *models.Message) bool {
		return msg.GroupID != nil && *msg.GroupID == groupID
	}), nil
}

func (m *memoryMessages) CountUnread(_ context.Context, receiverID uint) (int64, error) {
	n := m.filter(func(msg *models.Message) bool {
		return msg.ReceiverID != nil && *msg.ReceiverID == receiverID && !msg.IsRead
	})
	return int64(len(n)), nil
}

func (m *memoryMessages) CountUnreadFrom(_ context.Context, senderID, receiverID uint) (int64, error) {
	n := m.filter(func(msg *models.Message) bool {
		return isDirect(msg, senderID, receiverID) && !msg.IsRead
	})
	return int64(len(n)), nil
}

func (m *memoryMessages) MarkRead(_ context.Context, senderID, receiverID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if isDirect(msg, senderID, receiverID) {
			msg.IsRead = true
		}
	}
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(ev realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) byTable(table string) []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []realtime.Event
	for _, ev := range p.events {
		if ev.Table == table {
			out = append(out, ev)
		}
	}
	return out
}

// fakeAccounts records identity provider calls.
type fakeAccounts struct {
	mu       sync.Mutex
	created  []string
	deleted  []string
	disabled map[string]bool
	tokens   map[string]*firebase.VerifiedToken
}

func (a *fakeAccounts) CreateAccount(_ context.Context, email, _, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.created = append(a.created, email)
	return fmt.Sprintf("uid-%d", len(a.created)), nil
}

func (a *fakeAccounts) SetPassword(context.Context, string, string) error { return nil }

func (a *fakeAccounts) SetDisabled(_ context.Context, uid string, disabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disabled == nil {
		a.disabled = make(map[string]bool)
	}
	a.disabled[uid] = disabled
	return nil
}

func (a *fakeAccounts) DeleteAccount(_ context.Context, uid string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, uid)
	return nil
}

func (a *fakeAccounts) VerifyIDToken(_ context.Context, idToken string) (*firebase.VerifiedToken, error) {
	if tok, ok := a.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// fakeUploader stores object paths and returns a fixed URL scheme.
type fakeUploader struct {
	paths []string
}

func (u *fakeUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	u.paths = append(u.paths, objectPath)
	return "https://files.test/" + objectPath, nil
}

type testServer struct {
	e         *echo.Echo
	db        *gorm.DB
	messages  *memoryMessages
	publisher *recordingPublisher
	accounts  *fakeAccounts
	uploader  *fakeUploader
}

type serverOption func(*Deps)

func withoutFirebase(d *Deps) {
	d.Accounts = nil
	d.Uploader = nil
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ts := &testServer{
		db:        db,
		messages:  &memoryMessages{},
		publisher: &recordingPublisher{},
		accounts:  &fakeAccounts{tokens: map[string]*firebase.VerifiedToken{}},
		uploader:  &fakeUploader{},
	}
	deps := Deps{
		DB:        db,
		Messages:  ts.messages,
		Accounts:  ts.accounts,
		Uploader:  ts.uploader,
		Publisher: ts.publisher,
		Config: &config.Config{
			JWTSecret:           testSecret,
			JWTTTL:              time.Hour,
			InviteEmailDomain:   "preference.test",
			ManagementGroupSlug: "management",
		},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	ts.e = echo.New()
	ts.e.Validator = validators.NewValidator()
	SetupRoutes(ts.e, deps)
	return ts
}

func (ts *testServer) createUser(t *testing.T, username, role, password string) *models.Profile {
	t.Helper()
	p := &models.Profile{Username: username, Email: username + "@preference.test", Role: role}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}
		p.PasswordHash = string(hash)
	}
	if err := ts.db.Create(p).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return p
}

func tokenFor(t *testing.T, p *models.Profile) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// do sends a JSON request; token may be empty.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// decodeData unmarshals the "data" field of the response envelope into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("envelope not successful: %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v: %s", err, string(env.Data))
	}
}

// befriend makes a and b follow each other.
func (ts *testServer) befriend(t *testing.T, a, b *models.Profile) {
	t.Helper()
	expectStatus(t, ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/follows/%d", b.ID), tokenFor(t, a), nil), http.StatusOK)
	expectStatus(t, ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/follows/%d", a.ID), tokenFor(t, b), nil), http.StatusOK)
}

func withPusher(d *Deps) {
	d.Pusher = push.NewSender("test-public-key", "test-private-key", "mailto:ops@preference.test")
}
