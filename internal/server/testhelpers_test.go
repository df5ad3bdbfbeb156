package server

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/advisory/internal/assistant"
	"github.com/krishimitra/advisory/internal/config"
	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/weather"
	"github.com/krishimitra/advisory/pkg/models"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.MobileNumber == user.MobileNumber {
			return nil, db.ErrDuplicateMobile
		}
	}
	f.nextID++
	clone := *user
	clone.ID = f.nextID
	clone.CreatedAt = time.Now()
	f.users[clone.ID] = &clone
	return &clone, nil
}

func (f *fakeUserStore) GetByMobile(ctx context.Context, mobileNumber string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.MobileNumber == mobileNumber {
			clone := *user
			return &clone, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) ListOfficersByDistrict(ctx context.Context, district string) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var officers []*models.User
	for _, user := range f.users {
		if user.Role == models.RoleAgriOfficer && user.District == district {
			clone := *user
			officers = append(officers, &clone)
		}
	}
	sort.Slice(officers, func(i, j int) bool { return officers[i].ID < officers[j].ID })
	return officers, nil
}

// fakeNotificationStore is an in-memory NotificationStore.
type fakeNotificationStore struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (f *fakeNotificationStore) add(n *models.Notification) *models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	clone := *n
	clone.ID = f.nextID
	clone.CreatedAt = time.Now()
	f.notifications = append(f.notifications, &clone)
	return &clone
}

func (f *fakeNotificationStore) ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserID == userID {
			clone := *f.notifications[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// fakeQuestionStore is an in-memory QuestionStore. Escalate and
// Resolve write the paired notification through the notification
// store, mirroring the transactional production behavior.
type fakeQuestionStore struct {
	mu            sync.Mutex
	nextID        int64
	questions     map[int64]*models.EscalatedQuestion
	notifications *fakeNotificationStore

	// expertMatch, when set, is returned by SearchResolved.
	expertMatch *models.EscalatedQuestion
}

func newFakeQuestionStore(notifications *fakeNotificationStore) *fakeQuestionStore {
	return &fakeQuestionStore{
		questions:     make(map[int64]*models.EscalatedQuestion),
		notifications: notifications,
	}
}

func (f *fakeQuestionStore) Escalate(ctx context.Context, q *models.EscalatedQuestion, notifMessage string) (*models.EscalatedQuestion, *models.Notification, error) {
	f.mu.Lock()
	f.nextID++
	clone := *q
	clone.ID = f.nextID
	clone.Status = models.StatusPending
	clone.CreatedAt = time.Now()
	f.questions[clone.ID] = &clone
	f.mu.Unlock()

	notification := f.notifications.add(&models.Notification{
		UserID:            clone.OfficerID,
		Message:           notifMessage,
		RelatedQuestionID: clone.ID,
	})
	result := clone
	return &result, notification, nil
}

func (f *fakeQuestionStore) Resolve(ctx context.Context, questionID int64, answer, notifMessage string) (*models.EscalatedQuestion, *models.Notification, error) {
	f.mu.Lock()
	q, ok := f.questions[questionID]
	if !ok {
		f.mu.Unlock()
		return nil, nil, db.ErrNotFound
	}
	if q.Resolved() {
		f.mu.Unlock()
		return nil, nil, db.ErrAlreadyResolved
	}
	now := time.Now()
	q.Status = models.StatusResolved
	q.Answer = answer
	q.ResolvedAt = &now
	clone := *q
	f.mu.Unlock()

	notification := f.notifications.add(&models.Notification{
		UserID:            clone.UserID,
		Message:           notifMessage,
		RelatedQuestionID: clone.ID,
	})
	return &clone, notification, nil
}

func (f *fakeQuestionStore) GetByID(ctx context.Context, id int64) (*models.EscalatedQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *q
	return &clone, nil
}

func (f *fakeQuestionStore) List(ctx context.Context, filter models.QuestionFilter) ([]*models.EscalatedQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EscalatedQuestion
	for _, q := range f.questions {
		if filter.UserID != 0 && q.UserID != filter.UserID {
			continue
		}
		if filter.OfficerID != 0 && q.OfficerID != filter.OfficerID {
			continue
		}
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		clone := *q
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeQuestionStore) SearchResolved(ctx context.Context, query string) (*models.EscalatedQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expertMatch != nil {
		clone := *f.expertMatch
		return &clone, nil
	}
	return nil, nil
}

// fakeSoilStore is an in-memory SoilStore.
type fakeSoilStore struct {
	mu      sync.Mutex
	reports map[int64]*models.SoilReport
}

func newFakeSoilStore() *fakeSoilStore {
	return &fakeSoilStore{reports: make(map[int64]*models.SoilReport)}
}

func (f *fakeSoilStore) LatestByUser(ctx context.Context, userID int64) (*models.SoilReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report, ok := f.reports[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *report
	return &clone, nil
}

// fakeChatStore is an in-memory ChatStore.
type fakeChatStore struct {
	mu       sync.Mutex
	nextMsg  int64
	chats    map[string]*models.ChatSession
	messages map[string][]models.ChatMessage
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		chats:    make(map[string]*models.ChatSession),
		messages: make(map[string][]models.ChatMessage),
	}
}

func (f *fakeChatStore) CreateChat(ctx context.Context, userID int64, title string) (*models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat := &models.ChatSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         title,
		SchemaVersion: models.ChatSchemaVersion,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.chats[chat.ID] = chat
	clone := *chat
	return &clone, nil
}

func (f *fakeChatStore) GetChat(ctx context.Context, id string) (*models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *chat
	clone.Messages = append([]models.ChatMessage(nil), f.messages[id]...)
	return &clone, nil
}

func (f *fakeChatStore) ListChats(ctx context.Context, userID int64) ([]*models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ChatSession
	for _, chat := range f.chats {
		if chat.UserID == userID {
			clone := *chat
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeChatStore) AppendMessage(ctx context.Context, chatID string, role models.ChatRole, content string) (*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, db.ErrNotFound
	}
	f.nextMsg++
	msg := models.ChatMessage{
		ID:        f.nextMsg,
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages[chatID] = append(f.messages[chatID], msg)
	chat.UpdatedAt = msg.CreatedAt
	return &msg, nil
}

func (f *fakeChatStore) DeleteChat(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.chats[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.chats, id)
	delete(f.messages, id)
	return nil
}

// fakeAdvisor returns a canned reply and records the last request.
type fakeAdvisor struct {
	mu      sync.Mutex
	reply   *assistant.Reply
	err     error
	lastReq *assistant.Request
	calls   int
}

func (f *fakeAdvisor) Ask(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	reqCopy := req
	f.lastReq = &reqCopy
	if f.err != nil {
		return nil, f.err
	}
	if f.reply != nil {
		return f.reply, nil
	}
	return &assistant.Reply{ResponseText: "Sow after the first monsoon rain."}, nil
}

// fakeWeather returns canned payloads or a forced error.
type fakeWeather struct {
	current  *weather.Current
	forecast *weather.Forecast
	err      error
}

func (f *fakeWeather) Current(ctx context.Context, lat, lon float64, lang string) (*weather.Current, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.current, nil
}

func (f *fakeWeather) Forecast(ctx context.Context, lat, lon float64, lang string) (*weather.Forecast, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast, nil
}

func (f *fakeWeather) Full(ctx context.Context, lat, lon float64, lang string) (*weather.Bundle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &weather.Bundle{Current: f.current, Forecast: f.forecast}, nil
}

// fakeHealth returns a canned database health report.
type fakeHealth struct {
	info *db.HealthInfo
}

func (f *fakeHealth) HealthCheck(ctx context.Context) *db.HealthInfo {
	return f.info
}

// testEnv bundles a service wired to fakes.
type testEnv struct {
	svc           *Service
	users         *fakeUserStore
	questions     *fakeQuestionStore
	notifications *fakeNotificationStore
	soil          *fakeSoilStore
	chats         *fakeChatStore
	advisor       *fakeAdvisor
	weather       *fakeWeather
	health        *fakeHealth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	notifications := newFakeNotificationStore()
	env := &testEnv{
		users:         newFakeUserStore(),
		questions:     newFakeQuestionStore(notifications),
		notifications: notifications,
		soil:          newFakeSoilStore(),
		chats:         newFakeChatStore(),
		advisor:       &fakeAdvisor{},
		weather:       &fakeWeather{},
		health:        &fakeHealth{info: &db.HealthInfo{Status: "healthy", Timestamp: time.Now()}},
	}

	cfg := &config.Config{HTTPPort: 0}
	env.svc = NewService("test", cfg, Deps{
		Users:         env.users,
		Questions:     env.questions,
		Notifications: env.notifications,
		Soil:          env.soil,
		Chats:         env.chats,
		Advisor:       env.advisor,
		Weather:       env.weather,
		DB:            env.health,
	})
	return env
}

// addUser seeds an account directly into the fake store.
func (e *testEnv) addUser(t *testing.T, user models.User) *models.User {
	t.Helper()
	created, err := e.users.Create(context.Background(), &user)
	require.NoError(t, err)
	return created
}

// do runs one request through the full router.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.svc.Router().ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
