package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"smarttax/internal/domain"
	"smarttax/internal/menu"
	"smarttax/internal/session"
	"smarttax/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	guestPhone  = "250788000001"
	memberPhone = "250788000002"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	now       time.Time
	store     *session.Store
	traders   *testutil.MockTraderService
	auth      *testutil.MockAuthenticator
	locations *testutil.MockLocationService
	payments  *testutil.MockPaymentService
	stats     *testutil.MockStatsService
	router    *gin.Engine
}

func newHarness() *harness {
	h := &harness{
		now:       time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
		traders:   new(testutil.MockTraderService),
		auth:      new(testutil.MockAuthenticator),
		locations: new(testutil.MockLocationService),
		payments:  new(testutil.MockPaymentService),
		stats:     new(testutil.MockStatsService),
	}
	logger := testutil.NewTestLogger()

	h.store = session.NewStore(h.traders, logger, session.WithClock(func() time.Time { return h.now }))
	machine := menu.NewMachine(menu.Deps{
		Traders:   h.traders,
		Auth:      h.auth,
		Locations: h.locations,
		Payments:  h.payments,
		Stats:     h.stats,
	}, "*384*36920#", logger)

	handler := NewHandler(h.store, machine, h.traders, logger)
	handler.now = func() time.Time { return h.now }

	h.router = gin.New()
	handler.RegisterRoutes(h.router)
	return h
}

func (h *harness) post(sessionID, phone, text string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("sessionId", sessionID)
	form.Set("phoneNumber", phone)
	form.Set("serviceCode", "*384*36920#")
	form.Set("text", text)

	req := httptest.NewRequest(http.MethodPost, "/api/ussd", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// dial replays a dialog the way the gateway does, one growing trail per request
func (h *harness) dial(sessionID, phone string, choices ...string) []string {
	bodies := []string{h.post(sessionID, phone, "").Body.String()}
	for i := range choices {
		bodies = append(bodies, h.post(sessionID, phone, strings.Join(choices[:i+1], "*")).Body.String())
	}
	return bodies
}

func (h *harness) guest(phone string) {
	h.traders.On("FindByPhone", mock.Anything, phone).Return(nil, domain.ErrTraderNotFound)
}

func TestHandleUSSD_MissingPhone(t *testing.T) {
	h := newHarness()

	w := h.post("s1", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "END Missing phone number", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	h.traders.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
	assert.Equal(t, 0, h.store.Len())
}

func TestHandleUSSD_FirstRequest(t *testing.T) {
	t.Run("guest gets the welcome menu without touching other stores", func(t *testing.T) {
		h := newHarness()
		h.guest(guestPhone)

		w := h.post("s1", guestPhone, "")

		assert.True(t, strings.HasPrefix(w.Body.String(), "CON Welcome to SmartTax Rwanda"))
		h.locations.AssertNotCalled(t, "Districts", mock.Anything)
		h.stats.AssertNotCalled(t, "RecentTransactions", mock.Anything, mock.Anything, mock.Anything)
		h.stats.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
		h.payments.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, 1, h.store.Len())
	})

	t.Run("registered phone gets the account menu", func(t *testing.T) {
		h := newHarness()
		h.traders.On("FindByPhone", mock.Anything, memberPhone).Return(testutil.NewTestTrader(2, memberPhone, "1234"), nil)

		w := h.post("s1", memberPhone, "")

		assert.True(t, strings.HasPrefix(w.Body.String(), "CON SmartTax Rwanda\n1. Pay Tax"))
	})

	t.Run("trader store down still answers", func(t *testing.T) {
		h := newHarness()
		h.traders.On("FindByPhone", mock.Anything, guestPhone).Return(nil, errors.New("db down"))

		w := h.post("s1", guestPhone, "")

		assert.True(t, strings.HasPrefix(w.Body.String(), "CON Welcome to SmartTax Rwanda"))
	})

	t.Run("json body", func(t *testing.T) {
		h := newHarness()
		h.guest(guestPhone)

		body := `{"sessionId":"s1","phoneNumber":"` + guestPhone + `","text":"3"}`
		req := httptest.NewRequest(http.MethodPost, "/api/ussd", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)

		// unknown session with a trail restarts at the root menu
		assert.True(t, strings.HasPrefix(w.Body.String(), "CON Welcome to SmartTax Rwanda"))
	})
}

func TestHandleUSSD_Registration(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)
	h.locations.On("Districts", mock.Anything).Return(domain.DefaultDistricts, nil)
	h.locations.On("Sectors", mock.Anything, int64(1)).Return(domain.DefaultSectors(1), nil)
	h.traders.On("Register", mock.Anything, mock.MatchedBy(func(reg domain.Registration) bool {
		return reg.FullName == "Jane" &&
			reg.Email == "jane@x.com" &&
			reg.Phone == guestPhone &&
			reg.DistrictID == 1 &&
			reg.SectorID == 1 &&
			reg.Category == "Retail Shop" &&
			reg.PIN == "1234"
	})).Return(&domain.Trader{ID: 11, FullName: "Jane", Phone: guestPhone, TIN: "TIN-00000011"}, nil)

	bodies := h.dial("s1", guestPhone, "1", "Jane", "jane@x.com", "1", "1", "1", "1234")

	assert.Equal(t, "CON Enter your full name:", bodies[1])
	assert.Equal(t, "CON Enter your email address:", bodies[2])
	assert.True(t, strings.HasPrefix(bodies[3], "CON Select your district:\n1. Kigali City"))
	assert.True(t, strings.HasPrefix(bodies[4], "CON Select your sector:\n1. Nyarugenge"))
	assert.True(t, strings.HasPrefix(bodies[5], "CON Select your business category:"))
	assert.Equal(t, "CON Create a 4-digit PIN:", bodies[6])
	assert.True(t, strings.HasPrefix(bodies[7], "END Registration Successful!"))
	h.traders.AssertNumberOfCalls(t, "Register", 1)

	// the same session is now bound to the new account
	h.stats.On("Summary", mock.Anything, int64(11)).Return(domain.Summary{}, nil)
	w := h.post("s1", guestPhone, "")
	assert.True(t, strings.HasPrefix(w.Body.String(), "CON SmartTax Rwanda\n1. Pay Tax"))
	w = h.post("s1", guestPhone, "3")
	assert.True(t, strings.HasPrefix(w.Body.String(), "END Your Tax Summary:"))
}

func TestHandleUSSD_Payment(t *testing.T) {
	trader := testutil.NewTestTrader(2, memberPhone, "1234")

	for _, price := range []string{"abc", "-5"} {
		t.Run("rejects "+price, func(t *testing.T) {
			h := newHarness()
			h.traders.On("FindByPhone", mock.Anything, memberPhone).Return(trader, nil)

			bodies := h.dial("s1", memberPhone, "1", "Widget", price)

			assert.Equal(t, "END Invalid amount. Please start again.", bodies[3])
			h.payments.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleUSSD_UnknownSessionWithTrail(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)

	first := h.post("s1", guestPhone, "1*Jane")
	assert.True(t, strings.HasPrefix(first.Body.String(), "CON Welcome to SmartTax Rwanda"))

	// steps now count from the restart point
	next := h.post("s1", guestPhone, "1*Jane*1")
	assert.Equal(t, "CON Enter your full name:", next.Body.String())
}

func TestHandleUSSD_Expiry(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)

	bodies := h.dial("s1", guestPhone, "1")
	require.Equal(t, "CON Enter your full name:", bodies[1])

	h.now = h.now.Add(session.DefaultTTL + time.Second)

	w := h.post("s1", guestPhone, "1*Jane")
	assert.True(t, strings.HasPrefix(w.Body.String(), "CON Welcome to SmartTax Rwanda"))
}

func TestHandleUSSD_StepMismatch(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)

	h.post("s1", guestPhone, "")
	w := h.post("s1", guestPhone, "1*Jane*x")

	assert.Equal(t, "END Invalid option selected", w.Body.String())
}

func TestHandleUSSD_ExitDiscardsSession(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)

	bodies := h.dial("s1", guestPhone, "0")

	assert.Equal(t, "END Thank you for your interest in SmartTax Rwanda!", bodies[1])
	assert.Equal(t, 0, h.store.Len())
}

func TestHandleUSSD_PhoneIsFallbackKey(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)

	h.dial("", guestPhone, "1")
	w := h.post("", guestPhone, "1*Jane")

	assert.Equal(t, "CON Enter your email address:", w.Body.String())
	assert.Equal(t, 1, h.store.Len())
}

func TestHandleUSSD_PanicKeepsProgress(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)
	h.locations.On("Districts", mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	bodies := h.dial("s1", guestPhone, "1", "Jane", "jane@x.com")

	assert.Equal(t, "END System error. Please try again later.", bodies[3])
	assert.Equal(t, 1, h.store.Len())
}

func TestHandleUSSD_ConcurrentCallers(t *testing.T) {
	h := newHarness()
	h.traders.On("FindByPhone", mock.Anything, mock.Anything).Return(nil, domain.ErrTraderNotFound)

	const callers = 20
	var wg sync.WaitGroup
	results := make([][]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.dial(fmt.Sprintf("s%d", i), fmt.Sprintf("2507880%05d", i), "1", fmt.Sprintf("Trader %d", i))
		}(i)
	}
	wg.Wait()

	for i, bodies := range results {
		assert.Equal(t, "CON Enter your full name:", bodies[1], "caller %d", i)
		assert.Equal(t, "CON Enter your email address:", bodies[2], "caller %d", i)
	}
	assert.Equal(t, callers, h.store.Len())
}

func TestHandleUSSD_SharedSessionID(t *testing.T) {
	h := newHarness()
	h.guest(guestPhone)
	h.guest(memberPhone)

	h.dial("s1", guestPhone, "1")
	h.dial("s1", memberPhone, "3")

	// the second phone must not replace the first caller's registration dialog
	w := h.post("s1", guestPhone, "1*Jane")
	assert.Equal(t, "CON Enter your email address:", w.Body.String())
	assert.Equal(t, 2, h.store.Len())
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, guestPhone, SessionKey("", guestPhone))
	assert.Equal(t, guestPhone, SessionKey("  ", guestPhone))
	assert.Equal(t, "s1:"+guestPhone, SessionKey("s1", guestPhone))
	assert.NotEqual(t, SessionKey("s1", guestPhone), SessionKey("s1", memberPhone))
}

func TestHandleStatus(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newHarness()
		h.guest(guestPhone)
		h.traders.On("Count", mock.Anything).Return(3, nil)
		h.post("s1", guestPhone, "")

		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ussd/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["sessions"])
		assert.Equal(t, float64(3), body["traders"])
	})

	t.Run("database down", func(t *testing.T) {
		h := newHarness()
		h.traders.On("Count", mock.Anything).Return(0, errors.New("db down"))

		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ussd/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	h := newHarness()

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","service":"SmartTax USSD","timestamp":"2024-06-15T10:00:00Z"}`, w.Body.String())
}

func TestSplitTrail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "blank", input: "  ", expected: nil},
		{name: "single", input: "1", expected: []string{"1"}},
		{name: "several", input: "1*Jane*jane@x.com", expected: []string{"1", "Jane", "jane@x.com"}},
		{name: "empty token kept", input: "1**2", expected: []string{"1", "", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitTrail(tt.input))
		})
	}
}
