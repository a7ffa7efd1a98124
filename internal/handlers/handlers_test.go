package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"githubActivityFeed/internal/eventrow"
	"githubActivityFeed/internal/events"
	"githubActivityFeed/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
}

func (ms *mockService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	args := ms.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (ms *mockService) GetAll(ctx context.Context) ([]byte, error) {
	args := ms.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (ms *mockService) Feed(ctx context.Context, lang string) ([]byte, error) {
	args := ms.Called(lang)
	return args.Get(0).([]byte), args.Error(1)
}

func (ms *mockService) Row(ctx context.Context, id, lang string) (eventrow.Row, error) {
	args := ms.Called(id, lang)
	return args.Get(0).(eventrow.Row), args.Error(1)
}

func (ms *mockService) Tap(ctx context.Context, id string) (eventrow.Command, error) {
	args := ms.Called(id)
	return args.Get(0).(eventrow.Command), args.Error(1)
}

func (ms *mockService) SelectCommit(ctx context.Context, id, sha string) ([]eventrow.Command, error) {
	args := ms.Called(id, sha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]eventrow.Command), args.Error(1)
}

func newApp(svc events.Service) *fiber.App {
	app := fiber.New()
	NewHTTP(svc).Register(app)
	return app
}

func TestHTTP_GetEventById(t *testing.T) {
	mockSvc := new(mockService)
	app := newApp(mockSvc)

	t.Run("returns event when found", func(t *testing.T) {
		expectedEvent := &model.Event{ID: "123", Type: "Test Event"}
		mockSvc.On("GetByID", "123").Return(expectedEvent, nil).Once()

		req := httptest.NewRequest("GET", "/events/123", nil)
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result model.Event
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "123", result.ID)

		mockSvc.AssertExpectations(t)
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		mockSvc.On("GetByID", "999").Return(nil, events.ErrNotFound).Once()

		req := httptest.NewRequest("GET", "/events/999", nil)
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		mockSvc.AssertExpectations(t)
	})

	t.Run("returns 500 on storage failure", func(t *testing.T) {
		mockSvc.On("GetByID", "1").Return(nil, errors.New("disk full")).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/events/1", nil))

		assert.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHTTP_GetAllEvents(t *testing.T) {
	mockSvc := new(mockService)
	app := newApp(mockSvc)

	t.Run("returns all events", func(t *testing.T) {
		exptEvents := []model.Event{
			{ID: "123", Type: "test event1"},
			{ID: "456", Type: "test event2"},
			{ID: "789", Type: "test event3"},
		}

		exptEventsbytes, _ := json.Marshal(exptEvents)
		mockSvc.On("GetAll").Return(exptEventsbytes, nil).Once()
		req := httptest.NewRequest("GET", "/events", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
		var res []model.Event
		json.NewDecoder(resp.Body).Decode(&res)

		for i, v := range res {
			assert.Equal(t, exptEvents[i].ID, v.ID)
		}
		mockSvc.AssertExpectations(t)
	})
	t.Run("returns err when not found", func(t *testing.T) {
		mockSvc.On("GetAll").Return([]byte{}, events.ErrNotFound).Once()
		req := httptest.NewRequest("GET", "/events", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestHTTP_GetFeed(t *testing.T) {
	mockSvc := new(mockService)
	app := newApp(mockSvc)

	t.Run("query language wins", func(t *testing.T) {
		mockSvc.On("Feed", "de").Return([]byte(`[]`), nil).Once()

		req := httptest.NewRequest("GET", "/feed?lang=de", nil)
		req.Header.Set("Accept-Language", "en")
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("accept-language header", func(t *testing.T) {
		mockSvc.On("Feed", "de-CH,en;q=0.5").Return([]byte(`[]`), nil).Once()

		req := httptest.NewRequest("GET", "/feed", nil)
		req.Header.Set("Accept-Language", "de-CH,en;q=0.5")
		resp, err := app.Test(req)

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestHTTP_GetRow(t *testing.T) {
	mockSvc := new(mockService)
	app := newApp(mockSvc)
	row := eventrow.Row{EventID: "1", Type: "WatchEvent", Kind: eventrow.RowEvent, Icon: eventrow.IconStar, Text: "mona starred octo/hello", Tappable: true}
	mockSvc.On("Row", "1", "").Return(row, nil).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/feed/1", nil))

	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var got eventrow.Row
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, row, got)
}

func TestHTTP_Tap(t *testing.T) {
	mockSvc := new(mockService)
	app := newApp(mockSvc)

	t.Run("returns command", func(t *testing.T) {
		cmd := eventrow.Command{Kind: eventrow.CommandShowIssue, Owner: "octo", Name: "hello", Number: 3}
		mockSvc.On("Tap", "1").Return(cmd, nil).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/feed/1/tap", nil))

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		var got eventrow.Command
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, cmd, got)
	})

	t.Run("malformed payload is unprocessable", func(t *testing.T) {
		mockSvc.On("Tap", "2").Return(eventrow.Command{}, eventrow.ErrMalformedPayload).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/feed/2/tap", nil))

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestHTTP_SelectCommit(t *testing.T) {
	mockSvc := new(mockService)
	app := newApp(mockSvc)

	t.Run("returns close and show commands", func(t *testing.T) {
		cmds := []eventrow.Command{
			{Kind: eventrow.CommandCloseModal},
			{Kind: eventrow.CommandShowCommit, Owner: "octo", Name: "hello", SHA: "a1"},
		}
		mockSvc.On("SelectCommit", "9", "a1").Return(cmds, nil).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/feed/9/select/a1", nil))

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		var got []eventrow.Command
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, cmds, got)
	})

	t.Run("unknown commit", func(t *testing.T) {
		mockSvc.On("SelectCommit", "9", "zz").Return(nil, eventrow.ErrUnknownCommit).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/feed/9/select/zz", nil))

		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}
