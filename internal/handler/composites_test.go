package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/internal/feasibility"
	"github.com/osse101/FlipResolver_Go/internal/flip"
	"github.com/osse101/FlipResolver_Go/mocks"
)

func TestHandleFeasibility(t *testing.T) {
	InitValidator()
	assigned := 2

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mocks.MockFlipService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "max for set",
			body: FeasibilityRequest{OfferID: "o1", RecipeTarget: RecipeTarget{SetParentID: 12960}},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Feasibility", mock.Anything, flip.FeasibilityRequest{OfferID: "o1", Recipe: flip.RecipeRef{SetParentID: 12960}}).
					Return(&flip.FeasibilityView{Result: feasibility.Result{MaxInstances: 5, Targets: map[int]int{1163: 5}}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"max_instances":5`,
		},
		{
			name: "assigned amount is forwarded",
			body: FeasibilityRequest{OfferID: "o1", RecipeTarget: RecipeTarget{RecipeName: "Potion"}, Assigned: &assigned},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Feasibility", mock.Anything, mock.MatchedBy(func(r flip.FeasibilityRequest) bool {
					return r.Assigned != nil && *r.Assigned == 2 && r.Recipe.Name == "Potion"
				})).Return(&flip.FeasibilityView{Result: feasibility.Result{MaxInstances: 2}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"max_instances":2`,
		},
		{
			name:           "missing recipe",
			body:           FeasibilityRequest{OfferID: "o1"},
			setupMock:      func(m *mocks.MockFlipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"recipename"`,
		},
		{
			name:           "malformed json",
			body:           `{"offer_id":`,
			setupMock:      func(m *mocks.MockFlipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "unknown offer",
			body: FeasibilityRequest{OfferID: "nope", RecipeTarget: RecipeTarget{SetParentID: 12960}},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Feasibility", mock.Anything, mock.Anything).Return(nil, domain.ErrOfferNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   ErrMsgOfferNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockFlipService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			HandleFeasibility(svc).ServeHTTP(w, newRequest(t, http.MethodPost, "/api/v1/feasibility", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleBuildComposite(t *testing.T) {
	InitValidator()
	selection := map[int]map[string]int{12960: {"o1": 1}, 1163: {"o2": 1}}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mocks.MockFlipService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created",
			body: BuildCompositeRequest{OfferID: "o1", RecipeTarget: RecipeTarget{SetParentID: 12960}, Selection: selection},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Build", mock.Anything, flip.BuildRequest{OfferID: "o1", Recipe: flip.RecipeRef{SetParentID: 12960}, Selection: selection}).
					Return(&domain.CompositeTransaction{ID: "ct-1", Instances: 1, Profit: 900}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"composite_id":"ct-1"`,
		},
		{
			name: "not ready carries shortfalls",
			body: BuildCompositeRequest{OfferID: "o1", RecipeTarget: RecipeTarget{SetParentID: 12960}, Selection: selection},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Build", mock.Anything, mock.Anything).
					Return(nil, &domain.NotReadyError{Shortfalls: []domain.Shortfall{{ItemID: 1127, Have: 0, Want: 1}}})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"shortfalls":[{"item_id":1127,"have":0,"want":1}]`,
		},
		{
			name: "over consumption",
			body: BuildCompositeRequest{OfferID: "o1", RecipeTarget: RecipeTarget{SetParentID: 12960}, Selection: selection},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Build", mock.Anything, mock.Anything).Return(nil, domain.ErrOverConsumption)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgOverConsumption,
		},
		{
			name:           "empty selection",
			body:           BuildCompositeRequest{OfferID: "o1", RecipeTarget: RecipeTarget{SetParentID: 12960}},
			setupMock:      func(m *mocks.MockFlipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"selection"`,
		},
		{
			name: "storage failure stays opaque",
			body: BuildCompositeRequest{OfferID: "o1", RecipeTarget: RecipeTarget{SetParentID: 12960}, Selection: selection},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("Build", mock.Anything, mock.Anything).Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   ErrMsgGenericServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockFlipService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			HandleBuildComposite(svc).ServeHTTP(w, newRequest(t, http.MethodPost, "/api/v1/composites", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleBuildMax(t *testing.T) {
	svc := mocks.NewMockFlipService(t)
	svc.On("BuildMax", mock.Anything, "o1", flip.RecipeRef{Name: "Potion"}).
		Return(&domain.CompositeTransaction{ID: "ct-9", Instances: 3}, nil)

	w := httptest.NewRecorder()
	body := BuildMaxRequest{OfferID: "o1", RecipeTarget: RecipeTarget{RecipeName: "Potion"}}
	HandleBuildMax(svc).ServeHTTP(w, newRequest(t, http.MethodPost, "/api/v1/composites/max", body, nil))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Message string                      `json:"message"`
		Data    domain.CompositeTransaction `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, MsgCompositeBuilt, resp.Message)
	assert.Equal(t, 3, resp.Data.Instances)
}

func TestHandleReleaseComposite(t *testing.T) {
	t.Run("released", func(t *testing.T) {
		svc := mocks.NewMockFlipService(t)
		svc.On("Release", mock.Anything, "ct-1").Return(&domain.CompositeTransaction{ID: "ct-1"}, nil)

		w := httptest.NewRecorder()
		HandleReleaseComposite(svc).ServeHTTP(w, newRequest(t, http.MethodDelete, "/api/v1/composites/ct-1", nil, map[string]string{"id": "ct-1"}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already released", func(t *testing.T) {
		svc := mocks.NewMockFlipService(t)
		svc.On("Release", mock.Anything, "ct-1").Return(nil, domain.ErrAlreadyReleased)

		w := httptest.NewRecorder()
		HandleReleaseComposite(svc).ServeHTTP(w, newRequest(t, http.MethodDelete, "/api/v1/composites/ct-1", nil, map[string]string{"id": "ct-1"}))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandleCompositeHistory(t *testing.T) {
	t.Run("empty history is an empty array", func(t *testing.T) {
		svc := mocks.NewMockFlipService(t)
		svc.On("History", mock.Anything, 4151).Return(nil, nil)

		w := httptest.NewRecorder()
		HandleCompositeHistory(svc).ServeHTTP(w, newRequest(t, http.MethodGet, "/api/v1/items/4151/composites", nil, map[string]string{"itemID": "4151"}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
	})

	t.Run("bad item id", func(t *testing.T) {
		svc := mocks.NewMockFlipService(t)

		w := httptest.NewRecorder()
		HandleCompositeHistory(svc).ServeHTTP(w, newRequest(t, http.MethodGet, "/api/v1/items/abc/composites", nil, map[string]string{"itemID": "abc"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidItemID)
	})
}
