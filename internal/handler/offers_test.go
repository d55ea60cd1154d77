package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/FlipResolver_Go/internal/domain"
	"github.com/osse101/FlipResolver_Go/mocks"
)

func TestHandleRecordOffers(t *testing.T) {
	InitValidator()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	input := OfferInput{ID: "o1", ItemID: 4151, Side: "Sell", QuantityFilled: 2, TotalQuantity: 2, Price: 1_500_000, Complete: true, Time: at}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*mocks.MockFlipService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "recorded",
			body: RecordOffersRequest{Offers: []OfferInput{input}},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("RecordOffers", mock.Anything, []domain.Offer{{
					ID: "o1", ItemID: 4151, Side: domain.SideSell, QuantityFilled: 2, TotalQuantity: 2,
					Price: 1_500_000, Complete: true, Time: at,
				}}).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   MsgOffersRecorded,
		},
		{
			name: "shrinking a consumed offer",
			body: RecordOffersRequest{Offers: []OfferInput{input}},
			setupMock: func(m *mocks.MockFlipService) {
				m.On("RecordOffers", mock.Anything, mock.Anything).Return(domain.ErrOverConsumption)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   ErrMsgOverConsumption,
		},
		{
			name:           "empty batch",
			body:           RecordOffersRequest{},
			setupMock:      func(m *mocks.MockFlipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"offers"`,
		},
		{
			name:           "invalid side in batch",
			body:           RecordOffersRequest{Offers: []OfferInput{{ID: "o1", ItemID: 1, Side: "hold", Time: at}}},
			setupMock:      func(m *mocks.MockFlipService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidSide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockFlipService(t)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			HandleRecordOffers(svc).ServeHTTP(w, newRequest(t, http.MethodPost, "/api/v1/offers", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
