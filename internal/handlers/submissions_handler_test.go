package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carslab/funnel-api/internal/models"
)

func submissionsRouter(journal *MockSubmissionJournal) *gin.Engine {
	handler := NewSubmissionsHandler(journal)
	router := gin.New()
	router.GET("/api/internal/submissions", handler.ListSubmissions)
	return router
}

func TestSubmissionsHandler_List(t *testing.T) {
	journal := new(MockSubmissionJournal)
	journal.On("List", mock.Anything, 100).Return([]*models.Submission{
		{ID: 2, VisitorID: "visitor-2", Name: "Maria Silva", Status: models.SubmissionStatusQualified},
		{ID: 1, VisitorID: "visitor-1", Name: "João Pereira", Status: models.SubmissionStatusCreated},
	}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/internal/submissions", http.NoBody)
	submissionsRouter(journal).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Submissions []*models.Submission `json:"submissions"`
		Count       int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Submissions, 2)
	assert.Equal(t, int64(2), resp.Submissions[0].ID)
	journal.AssertExpectations(t)
}

func TestSubmissionsHandler_List_CustomLimit(t *testing.T) {
	journal := new(MockSubmissionJournal)
	journal.On("List", mock.Anything, 10).Return([]*models.Submission{}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/internal/submissions?limit=10", http.NoBody)
	submissionsRouter(journal).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	journal.AssertExpectations(t)
}

func TestSubmissionsHandler_List_InvalidLimit(t *testing.T) {
	journal := new(MockSubmissionJournal)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/internal/submissions?limit=abc", http.NoBody)
	submissionsRouter(journal).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	journal.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSubmissionsHandler_List_StorageError(t *testing.T) {
	journal := new(MockSubmissionJournal)
	journal.On("List", mock.Anything, 100).Return(nil, errors.New("connection refused")).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/internal/submissions", http.NoBody)
	submissionsRouter(journal).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
