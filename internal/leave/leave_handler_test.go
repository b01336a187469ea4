package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crewtrack/internal/leave"
	leaveerrors "crewtrack/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn        func(ctx context.Context, actorID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error)
	getByIDFn       func(ctx context.Context, id string) (leave.LeaveRequestResponse, error)
	getAllFn        func(ctx context.Context) ([]leave.LeaveRequestResponse, error)
	getByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveRequestResponse, error)
	approveFn       func(ctx context.Context, reviewerID, id string) (leave.LeaveRequestResponse, error)
	rejectFn        func(ctx context.Context, reviewerID, id, adminComment string) (leave.LeaveRequestResponse, error)
	getBalanceFn    func(ctx context.Context, employeeID string) (leave.BalanceResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, actorID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	return f.createFn(ctx, actorID, req)
}

func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeLeaveService) GetAll(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeLeaveService) GetByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequestResponse, error) {
	return f.getByEmployeeFn(ctx, employeeID)
}

func (f *fakeLeaveService) Approve(ctx context.Context, reviewerID, id string) (leave.LeaveRequestResponse, error) {
	return f.approveFn(ctx, reviewerID, id)
}

func (f *fakeLeaveService) Reject(ctx context.Context, reviewerID, id, adminComment string) (leave.LeaveRequestResponse, error) {
	return f.rejectFn(ctx, reviewerID, id, adminComment)
}

func (f *fakeLeaveService) GetBalance(ctx context.Context, employeeID string) (leave.BalanceResponse, error) {
	return f.getBalanceFn(ctx, employeeID)
}

func newLeaveTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func postJSON(c *gin.Context, path, body string) {
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
}

func TestLeaveHandler_Create(t *testing.T) {
	actorID := uuid.New().String()
	createBody := `{"employee_id":"` + actorID + `","leave_type":"STANDARD","start_date":"2025-06-02","end_date":"2025-06-06","reason":"Summer break"}`

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, aid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "STANDARD", req.LeaveType)
				return leave.LeaveRequestResponse{
					ID:          uuid.New().String(),
					EmployeeID:  req.EmployeeID,
					LeaveType:   req.LeaveType,
					StartDate:   req.StartDate,
					EndDate:     req.EndDate,
					WorkingDays: 5,
					Status:      leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves", createBody)
		c.Set("employee_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, 5, got.WorkingDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("caches response and releases lock for retried submissions", func(t *testing.T) {
		resp := leave.LeaveRequestResponse{
			ID:          uuid.New().String(),
			EmployeeID:  actorID,
			LeaveType:   "STANDARD",
			StartDate:   "2025-06-02",
			EndDate:     "2025-06-06",
			WorkingDays: 5,
			Status:      leave.StatusPending,
		}
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, aid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				return resp, nil
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		cacheKey := "idemp:/leaves:" + actorID + ":key-1"
		lockKey := cacheKey + ":lock"
		payload, err := json.Marshal(resp)
		assert.NoError(t, err)
		redisMock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel(lockKey).SetVal(1)

		h := leave.NewHandlerWithRedis(svc, rdb)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves", createBody)
		c.Set("employee_id", actorID)
		c.Set("idempotency_lock_key", lockKey)
		c.Set("idempotency_cache_key", cacheKey)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("releases lock on service failure", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, aid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrEmptyRange
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		cacheKey := "idemp:/leaves:" + actorID + ":key-2"
		lockKey := cacheKey + ":lock"
		redisMock.ExpectDel(lockKey).SetVal(1)

		h := leave.NewHandlerWithRedis(svc, rdb)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves", createBody)
		c.Set("employee_id", actorID)
		c.Set("idempotency_lock_key", lockKey)
		c.Set("idempotency_cache_key", cacheKey)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves", `{}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("empty range maps to invalid input", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, aid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrEmptyRange
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves", createBody)
		c.Set("employee_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("unknown error is masked as internal", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, aid string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, errors.New("pq: connection reset")
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves", createBody)
		c.Set("employee_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.Equal(t, "An unexpected error occurred", env.Error.Message)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	reviewerID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, rid, id string) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, reviewerID, rid)
				assert.Equal(t, leaveID, id)
				return leave.LeaveRequestResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves/"+leaveID+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", reviewerID)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leave.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("already decided maps to conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, rid, id string) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves/"+leaveID+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", reviewerID)

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, rid, id string) (leave.LeaveRequestResponse, error) {
				return leave.LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves/"+leaveID+"/approve", "")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", reviewerID)

		h.Approve(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	reviewerID := uuid.New().String()
	leaveID := uuid.New().String()

	t.Run("success passes admin comment", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, rid, id, adminComment string) (leave.LeaveRequestResponse, error) {
				assert.Equal(t, "project deadline", adminComment)
				comment := adminComment
				return leave.LeaveRequestResponse{ID: id, Status: leave.StatusRejected, AdminComment: &comment}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves/"+leaveID+"/reject", `{"admin_comment":"project deadline"}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", reviewerID)

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leave.LeaveRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusRejected, got.Status)
	})

	t.Run("missing admin comment", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newLeaveTestContext(t)
		postJSON(c, "/leaves/"+leaveID+"/reject", `{}`)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", reviewerID)

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}
