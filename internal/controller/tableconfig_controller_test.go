package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tableconfig-editor/internal/model"
	"tableconfig-editor/internal/service"
	"tableconfig-editor/internal/utils"
	"tableconfig-editor/pkg/response"

	"github.com/gin-gonic/gin"
)

type stubTableService struct {
	listReq      *service.ListTablesRequest
	saveReq      *service.SaveSchemaRequest
	getConfigErr error
}

func (s *stubTableService) ListTables(ctx context.Context, req *service.ListTablesRequest) (*service.ListTablesResponse, error) {
	s.listReq = req
	return &service.ListTablesResponse{Tables: []*model.TableSummary{}, Limit: req.Limit}, nil
}

func (s *stubTableService) ListSourceSystems(ctx context.Context) ([]string, error) {
	return []string{"crm", "sap"}, nil
}

func (s *stubTableService) GetTableConfig(ctx context.Context, tableKey string) (*service.TableConfigResponse, error) {
	if s.getConfigErr != nil {
		return nil, s.getConfigErr
	}
	if tableKey != "sap.orders" {
		return nil, utils.NewTableNotFoundError(tableKey)
	}
	return &service.TableConfigResponse{TableKey: tableKey}, nil
}

func (s *stubTableService) SaveSchema(ctx context.Context, tableKey string, req *service.SaveSchemaRequest) (*service.SaveSchemaResponse, error) {
	s.saveReq = req
	return &service.SaveSchemaResponse{TableKey: tableKey}, nil
}

func (s *stubTableService) ListRevisions(ctx context.Context, tableKey string) ([]*model.SchemaRevision, error) {
	return []*model.SchemaRevision{}, nil
}

func (s *stubTableService) DescribeRegistry(ctx context.Context) ([]*model.ColumnInfo, error) {
	return []*model.ColumnInfo{}, nil
}

func (s *stubTableService) CreateTable(ctx context.Context, req *service.CreateTableRequest) error {
	return nil
}

func (s *stubTableService) DeleteTable(ctx context.Context, tableKey string) error {
	return nil
}

func setupRouter(stub *stubTableService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tc := NewTableConfigController(stub)

	api := router.Group("/api/v1")
	{
		api.GET("/tables", tc.ListTables)
		api.POST("/tables", tc.CreateTable)
		api.GET("/tables/:table_key", tc.GetTableConfig)
		api.PUT("/tables/:table_key/schema", tc.SaveSchema)
		api.GET("/tables/:table_key/revisions", tc.ListRevisions)
	}
	return router
}

func TestListTablesParsesQueryParams(t *testing.T) {
	stub := &stubTableService{}
	router := setupRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/tables?source_system=sap&table_name=ord&limit=5&offset=10", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.listReq.SourceSystem != "sap" || stub.listReq.TableName != "ord" {
		t.Errorf("Filters not forwarded: %+v", stub.listReq)
	}
	if stub.listReq.Limit != 5 || stub.listReq.Offset != 10 {
		t.Errorf("Pagination not forwarded: %+v", stub.listReq)
	}
}

func TestGetTableConfigNotFoundMapsTo404(t *testing.T) {
	router := setupRouter(&stubTableService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/tables/missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}

	var resp response.StandardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != utils.ErrCodeTableNotFound {
		t.Errorf("Expected TABLE_NOT_FOUND envelope, got %+v", resp)
	}
}

func TestSaveSchemaRejectsInvalidBody(t *testing.T) {
	router := setupRouter(&stubTableService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/v1/tables/sap.orders/schema", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestSaveSchemaAcceptsLooseBooleans(t *testing.T) {
	stub := &stubTableService{}
	router := setupRouter(stub)

	body := `{"rows":[{"sourceName":"id","targetName":"order_id","dataType":"long","isPrimaryKey":"TRUE","nullable":0}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/v1/tables/sap.orders/schema", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	row := stub.saveReq.Rows[0]
	if !bool(row.IsPrimaryKey) {
		t.Error("Expected string TRUE decoded as true")
	}
	if bool(row.Nullable) {
		t.Error("Expected numeric 0 decoded as false")
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := setupRouter(&stubTableService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/query", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown route, got %d", w.Code)
	}
}
