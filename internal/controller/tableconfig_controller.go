package controller

import (
	"errors"
	"net/http"
	"strconv"

	"tableconfig-editor/internal/service"
	"tableconfig-editor/internal/utils"
	"tableconfig-editor/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TableConfigController struct {
	tableService service.TableConfigService
	validator    *validator.Validate
}

func NewTableConfigController(tableService service.TableConfigService) *TableConfigController {
	return &TableConfigController{
		tableService: tableService,
		validator:    validator.New(),
	}
}

// ListTables godoc
// @Summary List table configurations
// @Description Returns registry rows, optionally filtered by source system
// (exact match) and by case-insensitive substrings of the table key or name.
// @Tags tables
// @Produce json
// @Param source_system query string false "Exact source system filter"
// @Param table_key query string false "Substring filter on the table key"
// @Param table_name query string false "Substring filter on the table name"
// @Param limit query int false "Maximum number of items to return (default: 20, max: 100)"
// @Param offset query int false "Number of items to skip (default: 0)"
// @Success 200 {object} response.StandardResponse{data=service.ListTablesResponse}
// @Failure 502 {object} response.StandardResponse
// @Router /api/v1/tables [get]
func (tc *TableConfigController) ListTables(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	req := &service.ListTablesRequest{
		SourceSystem: c.Query("source_system"),
		TableKey:     c.Query("table_key"),
		TableName:    c.Query("table_name"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			req.Offset = offset
		}
	}

	result, err := tc.tableService.ListTables(c.Request.Context(), req)
	if err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(result, correlationID))
}

// ListSourceSystems godoc
// @Summary List distinct source systems
// @Description Returns the sorted distinct source systems in the registry,
// for populating the list page filter.
// @Tags tables
// @Produce json
// @Success 200 {object} response.StandardResponse{data=[]string}
// @Router /api/v1/source-systems [get]
func (tc *TableConfigController) ListSourceSystems(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	systems, err := tc.tableService.ListSourceSystems(c.Request.Context())
	if err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(systems, correlationID))
}

// GetTableConfig godoc
// @Summary Get one table configuration
// @Description Returns the full registry row including the parsed schema
// fields, the three key lists, and the editable grid projection.
// @Tags tables
// @Produce json
// @Param table_key path string true "Table key"
// @Success 200 {object} response.StandardResponse{data=service.TableConfigResponse}
// @Failure 404 {object} response.StandardResponse
// @Failure 422 {object} response.StandardResponse
// @Router /api/v1/tables/{table_key} [get]
func (tc *TableConfigController) GetTableConfig(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	tableKey := c.Param("table_key")
	if tableKey == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Table key is required",
			"",
			correlationID,
		))
		return
	}

	result, err := tc.tableService.GetTableConfig(c.Request.Context(), tableKey)
	if err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(result, correlationID))
}

// SaveSchema godoc
// @Summary Save an edited schema grid
// @Description Converts the submitted grid rows back into the nested schema
// document, persists it together with the derived key columns, and records a
// revision when the audit store is enabled.
// @Tags tables
// @Accept json
// @Produce json
// @Param table_key path string true "Table key"
// @Param request body service.SaveSchemaRequest true "Edited grid rows"
// @Success 200 {object} response.StandardResponse{data=service.SaveSchemaResponse}
// @Failure 400 {object} response.StandardResponse
// @Failure 404 {object} response.StandardResponse
// @Failure 422 {object} response.StandardResponse
// @Failure 502 {object} response.StandardResponse
// @Router /api/v1/tables/{table_key}/schema [put]
func (tc *TableConfigController) SaveSchema(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	tableKey := c.Param("table_key")

	var req service.SaveSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Invalid request body: "+err.Error(),
			"",
			correlationID,
		))
		return
	}

	// Validate request
	if err := tc.validator.Struct(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ErrorResponse(
			utils.ErrCodeValidationFailed,
			err.Error(),
			"",
			correlationID,
		))
		return
	}

	if req.EditedBy == "" {
		req.EditedBy = tc.authenticatedUser(c)
	}

	result, err := tc.tableService.SaveSchema(c.Request.Context(), tableKey, &req)
	if err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(result, correlationID))
}

// ListRevisions godoc
// @Summary List schema revisions
// @Description Returns the most recent saved revisions for a table, newest
// first. Empty when the audit store is disabled.
// @Tags tables
// @Produce json
// @Param table_key path string true "Table key"
// @Success 200 {object} response.StandardResponse{data=[]model.SchemaRevision}
// @Router /api/v1/tables/{table_key}/revisions [get]
func (tc *TableConfigController) ListRevisions(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	revisions, err := tc.tableService.ListRevisions(c.Request.Context(), c.Param("table_key"))
	if err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(revisions, correlationID))
}

// DescribeRegistry godoc
// @Summary Describe the registry table
// @Description Returns the column names, types, and comments of the registry
// table itself.
// @Tags registry
// @Produce json
// @Success 200 {object} response.StandardResponse{data=[]model.ColumnInfo}
// @Router /api/v1/registry/describe [get]
func (tc *TableConfigController) DescribeRegistry(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	columns, err := tc.tableService.DescribeRegistry(c.Request.Context())
	if err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse(columns, correlationID))
}

// CreateTable godoc
// @Summary Create a table configuration
// @Description Inserts a new registry row with an empty schema.
// @Tags tables
// @Accept json
// @Produce json
// @Param request body service.CreateTableRequest true "New table configuration"
// @Success 201 {object} response.StandardResponse
// @Failure 400 {object} response.StandardResponse
// @Failure 409 {object} response.StandardResponse
// @Router /api/v1/tables [post]
func (tc *TableConfigController) CreateTable(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	var req service.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidRequest,
			"Invalid request body: "+err.Error(),
			"",
			correlationID,
		))
		return
	}

	if err := tc.validator.Struct(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ErrorResponse(
			utils.ErrCodeValidationFailed,
			err.Error(),
			"",
			correlationID,
		))
		return
	}

	if err := tc.tableService.CreateTable(c.Request.Context(), &req); err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessageResponse(
		"Table configuration created: "+req.TableKey,
		correlationID,
	))
}

// DeleteTable godoc
// @Summary Delete a table configuration
// @Description Removes a registry row. The warehouse table itself is not
// touched.
// @Tags tables
// @Produce json
// @Param table_key path string true "Table key"
// @Success 200 {object} response.StandardResponse
// @Failure 404 {object} response.StandardResponse
// @Router /api/v1/tables/{table_key} [delete]
func (tc *TableConfigController) DeleteTable(c *gin.Context) {
	correlationID := tc.getCorrelationID(c)

	tableKey := c.Param("table_key")
	if err := tc.tableService.DeleteTable(c.Request.Context(), tableKey); err != nil {
		tc.sendError(c, err, correlationID)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessageResponse(
		"Table configuration deleted: "+tableKey,
		correlationID,
	))
}

// Helper methods

func (tc *TableConfigController) sendError(c *gin.Context, err error, correlationID string) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		c.JSON(utils.GetErrorStatus(appErr), response.ErrorResponseFromAppError(appErr, correlationID))
		return
	}
	c.JSON(http.StatusInternalServerError, response.ErrorResponse(
		utils.ErrCodeInternalError,
		err.Error(),
		"",
		correlationID,
	))
}

func (tc *TableConfigController) getCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get("correlation_id"); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}

func (tc *TableConfigController) authenticatedUser(c *gin.Context) string {
	if subject, exists := c.Get("auth_subject"); exists {
		if user, ok := subject.(string); ok {
			return user
		}
	}
	return ""
}
