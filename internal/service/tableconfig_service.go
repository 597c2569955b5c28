package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"tableconfig-editor/internal/middleware"
	"tableconfig-editor/internal/model"
	"tableconfig-editor/internal/repository"
	"tableconfig-editor/internal/schema"
	"tableconfig-editor/internal/utils"
)

type TableConfigService interface {
	ListTables(ctx context.Context, req *ListTablesRequest) (*ListTablesResponse, error)
	ListSourceSystems(ctx context.Context) ([]string, error)
	GetTableConfig(ctx context.Context, tableKey string) (*TableConfigResponse, error)
	SaveSchema(ctx context.Context, tableKey string, req *SaveSchemaRequest) (*SaveSchemaResponse, error)
	ListRevisions(ctx context.Context, tableKey string) ([]*model.SchemaRevision, error)
	DescribeRegistry(ctx context.Context) ([]*model.ColumnInfo, error)
	CreateTable(ctx context.Context, req *CreateTableRequest) error
	DeleteTable(ctx context.Context, tableKey string) error
}

type tableConfigService struct {
	repo      repository.TableConfigRepository
	revisions repository.RevisionRepository // nil when revision history is disabled
}

type ListTablesRequest struct {
	SourceSystem string `json:"sourceSystem,omitempty"`
	TableKey     string `json:"tableKey,omitempty"`
	TableName    string `json:"tableName,omitempty"`
	Limit        int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset       int    `json:"offset,omitempty" validate:"omitempty,min=0"`
}

type ListTablesResponse struct {
	Tables []*model.TableSummary `json:"tables"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type TableConfigResponse struct {
	TableKey        string             `json:"tableKey"`
	SourceSystem    string             `json:"sourceSystem"`
	TableName       string             `json:"tableName"`
	RawSchema       string             `json:"rawSchema"`
	PrimaryKeys     []string           `json:"primaryKeys"`
	ScdJoinKeys     []string           `json:"scdJoinKeys"`
	ScdSequenceKeys []string           `json:"scdSequenceKeys"`
	Fields          []schema.FieldSpec `json:"fields"`
	Grid            schema.Grid        `json:"grid"`
}

type SaveSchemaRequest struct {
	Rows     []schema.EditableRow `json:"rows" validate:"required"`
	EditedBy string               `json:"editedBy,omitempty"`
}

type SaveSchemaResponse struct {
	TableKey        string          `json:"tableKey"`
	Document        schema.Document `json:"document"`
	PrimaryKeys     []string        `json:"primaryKeys"`
	ScdJoinKeys     []string        `json:"scdJoinKeys"`
	ScdSequenceKeys []string        `json:"scdSequenceKeys"`
}

type CreateTableRequest struct {
	TableKey     string `json:"tableKey" validate:"required,min=1,max=255"`
	SourceSystem string `json:"sourceSystem" validate:"required,min=1,max=255"`
	TableName    string `json:"tableName" validate:"required,min=1,max=255"`
}

const revisionListLimit = 50

// NewTableConfigService creates a new instance of TableConfigService.
// revisions may be nil when the audit store is not configured.
func NewTableConfigService(repo repository.TableConfigRepository, revisions repository.RevisionRepository) TableConfigService {
	return &tableConfigService{repo: repo, revisions: revisions}
}

func (s *tableConfigService) ListTables(ctx context.Context, req *ListTablesRequest) (*ListTablesResponse, error) {
	// Set default values
	if req.Limit == 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, utils.NewWarehouseError(err, "failed to list table configurations")
	}

	filtered := make([]*model.TableSummary, 0, len(summaries))
	for _, summary := range summaries {
		if req.SourceSystem != "" && summary.SourceSystem != req.SourceSystem {
			continue
		}
		if req.TableKey != "" && !containsFold(summary.TableKey, req.TableKey) {
			continue
		}
		if req.TableName != "" && !containsFold(summary.TableName, req.TableName) {
			continue
		}
		// The raw schema string is too large for the list view.
		filtered = append(filtered, &model.TableSummary{
			TableKey:     summary.TableKey,
			SourceSystem: summary.SourceSystem,
			TableName:    summary.TableName,
		})
	}

	total := len(filtered)
	start := req.Offset
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	return &ListTablesResponse{
		Tables: filtered[start:end],
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	}, nil
}

func (s *tableConfigService) ListSourceSystems(ctx context.Context) ([]string, error) {
	summaries, err := s.repo.List(ctx)
	if err != nil {
		return nil, utils.NewWarehouseError(err, "failed to list source systems")
	}

	seen := map[string]bool{}
	systems := []string{}
	for _, summary := range summaries {
		if summary.SourceSystem == "" || seen[summary.SourceSystem] {
			continue
		}
		seen[summary.SourceSystem] = true
		systems = append(systems, summary.SourceSystem)
	}
	sort.Strings(systems)
	return systems, nil
}

func (s *tableConfigService) GetTableConfig(ctx context.Context, tableKey string) (*TableConfigResponse, error) {
	config, err := s.repo.Get(ctx, tableKey)
	if err != nil {
		if err == repository.ErrTableNotFound {
			return nil, utils.NewTableNotFoundError(tableKey)
		}
		return nil, utils.NewWarehouseError(err, "failed to fetch table configuration")
	}

	primaryKeys := schema.ParseKeyList(config.PrimaryKeys)
	scdJoinKeys := schema.ParseKeyList(config.ScdJoinKeys)
	scdSequenceKeys := schema.ParseKeyList(config.ScdSequenceKeys)

	fields, err := schema.ParseDocument(config.DataSchema)
	if err != nil {
		// Malformed schema blocks editing; the operator sees the raw value.
		return nil, utils.NewSchemaInvalidError(err, tableKey, config.DataSchema)
	}

	return &TableConfigResponse{
		TableKey:        config.TableKey,
		SourceSystem:    config.SourceSystem,
		TableName:       config.TableName,
		RawSchema:       config.DataSchema,
		PrimaryKeys:     primaryKeys,
		ScdJoinKeys:     scdJoinKeys,
		ScdSequenceKeys: scdSequenceKeys,
		Fields:          fields,
		Grid:            schema.ToGrid(fields, primaryKeys, scdJoinKeys, scdSequenceKeys),
	}, nil
}

func (s *tableConfigService) SaveSchema(ctx context.Context, tableKey string, req *SaveSchemaRequest) (*SaveSchemaResponse, error) {
	// Reload the persisted document so undisplayed metadata merges against
	// the current state, not a stale client copy. Last write still wins.
	config, err := s.repo.Get(ctx, tableKey)
	if err != nil {
		if err == repository.ErrTableNotFound {
			return nil, utils.NewTableNotFoundError(tableKey)
		}
		return nil, utils.NewWarehouseError(err, "failed to fetch table configuration")
	}

	originalFields, err := schema.ParseDocument(config.DataSchema)
	if err != nil {
		return nil, utils.NewSchemaInvalidError(err, tableKey, config.DataSchema)
	}

	doc, primaryKeys, scdJoinKeys, scdSequenceKeys := schema.FromGrid(req.Rows, originalFields)

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema document: %w", err)
	}

	if err := s.repo.UpdateDataSchema(ctx, tableKey, string(docJSON)); err != nil {
		middleware.RecordSchemaSave("error", 0)
		return nil, utils.NewWarehouseError(err, "failed to save schema")
	}
	if err := s.repo.UpdateColumns(ctx, tableKey, keyColumnUpdates(primaryKeys, scdJoinKeys, scdSequenceKeys)); err != nil {
		middleware.RecordSchemaSave("error", 0)
		return nil, utils.NewWarehouseError(err, "schema saved but key columns failed to update")
	}
	middleware.RecordSchemaSave("success", len(doc.Fields))

	s.appendRevision(ctx, tableKey, string(docJSON), primaryKeys, scdJoinKeys, scdSequenceKeys, req.EditedBy)

	return &SaveSchemaResponse{
		TableKey:        tableKey,
		Document:        doc,
		PrimaryKeys:     primaryKeys,
		ScdJoinKeys:     scdJoinKeys,
		ScdSequenceKeys: scdSequenceKeys,
	}, nil
}

func (s *tableConfigService) ListRevisions(ctx context.Context, tableKey string) ([]*model.SchemaRevision, error) {
	if s.revisions == nil {
		return []*model.SchemaRevision{}, nil
	}
	revisions, err := s.revisions.ListByTableKey(ctx, tableKey, revisionListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

func (s *tableConfigService) DescribeRegistry(ctx context.Context) ([]*model.ColumnInfo, error) {
	columns, err := s.repo.Describe(ctx)
	if err != nil {
		return nil, utils.NewWarehouseError(err, "failed to describe registry table")
	}
	return columns, nil
}

func (s *tableConfigService) CreateTable(ctx context.Context, req *CreateTableRequest) error {
	if _, err := s.repo.Get(ctx, req.TableKey); err == nil {
		return utils.NewConflictError(fmt.Sprintf("table configuration %q already exists", req.TableKey))
	} else if err != repository.ErrTableNotFound {
		return utils.NewWarehouseError(err, "failed to check for existing configuration")
	}

	values := map[string]string{
		model.ColTableKey:     req.TableKey,
		model.ColSourceSystem: req.SourceSystem,
		model.ColTableName:    req.TableName,
	}
	if err := s.repo.Insert(ctx, values); err != nil {
		return utils.NewWarehouseError(err, "failed to create table configuration")
	}
	return nil
}

func (s *tableConfigService) DeleteTable(ctx context.Context, tableKey string) error {
	if _, err := s.repo.Get(ctx, tableKey); err != nil {
		if err == repository.ErrTableNotFound {
			return utils.NewTableNotFoundError(tableKey)
		}
		return utils.NewWarehouseError(err, "failed to fetch table configuration")
	}
	if err := s.repo.Delete(ctx, tableKey); err != nil {
		return utils.NewWarehouseError(err, "failed to delete table configuration")
	}
	return nil
}

// appendRevision records the saved state in the audit store. Audit failures
// never fail the save.
func (s *tableConfigService) appendRevision(ctx context.Context, tableKey, docJSON string, primaryKeys, scdJoinKeys, scdSequenceKeys []string, editedBy string) {
	if s.revisions == nil {
		return
	}
	revision := &model.SchemaRevision{
		TableKey:        tableKey,
		DataSchema:      docJSON,
		PrimaryKeys:     schema.FormatKeyList(primaryKeys),
		ScdJoinKeys:     schema.FormatKeyList(scdJoinKeys),
		ScdSequenceKeys: schema.FormatKeyList(scdSequenceKeys),
		EditedBy:        editedBy,
	}
	if err := s.revisions.Append(ctx, revision); err != nil {
		log.Printf("Warning: failed to record schema revision for %s: %v", tableKey, err)
	}
}

// keyColumnUpdates serializes the three key lists for persistence: JSON array
// strings, NULL when a list is empty.
func keyColumnUpdates(primaryKeys, scdJoinKeys, scdSequenceKeys []string) map[string]*string {
	updates := make(map[string]*string, 3)
	updates[model.ColPrimaryKeys] = keyColumnValue(primaryKeys)
	updates[model.ColScdJoinKeys] = keyColumnValue(scdJoinKeys)
	updates[model.ColScdSequenceKeys] = keyColumnValue(scdSequenceKeys)
	return updates
}

func keyColumnValue(keys []string) *string {
	if len(keys) == 0 {
		return nil
	}
	value := schema.FormatKeyList(keys)
	return &value
}

func containsFold(s, substring string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substring))
}
