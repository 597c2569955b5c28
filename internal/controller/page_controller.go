package controller

import (
	"errors"
	"net/http"

	"tableconfig-editor/internal/schema"
	"tableconfig-editor/internal/service"
	"tableconfig-editor/internal/utils"

	"github.com/gin-gonic/gin"
)

// PageController renders the two server-side pages. All editing goes through
// the JSON API; the pages only bootstrap the browser with initial state.
type PageController struct {
	tableService service.TableConfigService
	appTitle     string
}

func NewPageController(tableService service.TableConfigService, appTitle string) *PageController {
	if appTitle == "" {
		appTitle = "Table Config Editor"
	}
	return &PageController{
		tableService: tableService,
		appTitle:     appTitle,
	}
}

// ListPage renders the registry browser with the source system filter options.
func (pc *PageController) ListPage(c *gin.Context) {
	systems, err := pc.tableService.ListSourceSystems(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, "list.html", gin.H{
			"title": pc.appTitle,
			"error": "Failed to reach the warehouse: " + err.Error(),
		})
		return
	}

	c.HTML(http.StatusOK, "list.html", gin.H{
		"title":         pc.appTitle,
		"sourceSystems": systems,
	})
}

// EditPage renders the schema editor for one table. A malformed stored schema
// becomes a page-level error with the raw value shown, never a crash.
func (pc *PageController) EditPage(c *gin.Context) {
	tableKey := c.Param("table_key")

	result, err := pc.tableService.GetTableConfig(c.Request.Context(), tableKey)
	if err != nil {
		data := gin.H{
			"title":    pc.appTitle,
			"tableKey": tableKey,
			"error":    err.Error(),
		}
		var appErr *utils.AppError
		if errors.As(err, &appErr) && appErr.Raw != "" {
			data["rawSchema"] = appErr.Raw
		}
		c.HTML(http.StatusOK, "edit.html", data)
		return
	}

	c.HTML(http.StatusOK, "edit.html", gin.H{
		"title":       pc.appTitle,
		"tableKey":    tableKey,
		"config":      result,
		"typeOptions": schema.TypeOptions,
	})
}
