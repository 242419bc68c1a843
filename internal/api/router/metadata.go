package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
	"github.com/DjordjeVuckovic/relecov-tools/internal/catalog"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/loader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

type ValidateRequest struct {
	// Schema is a registered schema id, e.g. "relecov@2.1" or "relecov"
	Schema        string          `json:"schema" validate:"required" example:"relecov"`
	RecordIDField string          `json:"recordIdField,omitempty" example:"sample_id"`
	Strict        bool            `json:"strict,omitempty"`
	Records       []record.Record `json:"records" validate:"required" swaggertype:"array,object"`
}

type MapRequest struct {
	Mapping       string          `json:"mapping" validate:"required" example:"relecov-to-ena"`
	RecordIDField string          `json:"recordIdField,omitempty" example:"sample_id"`
	Records       []record.Record `json:"records" validate:"required" swaggertype:"array,object"`
}

type SchemaList struct {
	Schemas []string `json:"schemas" example:"ena@1,relecov@2.1"`
}

type MappingInfo struct {
	Name   string        `json:"name" example:"relecov-to-ena"`
	Source string        `json:"source" example:"relecov@2.1"`
	Target string        `json:"target" example:"ena@1"`
	Gaps   []mapping.Gap `json:"gaps"`
}

type MetadataRouter struct {
	e         *echo.Echo
	catalog   *catalog.Catalog
	workers   int
	observers []batch.Observer
}

type MetadataRouterOption func(*MetadataRouter)

func WithWorkers(n int) MetadataRouterOption {
	return func(r *MetadataRouter) {
		r.workers = n
	}
}

func WithObserver(obs batch.Observer) MetadataRouterOption {
	return func(r *MetadataRouter) {
		r.observers = append(r.observers, obs)
	}
}

func NewMetadataRouter(e *echo.Echo, c *catalog.Catalog, opts ...MetadataRouterOption) *MetadataRouter {
	r := &MetadataRouter{
		e:       e,
		catalog: c,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MetadataRouter) Bind() {
	v1 := r.e.Group("/v1")
	v1.POST("/validate", r.validateHandler)
	v1.POST("/map", r.mapHandler)
	v1.GET("/schemas", r.listSchemasHandler)
	v1.GET("/schemas/:id", r.schemaHandler)
	v1.GET("/mappings", r.listMappingsHandler)
}

func (r *MetadataRouter) orchestratorOptions(idField string) []batch.Option {
	opts := []batch.Option{batch.WithWorkers(r.workers), batch.WithRecordID(idField)}
	for _, obs := range r.observers {
		opts = append(opts, batch.WithObserver(obs))
	}
	return opts
}

// validateHandler godoc
// @Summary Validate records against a schema
// @Description Checks every record against the named schema. Invalid records never stop the batch.
// @Tags metadata
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Schema and records"
// @Success 200 {object} batch.Report
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /v1/validate [post]
func (r *MetadataRouter) validateHandler(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, ok := r.catalog.Schema(req.Schema)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "schema "+req.Schema+" is not registered")
	}

	opts := r.orchestratorOptions(req.RecordIDField)
	if req.Strict {
		opts = append(opts, batch.WithValidator(validate.New(validate.WithUnknownFields(validate.UnknownReport))))
	}
	o, err := batch.NewOrchestrator(s, opts...)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, o.Run(req.Records))
}

// mapHandler godoc
// @Summary Validate and map records
// @Description Validates records against the mapping's source schema, maps the valid ones and validates the result against the target schema.
// @Tags metadata
// @Accept json
// @Produce json
// @Param request body MapRequest true "Mapping and records"
// @Success 200 {object} batch.Report
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Router /v1/map [post]
func (r *MetadataRouter) mapHandler(c echo.Context) error {
	var req MapRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m, ok := r.catalog.Mapper(req.Mapping)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "mapping "+req.Mapping+" is not registered")
	}

	o, err := batch.NewOrchestrator(m.Source(), append(r.orchestratorOptions(req.RecordIDField), batch.WithMapper(m))...)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, o.Run(req.Records))
}

// listSchemasHandler godoc
// @Summary List registered schemas
// @Tags schemas
// @Produce json
// @Success 200 {object} SchemaList
// @Router /v1/schemas [get]
func (r *MetadataRouter) listSchemasHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, SchemaList{Schemas: r.catalog.SchemaIDs()})
}

// schemaHandler godoc
// @Summary Export a schema as JSON Schema
// @Tags schemas
// @Produce json
// @Param id path string true "Schema id"
// @Success 200 {object} object
// @Failure 404 {object} apperr.ErrorResponse
// @Router /v1/schemas/{id} [get]
func (r *MetadataRouter) schemaHandler(c echo.Context) error {
	s, ok := r.catalog.Schema(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "schema "+c.Param("id")+" is not registered")
	}
	return c.JSON(http.StatusOK, loader.ExportJSONSchema(s))
}

// listMappingsHandler godoc
// @Summary List registered mappings with their translation gaps
// @Tags mappings
// @Produce json
// @Success 200 {array} MappingInfo
// @Router /v1/mappings [get]
func (r *MetadataRouter) listMappingsHandler(c echo.Context) error {
	names := r.catalog.MappingNames()
	out := make([]MappingInfo, 0, len(names))
	for _, name := range names {
		m, _ := r.catalog.Mapper(name)
		out = append(out, MappingInfo{
			Name:   name,
			Source: m.Source().ID(),
			Target: m.Target().ID(),
			Gaps:   gaps(m.Spec(), m.Source(), m.Target()),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func gaps(spec *mapping.Spec, source, target *schema.Schema) []mapping.Gap {
	g := mapping.CheckTranslations(spec, source, target)
	if g == nil {
		return []mapping.Gap{}
	}
	return g
}
