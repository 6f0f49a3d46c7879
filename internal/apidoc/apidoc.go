// Package apidoc describes the dialog host routes as an OpenAPI 3 document.
package apidoc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

// Options selects what the document enumerates.
type Options struct {
	Title   string
	Version string
	// Dialogs lists the registered dialog names.
	Dialogs []string
	// Formats lists the accepted ?format= values.
	Formats []string
	// Locales lists the negotiable locales.
	Locales []string
	// Params lists the dialog page parameters, documented as query
	// parameters of the render route.
	Params []dialog.Param
}

// reservedParams are the query parameters the host itself consumes.
var reservedParams = map[string]struct{}{
	"format":  {},
	"lang":    {},
	"theme":   {},
	"variant": {},
}

// Build assembles and validates the document.
func Build(ctx context.Context, opts Options) (*openapi3.T, error) {
	if opts.Title == "" {
		opts.Title = "webdialog"
	}
	if opts.Version == "" {
		opts.Version = "0.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
	}

	doc.AddOperation("/dialogs/{name}", http.MethodGet, renderOperation(opts))
	doc.AddOperation("/dialogs", http.MethodGet, listOperation())
	doc.AddOperation("/healthz", http.MethodGet, healthOperation())

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: validate document: %w", err)
	}
	return doc, nil
}

func renderOperation(opts Options) *openapi3.Operation {
	nameSchema := openapi3.NewStringSchema()
	if len(opts.Dialogs) > 0 {
		nameSchema = nameSchema.WithEnum(toAny(opts.Dialogs)...)
	}
	formatSchema := openapi3.NewStringSchema()
	if len(opts.Formats) > 0 {
		formatSchema = formatSchema.WithEnum(toAny(opts.Formats)...)
		formatSchema.Default = opts.Formats[0]
	}
	langSchema := openapi3.NewStringSchema()
	if len(opts.Locales) > 0 {
		langSchema = langSchema.WithEnum(toAny(opts.Locales)...)
	}

	op := openapi3.NewOperation()
	op.OperationID = "renderDialog"
	op.Summary = "Render a dialog"
	op.Parameters = openapi3.Parameters{
		{Value: openapi3.NewPathParameter("name").WithSchema(nameSchema)},
		{Value: openapi3.NewQueryParameter("format").
			WithDescription("Output renderer.").
			WithSchema(formatSchema)},
		{Value: openapi3.NewQueryParameter("lang").
			WithDescription("Locale; falls back to Accept-Language.").
			WithSchema(langSchema)},
		{Value: openapi3.NewQueryParameter("theme").WithSchema(openapi3.NewStringSchema())},
		{Value: openapi3.NewQueryParameter("variant").WithSchema(openapi3.NewStringSchema())},
	}
	seen := make(map[string]struct{}, len(opts.Params))
	for _, param := range opts.Params {
		if _, reserved := reservedParams[param.Name]; reserved {
			continue
		}
		if _, dup := seen[param.Name]; dup {
			continue
		}
		seen[param.Name] = struct{}{}

		schema := openapi3.NewStringSchema()
		if param.Pattern != nil {
			schema = schema.WithPattern(param.Pattern.String())
		}
		if param.Fallback != "" {
			schema.Default = param.Fallback
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter(param.Name).
				WithDescription(param.Description).
				WithSchema(schema),
		})
	}

	html := openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})
	fragment := openapi3.NewContentWithJSONSchema(pageSchema())
	for mediaType, media := range fragment {
		html[mediaType] = media
	}

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Rendered dialog.").
			WithContent(html)}),
		openapi3.WithStatus(http.StatusBadRequest, errorResponse("Unknown format or theme.")),
		openapi3.WithStatus(http.StatusNotFound, errorResponse("Unknown dialog.")),
		openapi3.WithStatus(http.StatusInternalServerError, errorResponse("Render failure.")),
	)
	return op
}

func listOperation() *openapi3.Operation {
	entry := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("module", moduleSchema())

	op := openapi3.NewOperation()
	op.OperationID = "listDialogs"
	op.Summary = "List registered dialogs"
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Registered dialogs.").
			WithJSONSchema(openapi3.NewArraySchema().WithItems(entry))}),
	)
	return op
}

func healthOperation() *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "health"
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Host is up.")}),
	)
	return op
}

func pageSchema() *openapi3.Schema {
	include := openapi3.NewObjectSchema().
		WithProperty("path", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema().WithEnum("script", "stylesheet"))
	cssVar := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("value", openapi3.NewStringSchema())

	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("locale", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("module", moduleSchema()).
		WithProperty("includes", openapi3.NewArraySchema().WithItems(include)).
		WithProperty("css_vars", openapi3.NewArraySchema().WithItems(cssVar)).
		WithProperty("script", openapi3.NewStringSchema()).
		WithProperty("onload", openapi3.NewStringSchema()).
		WithProperty("body", openapi3.NewStringSchema())
}

func moduleSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema().WithEnum("list", "item"))
}

func errorResponse(description string) *openapi3.ResponseRef {
	body := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("request_id", openapi3.NewStringSchema())
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchema(body)}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
