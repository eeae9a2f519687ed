package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dayplan/pkg/store"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerDashboardResource(srv, svc)
	registerViewTemplate(srv, svc)
	registerTaskTemplate(srv, svc)
}

func registerDashboardResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"dayplan://dashboard",
		"Dashboard",
		mcp.WithResourceDescription("Today and tomorrow as of the server clock."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		board, err := svc.Dashboard(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, board)
	})
}

func registerViewTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"dayplan://views/{name}",
		"View",
		mcp.WithTemplateDescription("Tasks of one view: today, tomorrow, this_week, next_week, overdue, someday or bank."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := argument(request, "name")
		if name == "" {
			return nil, fmt.Errorf("view name is required")
		}
		items, err := svc.ListTasks(ctx, name, "", store.Filter{})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"view":  name,
			"count": len(items),
			"tasks": items,
		})
	})
}

func registerTaskTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"dayplan://tasks/{id}",
		"Task Details",
		mcp.WithTemplateDescription("Detailed information about a single task."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argument(request, "id")
		if id == "" {
			return nil, fmt.Errorf("task id is required")
		}
		d, err := svc.GetTask(ctx, id, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"task": d,
		})
	})
}

// argument reads a URI template variable. Depending on the matcher it is a
// string or a one-element list.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
