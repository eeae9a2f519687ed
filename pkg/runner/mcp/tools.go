package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/view"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListTasksTool(srv, svc)
	registerGetTaskTool(srv, svc)
	registerCreateTaskTool(srv, svc)
	registerDeleteTaskTool(srv, svc)
	registerDeleteCompletedTool(srv, svc)
	registerToggleTool(srv, svc, "toggle_complete", instance.FieldCompleted, "Toggle completion of a task or, for recurring tasks, of one occurrence.")
	registerToggleTool(srv, svc, "toggle_pin_today", instance.FieldPinnedToday, "Toggle the pin that forces a task or occurrence into Today.")
	registerToggleTool(srv, svc, "toggle_pin_tomorrow", instance.FieldPinnedTomorrow, "Toggle the pin that forces a task or occurrence into Tomorrow.")
	registerCompleteAllFutureTool(srv, svc)
}

func withNow() mcp.ToolOption {
	return mcp.WithString("now",
		mcp.Description("Caller's current time as RFC3339 with offset. Decides which day is today."),
	)
}

func viewNames() []string {
	names := make([]string, 0, len(view.AllNames()))
	for _, n := range view.AllNames() {
		names = append(names, string(n))
	}
	return names
}

func registerListTasksTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List the tasks of a view. Recurring tasks appear once per occurrence."),
		mcp.WithString("view",
			mcp.Description("View to list. The dashboard returns today and tomorrow."),
			mcp.Enum(viewNames()...),
		),
		mcp.WithString("folder",
			mcp.Description("Optional folder id filter."),
		),
		mcp.WithString("tag",
			mcp.Description("Optional tag id filter."),
		),
		mcp.WithString("search",
			mcp.Description("Optional case-insensitive text filter."),
		),
		withNow(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := strings.TrimSpace(request.GetString("view", string(view.Dashboard)))
		now := request.GetString("now", "")

		if v, err := view.ParseName(name); err == nil && v == view.Dashboard {
			board, err := svc.Dashboard(ctx, now)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(board)
		}

		f := store.Filter{
			FolderID: request.GetString("folder", ""),
			Search:   request.GetString("search", ""),
		}
		if tag := request.GetString("tag", ""); tag != "" {
			f.TagIDs = []string{tag}
		}
		items, err := svc.ListTasks(ctx, name, now, f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"view":  name,
			"tasks": items,
			"count": len(items),
		})
	})
}

func registerGetTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_task",
		mcp.WithDescription("Fetch a single task with its recurrence summary and current views."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to fetch."),
		),
		withNow(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		d, err := svc.GetTask(ctx, id, request.GetString("now", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(d)
	})
}

func registerCreateTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_task",
		mcp.WithDescription("Create a task. The fields used depend on task_type."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title."),
		),
		mcp.WithString("description",
			mcp.Description("Optional longer description."),
		),
		mcp.WithString("task_type",
			mcp.Description("Temporal kind of the task."),
			mcp.Enum("none", "deadline", "date_range", "scheduled_time", "recurring"),
		),
		mcp.WithString("deadline",
			mcp.Description("RFC3339 due moment for deadline tasks."),
		),
		mcp.WithString("scheduled",
			mcp.Description("RFC3339 moment for scheduled_time tasks."),
		),
		mcp.WithString("range_start",
			mcp.Description("First day (YYYY-MM-DD) of a date_range task."),
		),
		mcp.WithString("range_end",
			mcp.Description("Last day (YYYY-MM-DD) of a date_range task."),
		),
		mcp.WithString("recurrence_pattern",
			mcp.Description("Rule of a recurring task."),
			mcp.Enum("daily", "weekly", "monthly", "yearly", "specific_dates"),
		),
		mcp.WithArray("days_of_week",
			mcp.Description("Weekdays for weekly repeats, 0 is Sunday."),
			mcp.WithNumberItems(mcp.Min(0), mcp.Max(6)),
		),
		mcp.WithNumber("week_interval",
			mcp.Description("Repeat every N weeks."),
			mcp.Min(1),
		),
		mcp.WithNumber("day_of_month",
			mcp.Description("Day of the month for monthly and yearly repeats."),
			mcp.Min(1),
			mcp.Max(31),
		),
		mcp.WithNumber("month",
			mcp.Description("Month (1-12) for yearly repeats."),
			mcp.Min(1),
			mcp.Max(12),
		),
		mcp.WithArray("specific_dates",
			mcp.Description("Days (YYYY-MM-DD) for specific_dates repeats."),
			mcp.WithStringItems(),
		),
		mcp.WithString("start",
			mcp.Description("First day of the repeat. Defaults to today."),
		),
		mcp.WithString("end",
			mcp.Description("Optional last day of the repeat."),
		),
		mcp.WithArray("tags",
			mcp.Description("Tag ids."),
			mcp.WithStringItems(),
		),
		mcp.WithString("folder",
			mcp.Description("Folder id."),
		),
		withNow(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateTaskOptions
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		t, err := svc.CreateTask(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerDeleteTaskTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task. Recurring tasks lose all occurrence state."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteTask(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted %s", id)), nil
	})
}

func registerDeleteCompletedTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_completed",
		mcp.WithDescription("Delete every completed task."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := svc.DeleteCompleted(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": ids,
			"count":   len(ids),
		})
	})
}

func registerToggleTool(srv *server.MCPServer, svc *Service, name string, field instance.Field, description string) {
	tool := mcp.NewTool(
		name,
		mcp.WithDescription(description),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier."),
		),
		mcp.WithString("date",
			mcp.Description("Occurrence day (YYYY-MM-DD) for recurring tasks. Defaults to today."),
		),
		withNow(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Toggle(ctx, id, field, request.GetString("date", ""), request.GetString("now", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerCompleteAllFutureTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"complete_all_future",
		mcp.WithDescription("Stop a recurring task. Past occurrences keep their state."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Recurring task identifier."),
		),
		mcp.WithString("from",
			mcp.Description("First day (YYYY-MM-DD) without occurrences. Defaults to the next open occurrence."),
		),
		withNow(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.CompleteAllFuture(ctx, id, request.GetString("from", ""), request.GetString("now", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
