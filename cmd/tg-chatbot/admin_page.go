package main

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

type groupStore interface {
	Allowed() (map[int64]bool, error)
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
	Clear(ctx context.Context) error
}

var adminPageTmpl = template.Must(template.New("groups").Parse(`<!DOCTYPE html>
<html>
<head><title>Allowed Groups</title></head>
<body>
<h1>Allowed Groups</h1>
{{if .Notice}}<p><em>{{.Notice}}</em></p>{{end}}
{{if .Groups}}
<table border="1" cellpadding="4">
<tr><th>Chat ID</th><th></th></tr>
{{range .Groups}}
<tr>
<td>{{.}}</td>
<td><form method="post"><input type="hidden" name="action" value="remove"><input type="hidden" name="chat_id" value="{{.}}"><button type="submit">Remove</button></form></td>
</tr>
{{end}}
</table>
<form method="post"><input type="hidden" name="action" value="clear"><button type="submit">Clear all</button></form>
{{else}}
<p>No groups yet. The bot responds in every group until one is added.</p>
{{end}}
<h2>Add group</h2>
<form method="post">
<input type="hidden" name="action" value="add">
<input type="text" name="chat_id" placeholder="-1001234567890">
<button type="submit">Add</button>
</form>
</body>
</html>
`))

type adminPageData struct {
	Groups []int64
	Notice string
}

func newAdminHandler(store groupStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var notice string
		if r.Method == http.MethodPost {
			notice = applyAdminAction(r, store, logger)
		} else if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ids, err := store.Allowed()
		if err != nil {
			logger.Warn("admin_list_failed", "error", err)
			http.Error(w, "failed to read group list", http.StatusInternalServerError)
			return
		}
		sorted := make([]int64, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = adminPageTmpl.Execute(w, adminPageData{Groups: sorted, Notice: notice})
	}
}

func applyAdminAction(r *http.Request, store groupStore, logger *slog.Logger) string {
	action := strings.TrimSpace(r.FormValue("action"))
	switch action {
	case "clear":
		if err := store.Clear(r.Context()); err != nil {
			logger.Warn("admin_clear_failed", "error", err)
			return "Clear failed: " + err.Error()
		}
		return "All groups removed."
	case "add", "remove":
		id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("chat_id")), 10, 64)
		if err != nil {
			return "Invalid chat ID."
		}
		if action == "add" {
			err = store.Add(r.Context(), id)
		} else {
			err = store.Remove(r.Context(), id)
		}
		if err != nil {
			logger.Warn("admin_update_failed", "action", action, "chat_id", id, "error", err)
			return "Update failed: " + err.Error()
		}
		return "Done."
	default:
		return "Unknown action."
	}
}
