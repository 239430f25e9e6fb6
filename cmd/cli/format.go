package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/walloffame/wof/internal/models"
)

// winSummary is what the CLI shows of a win. Records are passed through
// from the backend untouched, so every field here is best effort.
type winSummary struct {
	ID          string
	Title       string
	Description string
	Author      string
	Created     string
}

func (s winSummary) Meta() string {
	var parts []string
	if len(s.Author) > 0 {
		parts = append(parts, "by "+s.Author)
	}
	if len(s.Created) > 0 {
		parts = append(parts, s.Created)
	}
	if len(s.ID) > 0 {
		parts = append(parts, "#"+s.ID)
	}
	return strings.Join(parts, " · ")
}

func summarizeWin(win models.WinRecord) winSummary {
	var record map[string]any
	if err := json.Unmarshal(win, &record); err != nil {
		return winSummary{Title: strings.TrimSpace(string(win))}
	}

	summary := winSummary{
		ID:          firstString(record, "id", "_id"),
		Title:       firstString(record, "title", "name"),
		Description: firstString(record, "description", "body", "text"),
		Created:     formatCreated(firstString(record, "createdAt", "created_at", "date")),
	}

	switch author := record["user"].(type) {
	case map[string]any:
		summary.Author = firstString(author, "name", "email")
	case string:
		summary.Author = author
	}
	if len(summary.Author) == 0 {
		summary.Author = firstString(record, "author", "userName")
	}

	if len(summary.Title) == 0 {
		summary.Title = "(untitled)"
	}

	return summary
}

func firstString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := record[key].(type) {
		case string:
			if s := strings.TrimSpace(v); len(s) > 0 {
				return s
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func formatCreated(value string) string {
	if len(value) == 0 {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Local().Format("2006-01-02 15:04")
	}
	return value
}
