package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableSessions   = "sessions"
	tableSettings   = "settings"
	tableStatistics = "statistics"

	// singletonID is the primary key of the single settings and statistics rows.
	singletonID = 1
)

var (
	sessionsTable = func() *schema.Table {
		t := schema.NewTable(tableSessions).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "saved_at_ms", Type: field.TypeInt64}).
			AddColumn(&schema.Column{Name: "date", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "type", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "level", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "state", Type: field.TypeString}).
			AddColumn(&schema.Column{Name: "total_items", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "mastered", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "needs_work", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "not_practiced", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "attempts", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "success_rate", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "duration_ms", Type: field.TypeInt64}).
			AddColumn(&schema.Column{Name: "data", Type: field.TypeString})
		t.AddIndex("sessions_saved_at", false, []string{"saved_at_ms"})
		return t
	}()

	settingsTable = schema.NewTable(tableSettings).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "auto_advance", Type: field.TypeBool, Nullable: true}).
			AddColumn(&schema.Column{Name: "count_repeated_status", Type: field.TypeBool, Nullable: true}).
			AddColumn(&schema.Column{Name: "shuffle", Type: field.TypeBool, Nullable: true}).
			AddColumn(&schema.Column{Name: "default_type", Type: field.TypeString, Nullable: true}).
			AddColumn(&schema.Column{Name: "default_level", Type: field.TypeString, Nullable: true}).
			AddColumn(&schema.Column{Name: "canvas_width", Type: field.TypeInt, Nullable: true}).
			AddColumn(&schema.Column{Name: "canvas_height", Type: field.TypeInt, Nullable: true}).
			AddColumn(&schema.Column{Name: "updated_at_ms", Type: field.TypeInt64})

	statisticsTable = schema.NewTable(tableStatistics).
			AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt}).
			AddColumn(&schema.Column{Name: "sessions", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "completed_sessions", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "items_practiced", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "mastered", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "needs_work", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "attempts", Type: field.TypeInt, Default: 0}).
			AddColumn(&schema.Column{Name: "practice_ms", Type: field.TypeInt64, Default: 0}).
			AddColumn(&schema.Column{Name: "updated_at_ms", Type: field.TypeInt64, Default: 0})

	tables = []*schema.Table{sessionsTable, settingsTable, statisticsTable}
)
