package records

import "github.com/maloquacious/goobcms/internal/store/sqlite"

// Table names shared with the packages that read and write these rows.
const (
	InfoTable                = "info"
	UsersTable               = "users"
	SessionsTable            = "sessions"
	SectionsTable            = "sections"
	EntryBlocksTable         = "entry_blocks"
	EmailMessagesTable       = "email_messages"
	EmailMessageContentTable = "email_message_content"
	SystemSettingsTable      = "system_settings"
	WidgetsTable             = "widgets"
)

// BaseRecord carries the schema-definition behavior every record shares.
// It is registered as abstract and never installed on its own.
type BaseRecord struct {
	sqlite.Table
}

type (
	InfoRecord                struct{ BaseRecord }
	UserRecord                struct{ BaseRecord }
	SessionRecord             struct{ BaseRecord }
	SectionRecord             struct{ BaseRecord }
	EntryBlockRecord          struct{ BaseRecord }
	EmailMessageRecord        struct{ BaseRecord }
	EmailMessageContentRecord struct{ BaseRecord }
	SystemSettingsRecord      struct{ BaseRecord }
	WidgetRecord              struct{ BaseRecord }
)

var idColumn = sqlite.Column{Name: "id", Type: "INTEGER", PrimaryKey: true}

func createdAt() sqlite.Column {
	return sqlite.Column{Name: "created_at", Type: "INTEGER", NotNull: true, Default: "(strftime('%s', 'now'))"}
}

func cascade(column, table string) sqlite.ForeignKey {
	return sqlite.ForeignKey{Column: column, RefTable: table, RefColumn: "id", OnDelete: "CASCADE"}
}

var infoTable = sqlite.Table{
	Name: InfoTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "version", Type: "TEXT", NotNull: true},
		{Name: "build", Type: "TEXT", NotNull: true},
		{Name: "release_date", Type: "INTEGER", NotNull: true},
		{Name: "site_name", Type: "TEXT", NotNull: true},
		{Name: "site_url", Type: "TEXT", NotNull: true},
		{Name: "language", Type: "TEXT", NotNull: true},
		{Name: "license_key", Type: "TEXT", NotNull: true},
		{Name: "installed", Type: "INTEGER", NotNull: true, Default: "0"},
		createdAt(),
	},
}

var usersTable = sqlite.Table{
	Name: UsersTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "username", Type: "TEXT", NotNull: true, Unique: true},
		{Name: "email", Type: "TEXT", NotNull: true, Unique: true},
		{Name: "password_hash", Type: "TEXT", NotNull: true},
		{Name: "admin", Type: "INTEGER", NotNull: true, Default: "0"},
		{Name: "language", Type: "TEXT", NotNull: true, Default: "''"},
		{Name: "last_login_at", Type: "INTEGER"},
		createdAt(),
	},
}

var sessionsTable = sqlite.Table{
	Name: SessionsTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "user_id", Type: "INTEGER", NotNull: true},
		{Name: "token", Type: "TEXT", NotNull: true, Unique: true},
		{Name: "expires_at", Type: "INTEGER", NotNull: true},
		createdAt(),
	},
	Indexes:     []sqlite.Index{{Name: "sessions_user_idx", Columns: []string{"user_id"}}},
	ForeignKeys: []sqlite.ForeignKey{cascade("user_id", UsersTable)},
}

var sectionsTable = sqlite.Table{
	Name: SectionsTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "name", Type: "TEXT", NotNull: true},
		{Name: "handle", Type: "TEXT", NotNull: true, Unique: true},
		{Name: "url_format", Type: "TEXT", NotNull: true, Default: "''"},
		{Name: "has_urls", Type: "INTEGER", NotNull: true, Default: "0"},
		{Name: "template", Type: "TEXT", NotNull: true, Default: "''"},
		createdAt(),
	},
}

var entryBlocksTable = sqlite.Table{
	Name: EntryBlocksTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "section_id", Type: "INTEGER", NotNull: true},
		{Name: "name", Type: "TEXT", NotNull: true},
		{Name: "handle", Type: "TEXT", NotNull: true},
		{Name: "class", Type: "TEXT", NotNull: true},
		{Name: "required", Type: "INTEGER", NotNull: true, Default: "0"},
		{Name: "translatable", Type: "INTEGER", NotNull: true, Default: "0"},
		{Name: "settings", Type: "TEXT", NotNull: true, Default: "'{}'"},
		{Name: "sort_order", Type: "INTEGER", NotNull: true, Default: "0"},
		createdAt(),
	},
	Indexes:     []sqlite.Index{{Name: "entry_blocks_section_handle_idx", Columns: []string{"section_id", "handle"}, Unique: true}},
	ForeignKeys: []sqlite.ForeignKey{cascade("section_id", SectionsTable)},
}

var emailMessagesTable = sqlite.Table{
	Name: EmailMessagesTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "key", Type: "TEXT", NotNull: true, Unique: true},
		createdAt(),
	},
}

var emailMessageContentTable = sqlite.Table{
	Name: EmailMessageContentTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "message_id", Type: "INTEGER", NotNull: true},
		{Name: "language", Type: "TEXT", NotNull: true},
		{Name: "subject", Type: "TEXT", NotNull: true},
		{Name: "body", Type: "TEXT", NotNull: true},
		createdAt(),
	},
	Indexes:     []sqlite.Index{{Name: "email_message_content_lang_idx", Columns: []string{"message_id", "language"}, Unique: true}},
	ForeignKeys: []sqlite.ForeignKey{cascade("message_id", EmailMessagesTable)},
}

var systemSettingsTable = sqlite.Table{
	Name: SystemSettingsTable,
	Columns: []sqlite.Column{
		{Name: "category", Type: "TEXT", PrimaryKey: true},
		{Name: "settings", Type: "TEXT", NotNull: true},
		{Name: "updated_at", Type: "INTEGER", NotNull: true},
	},
}

var widgetsTable = sqlite.Table{
	Name: WidgetsTable,
	Columns: []sqlite.Column{
		idColumn,
		{Name: "user_id", Type: "INTEGER", NotNull: true},
		{Name: "type", Type: "TEXT", NotNull: true},
		{Name: "sort_order", Type: "INTEGER", NotNull: true},
		{Name: "enabled", Type: "INTEGER", NotNull: true, Default: "1"},
		{Name: "settings", Type: "TEXT", NotNull: true, Default: "'{}'"},
		createdAt(),
	},
	Indexes:     []sqlite.Index{{Name: "widgets_user_idx", Columns: []string{"user_id"}}},
	ForeignKeys: []sqlite.ForeignKey{cascade("user_id", UsersTable)},
}

// DefaultCandidates is the compile-time list of schema-definition types.
// Dependent records are listed before the records they reference; the
// installer attaches foreign keys only after every table exists.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Name: "BaseRecord", Kind: Abstract, New: func() any { return &BaseRecord{} }},
		{Name: "InstallableRecord", Kind: Interface},
		{Name: "SessionRecord", Kind: Concrete, New: func() any { return &SessionRecord{BaseRecord{sessionsTable}} }},
		{Name: "WidgetRecord", Kind: Concrete, New: func() any { return &WidgetRecord{BaseRecord{widgetsTable}} }},
		{Name: "InfoRecord", Kind: Concrete, New: func() any { return &InfoRecord{BaseRecord{infoTable}} }},
		{Name: "UserRecord", Kind: Concrete, New: func() any { return &UserRecord{BaseRecord{usersTable}} }},
		{Name: "EntryBlockRecord", Kind: Concrete, New: func() any { return &EntryBlockRecord{BaseRecord{entryBlocksTable}} }},
		{Name: "SectionRecord", Kind: Concrete, New: func() any { return &SectionRecord{BaseRecord{sectionsTable}} }},
		{Name: "EmailMessageContentRecord", Kind: Concrete, New: func() any { return &EmailMessageContentRecord{BaseRecord{emailMessageContentTable}} }},
		{Name: "EmailMessageRecord", Kind: Concrete, New: func() any { return &EmailMessageRecord{BaseRecord{emailMessagesTable}} }},
		{Name: "SystemSettingsRecord", Kind: Concrete, New: func() any { return &SystemSettingsRecord{BaseRecord{systemSettingsTable}} }},
	}
}

// DefaultRegistry returns a registry holding DefaultCandidates.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range DefaultCandidates() {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}
