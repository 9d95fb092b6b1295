package domain

import "time"

// Language visibility configuration values, mirroring the host CMS
// page-level l18n_cfg field:
//   - 0: visible in default language and translations
//   - 1: hidden in default language
//   - 2: visible in default language only (hide untranslated)
const (
	LangCfgDefault          = 0
	LangCfgHideDefault      = 1
	LangCfgHideUntranslated = 2
)

// Post is a blog post: a content record with blog-specific fields
// overlaid on a generic page record of the host CMS.
type Post struct {
	ID    uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug  string `gorm:"column:slug;type:varchar(255);index" json:"slug"`

	// Abstract is the teaser text, Description feeds the meta tags
	Abstract    string `gorm:"column:abstract;type:text" json:"abstract"`
	Description string `gorm:"column:description;type:text" json:"description"`

	// PublishDate and ArchiveDate are unix timestamps.
	// ArchiveDate 0 means the post never archives.
	PublishDate int64 `gorm:"column:publish_date;index" json:"publish_date"`
	ArchiveDate int64 `gorm:"column:archive_date" json:"archive_date"`

	// PublishMonth/PublishYear are denormalized from PublishDate to keep
	// archive queries index-friendly. Maintained by the write-time hook.
	PublishMonth int `gorm:"column:publish_month;index:idx_blog_posts_period" json:"publish_month"`
	PublishYear  int `gorm:"column:publish_year;index:idx_blog_posts_period" json:"publish_year"`

	// LanguageID 0 is the default language; translations reference their
	// default-language original through TranslationParentID.
	LanguageID          int    `gorm:"column:language_id;index" json:"language_id"`
	TranslationParentID uint64 `gorm:"column:translation_parent_id;index" json:"translation_parent_id"`
	LanguageVisibility  int    `gorm:"column:language_visibility" json:"language_visibility"`

	// StorageID is the parent location of the record in the host CMS
	StorageID uint64 `gorm:"column:storage_id;index" json:"storage_id"`

	FeaturedImage string `gorm:"column:featured_image;type:varchar(500)" json:"featured_image"`
	// LegacyMedia holds the pre-migration media reference, cleared by the
	// featured-image migration
	LegacyMedia string `gorm:"column:legacy_media;type:varchar(500)" json:"-"`

	Categories []Category `gorm:"many2many:blog_post_categories" json:"categories,omitempty"`
	Tags       []Tag      `gorm:"many2many:blog_post_tags" json:"tags,omitempty"`
	Authors    []Author   `gorm:"many2many:blog_post_authors" json:"authors,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the posts table name
func (Post) TableName() string { return "blog_posts" }

// Archived reports whether the post has passed its archive date
func (p *Post) Archived(now time.Time) bool {
	return p.ArchiveDate != 0 && p.ArchiveDate < now.Unix()
}

// Category groups posts thematically; many-to-many with Post
type Category struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255)" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the categories table name
func (Category) TableName() string { return "blog_categories" }

// Tag is a free-form label; many-to-many with Post
type Tag struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255)" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the tags table name
func (Tag) TableName() string { return "blog_tags" }

// Author is a blog author profile; many-to-many with Post
type Author struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255)" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	Website   string    `gorm:"column:website;type:varchar(500)" json:"website,omitempty"`
	Bio       string    `gorm:"column:bio;type:text" json:"bio,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName sets the authors table name
func (Author) TableName() string { return "blog_authors" }

// ArchivePeriod is one month/year bucket with its post count
type ArchivePeriod struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}
