package itembank

import "time"

// OwnerType tags the owner of a child record.
type OwnerType string

const (
	OwnerDraft OwnerType = "draft"
	OwnerProd  OwnerType = "prod"
)

// IsValid reports whether t is a known owner type.
func (t OwnerType) IsValid() bool {
	return t == OwnerDraft || t == OwnerProd
}

// ItemStatus is the authoring state of a draft item.
type ItemStatus string

const (
	StatusDraft            ItemStatus = "draft"
	StatusInReview         ItemStatus = "in_review"
	StatusChangesRequested ItemStatus = "changes_requested"
	StatusArchived         ItemStatus = "archived"
)

// ItemType is the answer format of an item.
type ItemType string

const (
	ItemTypeMCQ         ItemType = "mcq"
	ItemTypeMultiSelect ItemType = "multi_select"
	ItemTypeNumeric     ItemType = "numeric"
	ItemTypeShortText   ItemType = "short_text"
	ItemTypeProof       ItemType = "proof"
)

// Strand groups concepts by curriculum area.
type Strand string

const (
	StrandAlgebra   Strand = "algebra"
	StrandFunctions Strand = "functions"
	StrandGeometry  Strand = "geometry"
	StrandCalculus  Strand = "calculus"
	StrandStats     Strand = "stats"
)

// Role is a user's role in the authoring workflow.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleContentAuthor Role = "content-author"
	RoleReviewer      Role = "reviewer"
	RoleTeacher       Role = "teacher"
	RoleStudent       Role = "student"
)

// ReviewDecision is the outcome of a review.
type ReviewDecision string

const (
	DecisionApproved         ReviewDecision = "approved"
	DecisionRejected         ReviewDecision = "rejected"
	DecisionChangesRequested ReviewDecision = "changes_requested"
)

// Metadata holds an opaque JSON object.
type Metadata map[string]any

// User is an account known to the authoring tools.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Concept is a node of the curriculum tree.
type Concept struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	NameAr     string    `json:"name_ar"`
	Grade      int       `json:"grade"`
	Strand     Strand    `json:"strand"`
	ParentID   *string   `json:"parent_id"`
	OrderIndex int       `json:"order_index"`
	Meta       Metadata  `json:"meta"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tag is a free label attached to draft items.
type Tag struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	NameAr    string    `json:"name_ar"`
	Kind      *string   `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// MediaAsset is a stored file referenced by items.
//
// DownloadURL is computed by the service from S3URL and is never persisted.
type MediaAsset struct {
	ID          string    `json:"id"`
	S3URL       string    `json:"s3_url"`
	Kind        string    `json:"kind"`
	SHA256      *string   `json:"sha256"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	Meta        Metadata  `json:"meta"`
	CreatedAt   time.Time `json:"created_at"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// DraftItem is an item under authoring.
//
// The relation fields are only populated when requested; an empty relation
// is omitted from JSON the same way as an unrequested one.
type DraftItem struct {
	ID            string     `json:"id"`
	Status        ItemStatus `json:"status"`
	ItemType      ItemType   `json:"item_type"`
	StemAr        string     `json:"stem_ar"`
	Latex         *string    `json:"latex"`
	DifficultyEst *float64   `json:"difficulty_est"`
	ContentHash   *string    `json:"content_hash"`
	CreatedBy     *string    `json:"created_by"`
	UpdatedBy     *string    `json:"updated_by"`
	Meta          Metadata   `json:"meta"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Options  []AnswerOption `json:"options,omitempty"`
	Hints    []Hint         `json:"hints,omitempty"`
	Solution *Solution      `json:"solution,omitempty"`
	Media    []ItemMedia    `json:"media,omitempty"`
	Tags     []ItemTag      `json:"tags,omitempty"`
	Concepts []ItemConcept  `json:"concepts,omitempty"`
}

// PublishedItem is an immutable snapshot served to learners.
type PublishedItem struct {
	ID               string             `json:"id"`
	SourceDraftID    *string            `json:"source_draft_id"`
	ItemType         ItemType           `json:"item_type"`
	StemAr           string             `json:"stem_ar"`
	Latex            *string            `json:"latex"`
	DifficultyParams map[string]float64 `json:"difficulty_params"`
	PublishedVer     int                `json:"published_ver"`
	ConceptMainID    *string            `json:"concept_main_id"`
	Meta             Metadata           `json:"meta"`
	PublishedAt      time.Time          `json:"published_at"`

	Options  []AnswerOption `json:"options,omitempty"`
	Hints    []Hint         `json:"hints,omitempty"`
	Solution *Solution      `json:"solution,omitempty"`
}

// AnswerOption is one answer choice.
type AnswerOption struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	OwnerType     OwnerType `json:"owner_type"`
	OrderIndex    int       `json:"order_index"`
	TextAr        string    `json:"text_ar"`
	Latex         *string   `json:"latex"`
	IsCorrect     bool      `json:"is_correct"`
	ExplanationAr *string   `json:"explanation_ar"`
	Meta          Metadata  `json:"meta"`
}

// Hint is a staged hint shown to learners.
type Hint struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	OwnerType   OwnerType `json:"owner_type"`
	OrderIndex  int       `json:"order_index"`
	HintAr      string    `json:"hint_ar"`
	TriggerRule *string   `json:"trigger_rule"`
	Meta        Metadata  `json:"meta"`
}

// SolutionStep is one worked step.
type SolutionStep struct {
	TextAr    string  `json:"text_ar" yaml:"text_ar"`
	ExprLatex *string `json:"expr_latex,omitempty" yaml:"expr_latex,omitempty"`
}

// Solution is the worked solution of an item. An owner has at most one.
type Solution struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	OwnerType   OwnerType      `json:"owner_type"`
	Steps       []SolutionStep `json:"steps"`
	FinalAnswer *string        `json:"final_answer"`
	FinalLatex  *string        `json:"final_latex"`
	Meta        Metadata       `json:"meta"`
}

// ItemMedia links an item to a media asset.
type ItemMedia struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	OwnerType  OwnerType   `json:"owner_type"`
	MediaID    string      `json:"media_id"`
	Role       *string     `json:"role"`
	OrderIndex int         `json:"order_index"`
	Asset      *MediaAsset `json:"asset,omitempty"`
}

// ItemTag is a tag as seen from one item.
type ItemTag struct {
	ItemID string `json:"item_id"`
	Tag
}

// ItemConcept is a concept as seen from one item, with its weight.
type ItemConcept struct {
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
	Concept
}

// ItemVersion is a recorded snapshot of a draft item.
type ItemVersion struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Ver       int       `json:"ver"`
	DiffNotes *string   `json:"diff_notes"`
	Snapshot  Metadata  `json:"snapshot"`
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemReview is a reviewer's decision on a draft item.
type ItemReview struct {
	ID         string         `json:"id"`
	ItemID     string         `json:"item_id"`
	ReviewerID *string        `json:"reviewer_id"`
	Decision   ReviewDecision `json:"decision"`
	Notes      *string        `json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DraftDoc is the flattened search view of a draft item.
type DraftDoc struct {
	ID           string     `json:"id"`
	ItemType     ItemType   `json:"item_type"`
	Status       ItemStatus `json:"status"`
	StemAr       string     `json:"stem_ar"`
	Latex        *string    `json:"latex"`
	ConceptCodes []string   `json:"concept_codes"`
	TagCodes     []string   `json:"tag_codes"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ConceptDoc is the flattened search view of a concept.
type ConceptDoc struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	NameAr string `json:"name_ar"`
	Grade  int    `json:"grade"`
	Strand Strand `json:"strand"`
}

// PublishedDoc is the flattened search view of a published item.
type PublishedDoc struct {
	ID              string    `json:"id"`
	ItemType        ItemType  `json:"item_type"`
	StemAr          string    `json:"stem_ar"`
	Latex           *string   `json:"latex"`
	ConceptMainCode *string   `json:"concept_main_code"`
	PublishedVer    int       `json:"published_ver"`
	PublishedAt     time.Time `json:"published_at"`
}

// Page is one page of a listing.
type Page[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// NewPage builds a page, normalizing a nil slice to an empty one. A zero
// window means the defaults.
func NewPage[T any](data []T, p PageParams, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}
	if p.PageSize == 0 {
		p = ResolvePage("", "")
	}
	return &Page[T]{Data: data, Page: p.Page, PageSize: p.PageSize, Total: total}
}
