// Package fixture loads question-bank data from YAML into a store.
//
// Child records are nested under the item that owns them, so a fixture can
// never attach a draft option to a published item.
package fixture

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tendant/itembank/pkg/itembank"
)

// Bundle is a complete data set.
type Bundle struct {
	Users     []User          `yaml:"users"`
	Concepts  []Concept       `yaml:"concepts"`
	Tags      []Tag           `yaml:"tags"`
	Media     []MediaAsset    `yaml:"media"`
	Drafts    []DraftItem     `yaml:"drafts"`
	Published []PublishedItem `yaml:"published"`
}

type User struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Email     string    `yaml:"email"`
	Role      string    `yaml:"role"`
	Locale    string    `yaml:"locale"`
	CreatedAt time.Time `yaml:"created_at"`
}

type Concept struct {
	ID         string            `yaml:"id"`
	Code       string            `yaml:"code"`
	NameAr     string            `yaml:"name_ar"`
	Grade      int               `yaml:"grade"`
	Strand     string            `yaml:"strand"`
	ParentID   *string           `yaml:"parent_id"`
	OrderIndex int               `yaml:"order_index"`
	Meta       itembank.Metadata `yaml:"meta"`
}

type Tag struct {
	ID     string  `yaml:"id"`
	Code   string  `yaml:"code"`
	NameAr string  `yaml:"name_ar"`
	Kind   *string `yaml:"kind"`
}

type MediaAsset struct {
	ID     string            `yaml:"id"`
	S3URL  string            `yaml:"s3_url"`
	Kind   string            `yaml:"kind"`
	SHA256 *string           `yaml:"sha256"`
	Width  *int              `yaml:"width"`
	Height *int              `yaml:"height"`
	Meta   itembank.Metadata `yaml:"meta"`
}

type Option struct {
	ID            string            `yaml:"id"`
	OrderIndex    *int              `yaml:"order_index"`
	TextAr        string            `yaml:"text_ar"`
	Latex         *string           `yaml:"latex"`
	IsCorrect     bool              `yaml:"is_correct"`
	ExplanationAr *string           `yaml:"explanation_ar"`
	Meta          itembank.Metadata `yaml:"meta"`
}

type Hint struct {
	ID          string            `yaml:"id"`
	OrderIndex  *int              `yaml:"order_index"`
	HintAr      string            `yaml:"hint_ar"`
	TriggerRule *string           `yaml:"trigger_rule"`
	Meta        itembank.Metadata `yaml:"meta"`
}

type Solution struct {
	ID          string                  `yaml:"id"`
	Steps       []itembank.SolutionStep `yaml:"steps"`
	FinalAnswer *string                 `yaml:"final_answer"`
	FinalLatex  *string                 `yaml:"final_latex"`
	Meta        itembank.Metadata       `yaml:"meta"`
}

type Media struct {
	ID         string  `yaml:"id"`
	MediaID    string  `yaml:"media_id"`
	Role       *string `yaml:"role"`
	OrderIndex *int    `yaml:"order_index"`
}

type ConceptLink struct {
	ConceptID string   `yaml:"concept_id"`
	Weight    *float64 `yaml:"weight"`
}

type Version struct {
	ID        string            `yaml:"id"`
	Ver       int               `yaml:"ver"`
	DiffNotes *string           `yaml:"diff_notes"`
	Snapshot  itembank.Metadata `yaml:"snapshot"`
	CreatedBy *string           `yaml:"created_by"`
	CreatedAt time.Time         `yaml:"created_at"`
}

type Review struct {
	ID         string    `yaml:"id"`
	ReviewerID *string   `yaml:"reviewer_id"`
	Decision   string    `yaml:"decision"`
	Notes      *string   `yaml:"notes"`
	CreatedAt  time.Time `yaml:"created_at"`
}

type DraftItem struct {
	ID            string            `yaml:"id"`
	Status        string            `yaml:"status"`
	ItemType      string            `yaml:"item_type"`
	StemAr        string            `yaml:"stem_ar"`
	Latex         *string           `yaml:"latex"`
	DifficultyEst *float64          `yaml:"difficulty_est"`
	ContentHash   *string           `yaml:"content_hash"`
	CreatedBy     *string           `yaml:"created_by"`
	UpdatedBy     *string           `yaml:"updated_by"`
	Meta          itembank.Metadata `yaml:"meta"`
	CreatedAt     time.Time         `yaml:"created_at"`
	UpdatedAt     time.Time         `yaml:"updated_at"`

	Options  []Option      `yaml:"options"`
	Hints    []Hint        `yaml:"hints"`
	Solution *Solution     `yaml:"solution"`
	Media    []Media       `yaml:"media"`
	Tags     []string      `yaml:"tags"`
	Concepts []ConceptLink `yaml:"concepts"`
	Versions []Version     `yaml:"versions"`
	Reviews  []Review      `yaml:"reviews"`
}

type PublishedItem struct {
	ID               string             `yaml:"id"`
	SourceDraftID    *string            `yaml:"source_draft_id"`
	ItemType         string             `yaml:"item_type"`
	StemAr           string             `yaml:"stem_ar"`
	Latex            *string            `yaml:"latex"`
	DifficultyParams map[string]float64 `yaml:"difficulty_params"`
	PublishedVer     int                `yaml:"published_ver"`
	ConceptMainID    *string            `yaml:"concept_main_id"`
	Meta             itembank.Metadata  `yaml:"meta"`
	PublishedAt      time.Time          `yaml:"published_at"`

	Options  []Option  `yaml:"options"`
	Hints    []Hint    `yaml:"hints"`
	Solution *Solution `yaml:"solution"`
	Media    []Media   `yaml:"media"`
}

// Parse decodes a YAML bundle.
func Parse(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &b, nil
}

// LoadFile reads and decodes a YAML bundle from path.
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return Parse(data)
}

// Counts reports how many rows of each kind a bundle holds.
type Counts struct {
	Users     int
	Concepts  int
	Tags      int
	Media     int
	Drafts    int
	Published int
}

// Counts summarizes b.
func (b *Bundle) Counts() Counts {
	return Counts{
		Users:     len(b.Users),
		Concepts:  len(b.Concepts),
		Tags:      len(b.Tags),
		Media:     len(b.Media),
		Drafts:    len(b.Drafts),
		Published: len(b.Published),
	}
}
