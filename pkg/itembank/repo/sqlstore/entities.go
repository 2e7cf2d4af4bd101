package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tendant/itembank/pkg/itembank"
)

// Full-text index served by the dialects.
const draftTextIndex = "items_draft"

var stemText = []TextColumn{{Expr: "stem_ar"}, {Expr: "latex", Nullable: true}}

func qualify(alias string, cols []TextColumn) []TextColumn {
	out := make([]TextColumn, len(cols))
	for i, c := range cols {
		out[i] = TextColumn{Expr: alias + "." + c.Expr, Nullable: c.Nullable}
	}
	return out
}

func parseGrade(raw string) (any, error) {
	g, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("grade must be an integer")
	}
	return g, nil
}

// Draft items

var draftItems = &Entity[itembank.DraftItem]{
	Name:     "Draft item",
	From:     "items_draft d",
	IDColumn: "d.id",
	Columns: []string{
		"d.id", "d.status", "d.item_type", "d.stem_ar", "d.latex", "d.difficulty_est",
		"d.content_hash", "d.created_by", "d.updated_by", "d.meta", "d.created_at", "d.updated_at",
	},
	OrderBy: "d.updated_at DESC, d.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "status", Clause: "d.status = @status"},
			{Param: "item_type", Clause: "d.item_type = @item_type"},
			{Param: "concept_id", Clause: "EXISTS (SELECT 1 FROM item_concepts ic WHERE ic.item_id = d.id AND ic.concept_id = @concept_id)"},
		},
		Text: &TextFilter{Columns: qualify("d", stemText), Index: draftTextIndex, Alias: "d"},
	},
	Scan: scanDraftItem,
}

func scanDraftItem(r Row) (itembank.DraftItem, error) {
	var it itembank.DraftItem
	var meta []byte
	err := r.Scan(&it.ID, &it.Status, &it.ItemType, &it.StemAr, &it.Latex, &it.DifficultyEst,
		&it.ContentHash, &it.CreatedBy, &it.UpdatedBy, &meta, ScanTime(&it.CreatedAt), ScanTime(&it.UpdatedAt))
	if err != nil {
		return it, err
	}
	it.Meta, err = decodeMeta("items_draft", "meta", it.ID, meta)
	return it, err
}

// Published items

var publishedItems = &Entity[itembank.PublishedItem]{
	Name:     "Published item",
	From:     "items_prod p",
	IDColumn: "p.id",
	Columns: []string{
		"p.id", "p.source_draft_id", "p.item_type", "p.stem_ar", "p.latex", "p.difficulty_params",
		"p.published_ver", "p.concept_main_id", "p.meta", "p.published_at",
	},
	OrderBy: "p.published_at DESC, p.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "item_type", Clause: "p.item_type = @item_type"},
			{Param: "concept_id", Clause: "p.concept_main_id = @concept_id"},
		},
		Text: &TextFilter{Columns: qualify("p", stemText)},
	},
	Scan: scanPublishedItem,
}

func scanPublishedItem(r Row) (itembank.PublishedItem, error) {
	var it itembank.PublishedItem
	var params, meta []byte
	err := r.Scan(&it.ID, &it.SourceDraftID, &it.ItemType, &it.StemAr, &it.Latex, &params,
		&it.PublishedVer, &it.ConceptMainID, &meta, ScanTime(&it.PublishedAt))
	if err != nil {
		return it, err
	}
	if err := decodeJSON("items_prod", "difficulty_params", it.ID, params, &it.DifficultyParams); err != nil {
		return it, err
	}
	it.Meta, err = decodeMeta("items_prod", "meta", it.ID, meta)
	return it, err
}

// Concepts

var conceptColumns = []string{
	"c.id", "c.code", "c.name_ar", "c.grade", "c.strand", "c.parent_id",
	"c.order_index", "c.meta", "c.created_at", "c.updated_at",
}

var concepts = &Entity[itembank.Concept]{
	Name:     "Concept",
	From:     "concepts c",
	IDColumn: "c.id",
	Columns:  conceptColumns,
	OrderBy:  "c.grade, c.order_index, c.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "grade", Clause: "c.grade = @grade", Parse: parseGrade},
			{Param: "strand", Clause: "c.strand = @strand"},
			{Param: "parent_id", Clause: "c.parent_id = @parent_id"},
		},
		Text: &TextFilter{Columns: []TextColumn{{Expr: "c.name_ar"}, {Expr: "c.code"}}},
	},
	Scan: func(r Row) (itembank.Concept, error) {
		var c itembank.Concept
		err := scanConcept(r, &c)
		return c, err
	},
}

// scanConcept reads conceptColumns, optionally preceded by extra leading
// destinations.
func scanConcept(r Row, c *itembank.Concept, lead ...any) error {
	var meta []byte
	dest := append(lead, &c.ID, &c.Code, &c.NameAr, &c.Grade, &c.Strand, &c.ParentID,
		&c.OrderIndex, &meta, ScanTime(&c.CreatedAt), ScanTime(&c.UpdatedAt))
	if err := r.Scan(dest...); err != nil {
		return err
	}
	var err error
	c.Meta, err = decodeMeta("concepts", "meta", c.ID, meta)
	return err
}

// Tags

var tagColumns = []string{"t.id", "t.code", "t.name_ar", "t.kind", "t.created_at"}

var tags = &Entity[itembank.Tag]{
	Name:     "Tag",
	From:     "tags t",
	IDColumn: "t.id",
	Columns:  tagColumns,
	OrderBy:  "t.code, t.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "kind", Clause: "t.kind = @kind"},
		},
		Text: &TextFilter{Columns: []TextColumn{{Expr: "t.code"}, {Expr: "t.name_ar"}}},
	},
	Scan: func(r Row) (itembank.Tag, error) {
		var t itembank.Tag
		err := r.Scan(&t.ID, &t.Code, &t.NameAr, &t.Kind, ScanTime(&t.CreatedAt))
		return t, err
	},
}

// Media assets

var mediaAssets = &Entity[itembank.MediaAsset]{
	Name:     "Media asset",
	From:     "media_assets m",
	IDColumn: "m.id",
	Columns:  []string{"m.id", "m.s3_url", "m.kind", "m.sha256", "m.width", "m.height", "m.meta", "m.created_at"},
	OrderBy:  "m.created_at DESC, m.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "kind", Clause: "m.kind = @kind"},
		},
	},
	Scan: func(r Row) (itembank.MediaAsset, error) {
		var m itembank.MediaAsset
		var meta []byte
		err := r.Scan(&m.ID, &m.S3URL, &m.Kind, &m.SHA256, &m.Width, &m.Height, &meta, ScanTime(&m.CreatedAt))
		if err != nil {
			return m, err
		}
		m.Meta, err = decodeMeta("media_assets", "meta", m.ID, meta)
		return m, err
	},
}

// Users

var users = &Entity[itembank.User]{
	Name:     "User",
	From:     "users u",
	IDColumn: "u.id",
	Columns:  []string{"u.id", "u.name", "u.email", "u.role", "u.locale", "u.created_at", "u.updated_at"},
	OrderBy:  "u.name, u.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "role", Clause: "u.role = @role"},
		},
		Text: &TextFilter{Columns: []TextColumn{{Expr: "u.name"}, {Expr: "u.email"}}},
	},
	Scan: func(r Row) (itembank.User, error) {
		var u itembank.User
		err := r.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Locale, ScanTime(&u.CreatedAt), ScanTime(&u.UpdatedAt))
		return u, err
	},
}

// Version history and reviews, scoped to one draft item.

const itemIDParam = "item_id"

var itemVersions = &Entity[itembank.ItemVersion]{
	Name:     "Item version",
	From:     "item_versions v",
	IDColumn: "v.id",
	Columns:  []string{"v.id", "v.item_id", "v.ver", "v.diff_notes", "v.snapshot", "v.created_by", "v.created_at"},
	OrderBy:  "v.ver DESC, v.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: itemIDParam, Clause: "v.item_id = @item_id"},
		},
	},
	Scan: func(r Row) (itembank.ItemVersion, error) {
		var v itembank.ItemVersion
		var snapshot []byte
		err := r.Scan(&v.ID, &v.ItemID, &v.Ver, &v.DiffNotes, &snapshot, &v.CreatedBy, ScanTime(&v.CreatedAt))
		if err != nil {
			return v, err
		}
		v.Snapshot, err = decodeMeta("item_versions", "snapshot", v.ID, snapshot)
		return v, err
	},
}

var itemReviews = &Entity[itembank.ItemReview]{
	Name:     "Item review",
	From:     "item_reviews r",
	IDColumn: "r.id",
	Columns:  []string{"r.id", "r.item_id", "r.reviewer_id", "r.decision", "r.notes", "r.created_at"},
	OrderBy:  "r.created_at DESC, r.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: itemIDParam, Clause: "r.item_id = @item_id"},
			{Param: "decision", Clause: "r.decision = @decision"},
		},
	},
	Scan: func(r Row) (itembank.ItemReview, error) {
		var rv itembank.ItemReview
		err := r.Scan(&rv.ID, &rv.ItemID, &rv.ReviewerID, &rv.Decision, &rv.Notes, ScanTime(&rv.CreatedAt))
		return rv, err
	},
}

// Search documents

var draftDocs = &Entity[itembank.DraftDoc]{
	Name:     "Draft item",
	From:     "items_draft d",
	IDColumn: "d.id",
	Columns:  []string{"d.id", "d.item_type", "d.status", "d.stem_ar", "d.latex", "d.updated_at"},
	OrderBy:  "d.updated_at DESC, d.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "status", Clause: "d.status = @status"},
			{Param: "item_type", Clause: "d.item_type = @item_type"},
			{Param: "concept", Clause: "EXISTS (SELECT 1 FROM item_concepts ic JOIN concepts c ON c.id = ic.concept_id WHERE ic.item_id = d.id AND c.code = @concept)"},
		},
		Text: &TextFilter{Columns: qualify("d", stemText), Index: draftTextIndex, Alias: "d"},
	},
	Scan: func(r Row) (itembank.DraftDoc, error) {
		doc := itembank.DraftDoc{ConceptCodes: []string{}, TagCodes: []string{}}
		err := r.Scan(&doc.ID, &doc.ItemType, &doc.Status, &doc.StemAr, &doc.Latex, ScanTime(&doc.UpdatedAt))
		return doc, err
	},
}

var conceptDocs = &Entity[itembank.ConceptDoc]{
	Name:     "Concept",
	From:     "concepts c",
	IDColumn: "c.id",
	Columns:  []string{"c.id", "c.code", "c.name_ar", "c.grade", "c.strand"},
	OrderBy:  "c.grade, c.order_index, c.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "grade", Clause: "c.grade = @grade", Parse: parseGrade},
			{Param: "strand", Clause: "c.strand = @strand"},
		},
		Text: &TextFilter{Columns: []TextColumn{{Expr: "c.name_ar"}, {Expr: "c.code"}}},
	},
	Scan: func(r Row) (itembank.ConceptDoc, error) {
		var doc itembank.ConceptDoc
		err := r.Scan(&doc.ID, &doc.Code, &doc.NameAr, &doc.Grade, &doc.Strand)
		return doc, err
	},
}

var publishedDocs = &Entity[itembank.PublishedDoc]{
	Name:     "Published item",
	From:     "items_prod p LEFT JOIN concepts cm ON cm.id = p.concept_main_id",
	IDColumn: "p.id",
	Columns:  []string{"p.id", "p.item_type", "p.stem_ar", "p.latex", "cm.code", "p.published_ver", "p.published_at"},
	OrderBy:  "p.published_at DESC, p.id",
	Where: WhereSpec{
		Filters: []Filter{
			{Param: "item_type", Clause: "p.item_type = @item_type"},
			{Param: "concept", Clause: "cm.code = @concept"},
		},
		Text: &TextFilter{Columns: qualify("p", stemText)},
	},
	Scan: func(r Row) (itembank.PublishedDoc, error) {
		var doc itembank.PublishedDoc
		err := r.Scan(&doc.ID, &doc.ItemType, &doc.StemAr, &doc.Latex, &doc.ConceptMainCode,
			&doc.PublishedVer, ScanTime(&doc.PublishedAt))
		return doc, err
	},
}
