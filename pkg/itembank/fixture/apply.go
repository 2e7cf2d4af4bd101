package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/itembank/pkg/itembank"
	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

// ApplyOptions controls Apply.
type ApplyOptions struct {
	// Reset deletes all existing rows first.
	Reset bool
	// Now stamps rows without explicit timestamps. Defaults to time.Now.
	Now time.Time
}

// resetOrder lists tables children first.
var resetOrder = []string{
	"item_reviews", "item_versions", "item_tags", "item_concepts",
	"item_media", "item_solutions", "item_hints", "item_options",
	"items_prod", "items_draft", "media_assets", "tags", "concepts", "users",
}

// Apply writes b to db. Missing ids are generated.
func Apply(ctx context.Context, db sqlstore.DB, b *Bundle, opts ApplyOptions) error {
	w := &writer{db: db, d: db.Dialect(), now: opts.Now}
	if w.now.IsZero() {
		w.now = time.Now().UTC()
	}

	if opts.Reset {
		for _, table := range resetOrder {
			if err := db.Exec(ctx, "DELETE FROM "+table, nil); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
	}

	steps := []func(context.Context, *Bundle) error{
		w.users, w.concepts, w.tags, w.media, w.drafts, w.published,
	}
	for _, step := range steps {
		if err := step(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

type writer struct {
	db  sqlstore.DB
	d   sqlstore.Dialect
	now time.Time
}

func (w *writer) ts(t time.Time) any {
	if t.IsZero() {
		t = w.now
	}
	return w.d.Timestamp(t)
}

func (w *writer) exec(ctx context.Context, what, query string, args sqlstore.Args) error {
	if err := w.db.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func jsonArg(v any) (any, error) {
	return sqlstore.EncodeJSON(v)
}

// deref unwraps optional values so drivers only see plain types or nil.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func orderOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func (w *writer) users(ctx context.Context, b *Bundle) error {
	for i := range b.Users {
		u := &b.Users[i]
		ensureID(&u.ID)
		locale := u.Locale
		if locale == "" {
			locale = "ar"
		}
		err := w.exec(ctx, "user "+u.ID, `INSERT INTO users (id, name, email, role, locale, created_at, updated_at)
			VALUES (@id, @name, @email, @role, @locale, @created_at, @created_at)`,
			sqlstore.Args{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role, "locale": locale, "created_at": w.ts(u.CreatedAt)})
		if err != nil {
			return err
		}
	}
	return nil
}

// concepts inserts without parents first so the order of the list does not
// matter, then links parents.
func (w *writer) concepts(ctx context.Context, b *Bundle) error {
	for i := range b.Concepts {
		c := &b.Concepts[i]
		ensureID(&c.ID)
		meta, err := jsonArg(c.Meta)
		if err != nil {
			return fmt.Errorf("encode concept %s meta: %w", c.ID, err)
		}
		err = w.exec(ctx, "concept "+c.Code, `INSERT INTO concepts (id, code, name_ar, grade, strand, order_index, meta, created_at, updated_at)
			VALUES (@id, @code, @name_ar, @grade, @strand, @order_index, @meta, @now, @now)`,
			sqlstore.Args{"id": c.ID, "code": c.Code, "name_ar": c.NameAr, "grade": c.Grade, "strand": c.Strand,
				"order_index": c.OrderIndex, "meta": meta, "now": w.ts(time.Time{})})
		if err != nil {
			return err
		}
	}
	for _, c := range b.Concepts {
		if c.ParentID == nil {
			continue
		}
		err := w.exec(ctx, "concept parent "+c.Code, `UPDATE concepts SET parent_id = @parent_id WHERE id = @id`,
			sqlstore.Args{"id": c.ID, "parent_id": *c.ParentID})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) tags(ctx context.Context, b *Bundle) error {
	for i := range b.Tags {
		t := &b.Tags[i]
		ensureID(&t.ID)
		err := w.exec(ctx, "tag "+t.Code, `INSERT INTO tags (id, code, name_ar, kind, created_at)
			VALUES (@id, @code, @name_ar, @kind, @created_at)`,
			sqlstore.Args{"id": t.ID, "code": t.Code, "name_ar": t.NameAr, "kind": deref(t.Kind), "created_at": w.ts(time.Time{})})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) media(ctx context.Context, b *Bundle) error {
	for i := range b.Media {
		m := &b.Media[i]
		ensureID(&m.ID)
		meta, err := jsonArg(m.Meta)
		if err != nil {
			return fmt.Errorf("encode media %s meta: %w", m.ID, err)
		}
		err = w.exec(ctx, "media "+m.ID, `INSERT INTO media_assets (id, s3_url, kind, sha256, width, height, meta, created_at)
			VALUES (@id, @s3_url, @kind, @sha256, @width, @height, @meta, @created_at)`,
			sqlstore.Args{"id": m.ID, "s3_url": m.S3URL, "kind": m.Kind, "sha256": deref(m.SHA256),
				"width": deref(m.Width), "height": deref(m.Height), "meta": meta, "created_at": w.ts(time.Time{})})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) drafts(ctx context.Context, b *Bundle) error {
	for i := range b.Drafts {
		d := &b.Drafts[i]
		ensureID(&d.ID)
		meta, err := jsonArg(d.Meta)
		if err != nil {
			return fmt.Errorf("encode draft %s meta: %w", d.ID, err)
		}
		createdAt := d.CreatedAt
		if createdAt.IsZero() {
			createdAt = d.UpdatedAt
		}
		err = w.exec(ctx, "draft "+d.ID, `INSERT INTO items_draft (id, status, item_type, stem_ar, latex, difficulty_est, content_hash,
				created_by, updated_by, meta, created_at, updated_at)
			VALUES (@id, @status, @item_type, @stem_ar, @latex, @difficulty_est, @content_hash,
				@created_by, @updated_by, @meta, @created_at, @updated_at)`,
			sqlstore.Args{"id": d.ID, "status": d.Status, "item_type": d.ItemType, "stem_ar": d.StemAr, "latex": deref(d.Latex),
				"difficulty_est": deref(d.DifficultyEst), "content_hash": deref(d.ContentHash), "created_by": deref(d.CreatedBy), "updated_by": deref(d.UpdatedBy),
				"meta": meta, "created_at": w.ts(createdAt), "updated_at": w.ts(d.UpdatedAt)})
		if err != nil {
			return err
		}

		owner := itembank.OwnerSet{Type: itembank.OwnerDraft, IDs: []string{d.ID}}
		if err := w.children(ctx, owner, d.Options, d.Hints, d.Solution, d.Media); err != nil {
			return err
		}
		for _, tagID := range d.Tags {
			err := w.exec(ctx, "item tag", `INSERT INTO item_tags (item_id, tag_id) VALUES (@item_id, @tag_id)`,
				sqlstore.Args{"item_id": d.ID, "tag_id": tagID})
			if err != nil {
				return err
			}
		}
		for _, link := range d.Concepts {
			weight := 1.0
			if link.Weight != nil {
				weight = *link.Weight
			}
			err := w.exec(ctx, "item concept", `INSERT INTO item_concepts (item_id, concept_id, weight) VALUES (@item_id, @concept_id, @weight)`,
				sqlstore.Args{"item_id": d.ID, "concept_id": link.ConceptID, "weight": weight})
			if err != nil {
				return err
			}
		}
		if err := w.history(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) history(ctx context.Context, d *DraftItem) error {
	for i := range d.Versions {
		v := &d.Versions[i]
		ensureID(&v.ID)
		snapshot, err := jsonArg(v.Snapshot)
		if err != nil {
			return fmt.Errorf("encode version %s snapshot: %w", v.ID, err)
		}
		err = w.exec(ctx, "item version "+v.ID, `INSERT INTO item_versions (id, item_id, ver, diff_notes, snapshot, created_by, created_at)
			VALUES (@id, @item_id, @ver, @diff_notes, @snapshot, @created_by, @created_at)`,
			sqlstore.Args{"id": v.ID, "item_id": d.ID, "ver": v.Ver, "diff_notes": deref(v.DiffNotes), "snapshot": snapshot,
				"created_by": deref(v.CreatedBy), "created_at": w.ts(v.CreatedAt)})
		if err != nil {
			return err
		}
	}
	for i := range d.Reviews {
		r := &d.Reviews[i]
		ensureID(&r.ID)
		err := w.exec(ctx, "item review "+r.ID, `INSERT INTO item_reviews (id, item_id, reviewer_id, decision, notes, created_at)
			VALUES (@id, @item_id, @reviewer_id, @decision, @notes, @created_at)`,
			sqlstore.Args{"id": r.ID, "item_id": d.ID, "reviewer_id": deref(r.ReviewerID), "decision": r.Decision,
				"notes": deref(r.Notes), "created_at": w.ts(r.CreatedAt)})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) published(ctx context.Context, b *Bundle) error {
	for i := range b.Published {
		p := &b.Published[i]
		ensureID(&p.ID)
		params, err := jsonArg(p.DifficultyParams)
		if err != nil {
			return fmt.Errorf("encode published %s difficulty_params: %w", p.ID, err)
		}
		meta, err := jsonArg(p.Meta)
		if err != nil {
			return fmt.Errorf("encode published %s meta: %w", p.ID, err)
		}
		ver := p.PublishedVer
		if ver == 0 {
			ver = 1
		}
		err = w.exec(ctx, "published "+p.ID, `INSERT INTO items_prod (id, source_draft_id, item_type, stem_ar, latex, difficulty_params,
				published_ver, concept_main_id, meta, published_at)
			VALUES (@id, @source_draft_id, @item_type, @stem_ar, @latex, @difficulty_params,
				@published_ver, @concept_main_id, @meta, @published_at)`,
			sqlstore.Args{"id": p.ID, "source_draft_id": deref(p.SourceDraftID), "item_type": p.ItemType, "stem_ar": p.StemAr,
				"latex": deref(p.Latex), "difficulty_params": params, "published_ver": ver, "concept_main_id": deref(p.ConceptMainID),
				"meta": meta, "published_at": w.ts(p.PublishedAt)})
		if err != nil {
			return err
		}

		owner := itembank.OwnerSet{Type: itembank.OwnerProd, IDs: []string{p.ID}}
		if err := w.children(ctx, owner, p.Options, p.Hints, p.Solution, p.Media); err != nil {
			return err
		}
	}
	return nil
}

// children writes the owner-tagged child rows of one item.
func (w *writer) children(ctx context.Context, owner itembank.OwnerSet, options []Option, hints []Hint, solution *Solution, media []Media) error {
	ownerID, ownerType := owner.IDs[0], string(owner.Type)

	for i := range options {
		o := &options[i]
		ensureID(&o.ID)
		meta, err := jsonArg(o.Meta)
		if err != nil {
			return fmt.Errorf("encode option %s meta: %w", o.ID, err)
		}
		err = w.exec(ctx, "option "+o.ID, `INSERT INTO item_options (id, owner_id, owner_type, order_index, text_ar, latex, is_correct, explanation_ar, meta)
			VALUES (@id, @owner_id, @owner_type, @order_index, @text_ar, @latex, @is_correct, @explanation_ar, @meta)`,
			sqlstore.Args{"id": o.ID, "owner_id": ownerID, "owner_type": ownerType, "order_index": orderOr(o.OrderIndex, i),
				"text_ar": o.TextAr, "latex": deref(o.Latex), "is_correct": sqlstore.Bool(o.IsCorrect),
				"explanation_ar": deref(o.ExplanationAr), "meta": meta})
		if err != nil {
			return err
		}
	}

	for i := range hints {
		h := &hints[i]
		ensureID(&h.ID)
		meta, err := jsonArg(h.Meta)
		if err != nil {
			return fmt.Errorf("encode hint %s meta: %w", h.ID, err)
		}
		err = w.exec(ctx, "hint "+h.ID, `INSERT INTO item_hints (id, owner_id, owner_type, order_index, hint_ar, trigger_rule, meta)
			VALUES (@id, @owner_id, @owner_type, @order_index, @hint_ar, @trigger_rule, @meta)`,
			sqlstore.Args{"id": h.ID, "owner_id": ownerID, "owner_type": ownerType, "order_index": orderOr(h.OrderIndex, i),
				"hint_ar": h.HintAr, "trigger_rule": deref(h.TriggerRule), "meta": meta})
		if err != nil {
			return err
		}
	}

	if solution != nil {
		ensureID(&solution.ID)
		stepList := solution.Steps
		if stepList == nil {
			stepList = []itembank.SolutionStep{}
		}
		steps, err := jsonArg(stepList)
		if err != nil {
			return fmt.Errorf("encode solution %s steps: %w", solution.ID, err)
		}
		meta, err := jsonArg(solution.Meta)
		if err != nil {
			return fmt.Errorf("encode solution %s meta: %w", solution.ID, err)
		}
		err = w.exec(ctx, "solution "+solution.ID, `INSERT INTO item_solutions (id, owner_id, owner_type, steps, final_answer, final_latex, meta)
			VALUES (@id, @owner_id, @owner_type, @steps, @final_answer, @final_latex, @meta)`,
			sqlstore.Args{"id": solution.ID, "owner_id": ownerID, "owner_type": ownerType, "steps": steps,
				"final_answer": deref(solution.FinalAnswer), "final_latex": deref(solution.FinalLatex), "meta": meta})
		if err != nil {
			return err
		}
	}

	for i := range media {
		m := &media[i]
		ensureID(&m.ID)
		err := w.exec(ctx, "item media "+m.ID, `INSERT INTO item_media (id, owner_id, owner_type, media_id, role, order_index)
			VALUES (@id, @owner_id, @owner_type, @media_id, @role, @order_index)`,
			sqlstore.Args{"id": m.ID, "owner_id": ownerID, "owner_type": ownerType, "media_id": m.MediaID,
				"role": deref(m.Role), "order_index": orderOr(m.OrderIndex, i)})
		if err != nil {
			return err
		}
	}
	return nil
}
