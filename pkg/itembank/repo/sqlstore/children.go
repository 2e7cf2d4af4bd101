package sqlstore

import (
	"context"
	"fmt"

	"github.com/tendant/itembank/pkg/itembank"
)

// children holds the child rows of one owner batch, grouped by owner id.
type children struct {
	options   map[string][]itembank.AnswerOption
	hints     map[string][]itembank.Hint
	solutions map[string]*itembank.Solution
	media     map[string][]itembank.ItemMedia
	tags      map[string][]itembank.ItemTag
	concepts  map[string][]itembank.ItemConcept
}

// loader fetches child relations for a batch of owners with one query per
// relation.
type loader struct {
	db DB
}

// load fetches every relation in rels for the owners in set. With no ids or
// no relations it returns an empty result without touching the store.
func (l loader) load(ctx context.Context, set itembank.OwnerSet, rels itembank.RelationSet) (*children, error) {
	out := &children{}
	if !set.Type.IsValid() {
		return nil, fmt.Errorf("unknown owner type %q", set.Type)
	}
	for _, rel := range rels {
		if !itembank.Supports(set.Type, rel) {
			return nil, &itembank.IntegrityError{Relation: rel, Reason: fmt.Sprintf("not a relation of %s items", set.Type)}
		}
	}

	ids := uniqueIDs(set.IDs)
	if len(ids) == 0 || len(rels) == 0 {
		return out, nil
	}
	owners := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		owners[id] = struct{}{}
	}

	list, args := inList("id", ids)
	args["owner_type"] = string(set.Type)

	for _, rel := range rels {
		var err error
		switch rel {
		case itembank.RelOptions:
			out.options, err = l.options(ctx, list, args, owners)
		case itembank.RelHints:
			out.hints, err = l.hints(ctx, list, args, owners)
		case itembank.RelSolution:
			out.solutions, err = l.solutions(ctx, list, args, owners)
		case itembank.RelMedia:
			out.media, err = l.media(ctx, list, args, owners)
		case itembank.RelTags:
			out.tags, err = l.tags(ctx, list, args, owners)
		case itembank.RelConcepts:
			out.concepts, err = l.concepts(ctx, list, args, owners)
		}
		if err != nil {
			return nil, wrapQueryError("load "+string(rel), err)
		}
	}
	return out, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// withoutOwnerType drops @owner_type for the item-keyed join tables.
func withoutOwnerType(args Args) Args {
	out := make(Args, len(args))
	for k, v := range args {
		if k != "owner_type" {
			out[k] = v
		}
	}
	return out
}

// appendChild groups v under owner after checking it was requested.
func appendChild[C any](rel itembank.Relation, owners map[string]struct{}, groups map[string][]C, owner string, v C) error {
	if _, ok := owners[owner]; !ok {
		return &itembank.IntegrityError{Relation: rel, OwnerID: owner, Reason: "child row for an owner outside the batch"}
	}
	groups[owner] = append(groups[owner], v)
	return nil
}

func (l loader) options(ctx context.Context, list string, args Args, owners map[string]struct{}) (map[string][]itembank.AnswerOption, error) {
	query := `SELECT o.id, o.owner_id, o.owner_type, o.order_index, o.text_ar, o.latex, o.is_correct, o.explanation_ar, o.meta
		FROM item_options o
		WHERE o.owner_type = @owner_type AND o.owner_id IN (` + list + `)
		ORDER BY o.order_index, o.id`

	groups := make(map[string][]itembank.AnswerOption)
	err := l.db.Query(ctx, query, args, func(r Row) error {
		var o itembank.AnswerOption
		var correct int64
		var meta []byte
		if err := r.Scan(&o.ID, &o.OwnerID, &o.OwnerType, &o.OrderIndex, &o.TextAr, &o.Latex, &correct, &o.ExplanationAr, &meta); err != nil {
			return err
		}
		o.IsCorrect = correct != 0
		var err error
		if o.Meta, err = decodeMeta("item_options", "meta", o.ID, meta); err != nil {
			return err
		}
		return appendChild(itembank.RelOptions, owners, groups, o.OwnerID, o)
	})
	return groups, err
}

func (l loader) hints(ctx context.Context, list string, args Args, owners map[string]struct{}) (map[string][]itembank.Hint, error) {
	query := `SELECT h.id, h.owner_id, h.owner_type, h.order_index, h.hint_ar, h.trigger_rule, h.meta
		FROM item_hints h
		WHERE h.owner_type = @owner_type AND h.owner_id IN (` + list + `)
		ORDER BY h.order_index, h.id`

	groups := make(map[string][]itembank.Hint)
	err := l.db.Query(ctx, query, args, func(r Row) error {
		var h itembank.Hint
		var meta []byte
		if err := r.Scan(&h.ID, &h.OwnerID, &h.OwnerType, &h.OrderIndex, &h.HintAr, &h.TriggerRule, &meta); err != nil {
			return err
		}
		var err error
		if h.Meta, err = decodeMeta("item_hints", "meta", h.ID, meta); err != nil {
			return err
		}
		return appendChild(itembank.RelHints, owners, groups, h.OwnerID, h)
	})
	return groups, err
}

func (l loader) solutions(ctx context.Context, list string, args Args, owners map[string]struct{}) (map[string]*itembank.Solution, error) {
	query := `SELECT s.id, s.owner_id, s.owner_type, s.steps, s.final_answer, s.final_latex, s.meta
		FROM item_solutions s
		WHERE s.owner_type = @owner_type AND s.owner_id IN (` + list + `)
		ORDER BY s.owner_id, s.id`

	byOwner := make(map[string]*itembank.Solution)
	err := l.db.Query(ctx, query, args, func(r Row) error {
		s := &itembank.Solution{}
		var steps, meta []byte
		if err := r.Scan(&s.ID, &s.OwnerID, &s.OwnerType, &steps, &s.FinalAnswer, &s.FinalLatex, &meta); err != nil {
			return err
		}
		if err := decodeJSON("item_solutions", "steps", s.ID, steps, &s.Steps); err != nil {
			return err
		}
		if s.Steps == nil {
			s.Steps = []itembank.SolutionStep{}
		}
		var err error
		if s.Meta, err = decodeMeta("item_solutions", "meta", s.ID, meta); err != nil {
			return err
		}
		if _, ok := owners[s.OwnerID]; !ok {
			return &itembank.IntegrityError{Relation: itembank.RelSolution, OwnerID: s.OwnerID, Reason: "child row for an owner outside the batch"}
		}
		if _, dup := byOwner[s.OwnerID]; dup {
			return &itembank.IntegrityError{Relation: itembank.RelSolution, OwnerID: s.OwnerID, Reason: "more than one solution"}
		}
		byOwner[s.OwnerID] = s
		return nil
	})
	return byOwner, err
}

func (l loader) media(ctx context.Context, list string, args Args, owners map[string]struct{}) (map[string][]itembank.ItemMedia, error) {
	query := `SELECT im.id, im.owner_id, im.owner_type, im.media_id, im.role, im.order_index,
			m.id, m.s3_url, m.kind, m.sha256, m.width, m.height, m.meta, m.created_at
		FROM item_media im
		LEFT JOIN media_assets m ON m.id = im.media_id
		WHERE im.owner_type = @owner_type AND im.owner_id IN (` + list + `)
		ORDER BY im.order_index, im.id`

	groups := make(map[string][]itembank.ItemMedia)
	err := l.db.Query(ctx, query, args, func(r Row) error {
		var im itembank.ItemMedia
		var asset itembank.MediaAsset
		var assetID, s3URL, kind *string
		var meta []byte
		if err := r.Scan(&im.ID, &im.OwnerID, &im.OwnerType, &im.MediaID, &im.Role, &im.OrderIndex,
			&assetID, &s3URL, &kind, &asset.SHA256, &asset.Width, &asset.Height, &meta, ScanTime(&asset.CreatedAt)); err != nil {
			return err
		}
		if assetID != nil {
			asset.ID = *assetID
			if s3URL != nil {
				asset.S3URL = *s3URL
			}
			if kind != nil {
				asset.Kind = *kind
			}
			var err error
			if asset.Meta, err = decodeMeta("media_assets", "meta", asset.ID, meta); err != nil {
				return err
			}
			im.Asset = &asset
		}
		return appendChild(itembank.RelMedia, owners, groups, im.OwnerID, im)
	})
	return groups, err
}

// Tags and concepts are linked to draft items only, so they are keyed by
// item id alone.

func (l loader) tags(ctx context.Context, list string, args Args, owners map[string]struct{}) (map[string][]itembank.ItemTag, error) {
	query := `SELECT it.item_id, t.id, t.code, t.name_ar, t.kind, t.created_at
		FROM item_tags it
		JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id IN (` + list + `)
		ORDER BY t.code, t.id`

	groups := make(map[string][]itembank.ItemTag)
	err := l.db.Query(ctx, query, withoutOwnerType(args), func(r Row) error {
		var it itembank.ItemTag
		if err := r.Scan(&it.ItemID, &it.ID, &it.Code, &it.NameAr, &it.Kind, ScanTime(&it.CreatedAt)); err != nil {
			return err
		}
		return appendChild(itembank.RelTags, owners, groups, it.ItemID, it)
	})
	return groups, err
}

func (l loader) concepts(ctx context.Context, list string, args Args, owners map[string]struct{}) (map[string][]itembank.ItemConcept, error) {
	query := `SELECT ic.item_id, ic.weight, ` + joinColumns(conceptColumns) + `
		FROM item_concepts ic
		JOIN concepts c ON c.id = ic.concept_id
		WHERE ic.item_id IN (` + list + `)
		ORDER BY c.code, c.id`

	groups := make(map[string][]itembank.ItemConcept)
	err := l.db.Query(ctx, query, withoutOwnerType(args), func(r Row) error {
		var ic itembank.ItemConcept
		if err := scanConcept(r, &ic.Concept, &ic.ItemID, &ic.Weight); err != nil {
			return err
		}
		return appendChild(itembank.RelConcepts, owners, groups, ic.ItemID, ic)
	})
	return groups, err
}
