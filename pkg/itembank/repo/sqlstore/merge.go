package sqlstore

import "github.com/tendant/itembank/pkg/itembank"

// attachDraft copies the loaded relations onto items, keeping page order.
// Every group must belong to one of the items.
func attachDraft(items []itembank.DraftItem, ch *children) error {
	index := make(map[string]*itembank.DraftItem, len(items))
	for i := range items {
		index[items[i].ID] = &items[i]
	}

	if err := attach(itembank.RelOptions, index, ch.options, func(it *itembank.DraftItem, v []itembank.AnswerOption) { it.Options = v }); err != nil {
		return err
	}
	if err := attach(itembank.RelHints, index, ch.hints, func(it *itembank.DraftItem, v []itembank.Hint) { it.Hints = v }); err != nil {
		return err
	}
	if err := attach(itembank.RelSolution, index, ch.solutions, func(it *itembank.DraftItem, v *itembank.Solution) { it.Solution = v }); err != nil {
		return err
	}
	if err := attach(itembank.RelMedia, index, ch.media, func(it *itembank.DraftItem, v []itembank.ItemMedia) { it.Media = v }); err != nil {
		return err
	}
	if err := attach(itembank.RelTags, index, ch.tags, func(it *itembank.DraftItem, v []itembank.ItemTag) { it.Tags = v }); err != nil {
		return err
	}
	return attach(itembank.RelConcepts, index, ch.concepts, func(it *itembank.DraftItem, v []itembank.ItemConcept) { it.Concepts = v })
}

// attachPublished is attachDraft for published items.
func attachPublished(items []itembank.PublishedItem, ch *children) error {
	index := make(map[string]*itembank.PublishedItem, len(items))
	for i := range items {
		index[items[i].ID] = &items[i]
	}

	if err := attach(itembank.RelOptions, index, ch.options, func(it *itembank.PublishedItem, v []itembank.AnswerOption) { it.Options = v }); err != nil {
		return err
	}
	if err := attach(itembank.RelHints, index, ch.hints, func(it *itembank.PublishedItem, v []itembank.Hint) { it.Hints = v }); err != nil {
		return err
	}
	if err := attach(itembank.RelSolution, index, ch.solutions, func(it *itembank.PublishedItem, v *itembank.Solution) { it.Solution = v }); err != nil {
		return err
	}
	if len(ch.media) > 0 || len(ch.tags) > 0 || len(ch.concepts) > 0 {
		return &itembank.IntegrityError{Relation: itembank.RelMedia, Reason: "draft-only relation loaded for published items"}
	}
	return nil
}

func attach[I, V any](rel itembank.Relation, index map[string]*I, groups map[string]V, set func(*I, V)) error {
	for owner, v := range groups {
		item, ok := index[owner]
		if !ok {
			return &itembank.IntegrityError{Relation: rel, OwnerID: owner, Reason: "no such item in the page"}
		}
		set(item, v)
	}
	return nil
}
