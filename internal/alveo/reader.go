package alveo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"annbridge/internal/annotation"
	"annbridge/internal/domain"
	"annbridge/internal/typesystem"
)

type itemList struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type itemMetadata struct {
	PrimaryTextURL string `json:"alveo:primary_text_url"`
}

// Reader is an ItemSource over one item list of the store. The store has
// no notion of a type system, so the one the annotators produce is given
// at construction.
type Reader struct {
	client     *Client
	itemListID string
	types      *typesystem.Snapshot
}

func NewReader(client *Client, itemListID string, types *typesystem.Snapshot) *Reader {
	return &Reader{client: client, itemListID: itemListID, types: types}
}

func (r *Reader) TypeSystem(ctx context.Context) (*typesystem.Snapshot, error) {
	if r.types == nil {
		return nil, typesystem.ErrNotBound
	}
	return r.types, nil
}

// Items lists the items of the configured item list.
func (r *Reader) Items(ctx context.Context) ([]domain.Item, error) {
	if r.itemListID == "" {
		return nil, fmt.Errorf("alveo: item list id is required")
	}
	var list itemList
	if err := r.client.getJSON(ctx, "item_lists/"+url.PathEscape(r.itemListID), &list); err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(list.Items))
	for _, u := range list.Items {
		u = r.client.resolve(u)
		items = append(items, domain.Item{ID: ItemID(u), URL: u})
	}
	return items, nil
}

// Document fetches the item metadata and its primary text.
func (r *Reader) Document(ctx context.Context, item domain.Item) (*annotation.Document, error) {
	var meta itemMetadata
	if err := r.client.getJSON(ctx, item.URL, &meta); err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	textURL := meta.PrimaryTextURL
	if textURL == "" {
		textURL = strings.TrimRight(item.URL, "/") + "/primary_text"
	}
	text, err := r.client.getText(ctx, textURL)
	if err != nil {
		return nil, fmt.Errorf("item %s: primary text: %w", item.ID, err)
	}
	return annotation.NewDocument(item.ID, text), nil
}

// ItemID derives an item identifier from its URL: the path after
// "/catalog/" when present, otherwise the last path segment.
func ItemID(itemURL string) string {
	p := itemURL
	if u, err := url.Parse(itemURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.Trim(p, "/")
	if i := strings.Index(p, "catalog/"); i >= 0 && (i == 0 || p[i-1] == '/') {
		return p[i+len("catalog/"):]
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
