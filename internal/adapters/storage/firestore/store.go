package firestore

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

const (
	siteCollection = "site"
	knowledgeDocID = "knowledge"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a read-only content store.
// Uses the project passed (FOLIO_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) knowledgeDoc() *firestore.DocumentRef {
	return s.client.Collection(siteCollection).Doc(knowledgeDocID)
}

func (s *Store) categoriesCol() *firestore.CollectionRef {
	return s.client.Collection(CategoriesCollection)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type knowledgeDoc struct {
	Text string `firestore:"text"`
}

type categoryDoc struct {
	Name     string    `firestore:"name"`
	Position int       `firestore:"position"`
	Items    []itemDoc `firestore:"items"`
}

// itemDoc mirrors domain.PortfolioItem; ids may be stored as numbers.
type itemDoc struct {
	ID          any      `firestore:"id"`
	Title       string   `firestore:"title"`
	VideoURL    string   `firestore:"video_url"`
	LinkURL     string   `firestore:"link_url"`
	ImageURL    string   `firestore:"image_url"`
	Images      []string `firestore:"images"`
	Placeholder bool     `firestore:"placeholder"`
}

// ─────────────────────────────────────────
// ContentSource implementation
// ─────────────────────────────────────────

func (s *Store) LoadKnowledge(ctx context.Context) (string, error) {
	snap, err := s.knowledgeDoc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%s/%s: %w", siteCollection, knowledgeDocID, domain.ErrContentNotFound)
		}
		return "", fmt.Errorf("getting knowledge document: %w", err)
	}

	var doc knowledgeDoc
	if err := snap.DataTo(&doc); err != nil {
		return "", fmt.Errorf("decoding knowledge document: %w", err)
	}
	if doc.Text == "" {
		return "", fmt.Errorf("%s/%s has no text: %w", siteCollection, knowledgeDocID, domain.ErrContentNotFound)
	}
	return doc.Text, nil
}

func (s *Store) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	iter := s.categoriesCol().OrderBy("position", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var cat domain.Catalog
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating portfolio categories: %w", err)
		}

		var doc categoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decoding category %s: %w", snap.Ref.ID, err)
		}
		category, err := toCategory(snap.Ref.ID, doc)
		if err != nil {
			return nil, fmt.Errorf("decoding category %s: %w", snap.Ref.ID, err)
		}
		cat = append(cat, category)
	}

	if len(cat) == 0 {
		return nil, fmt.Errorf("%s: %w", CategoriesCollection, domain.ErrContentNotFound)
	}
	return cat, nil
}

// CategoriesCollection holds one document per portfolio category.
const CategoriesCollection = "portfolio_categories"

func toCategory(docID string, doc categoryDoc) (domain.PortfolioCategory, error) {
	name := doc.Name
	if name == "" {
		name = docID
	}

	items := make([]domain.PortfolioItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		id, err := itemID(it.ID)
		if err != nil {
			return domain.PortfolioCategory{}, err
		}
		items = append(items, domain.PortfolioItem{
			ID:          id,
			Title:       it.Title,
			VideoURL:    it.VideoURL,
			LinkURL:     it.LinkURL,
			ImageURL:    it.ImageURL,
			Images:      it.Images,
			Placeholder: it.Placeholder,
		})
	}
	return domain.PortfolioCategory{Name: name, Items: items}, nil
}

// itemID turns a stored id into the string form the JSON catalog uses.
func itemID(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", nil
	case string:
		return id, nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("portfolio item id: unsupported type %T", v)
	}
}
