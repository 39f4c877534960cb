package file

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/PabloGalante/folio-agent/internal/domain"
)

const (
	KnowledgeFile = "knowledge.md"
	CatalogFile   = "portfolio-data.json"
)

//go:embed content/knowledge.md content/portfolio-data.json
var embedded embed.FS

// Store reads site content from a file system: the copy compiled into the
// binary or a directory on disk.
type Store struct {
	fsys fs.FS
}

func NewEmbeddedStore() *Store {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return &Store{fsys: sub}
}

func NewDirStore(dir string) *Store {
	return &Store{fsys: os.DirFS(dir)}
}

func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

func (s *Store) LoadKnowledge(ctx context.Context) (string, error) {
	data, err := fs.ReadFile(s.fsys, KnowledgeFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", KnowledgeFile, domain.ErrContentNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", KnowledgeFile, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s is empty: %w", KnowledgeFile, domain.ErrContentNotFound)
	}
	return text, nil
}

func (s *Store) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	data, err := fs.ReadFile(s.fsys, CatalogFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", CatalogFile, domain.ErrContentNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", CatalogFile, err)
	}

	var cat domain.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", CatalogFile, err)
	}
	return cat, nil
}
