package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PortfolioItem is one entry in a portfolio category.
type PortfolioItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	VideoURL    string   `json:"videoUrl,omitempty"`
	LinkURL     string   `json:"linkUrl,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Images      []string `json:"images,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Kind tells the front-end how an item opens.
func (i PortfolioItem) Kind() string {
	switch {
	case i.Placeholder:
		return "placeholder"
	case i.VideoURL != "":
		return "video"
	case i.LinkURL != "":
		return "link"
	default:
		return "image"
	}
}

// UnmarshalJSON accepts numeric or string ids.
func (i *PortfolioItem) UnmarshalJSON(data []byte) error {
	type plain PortfolioItem
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = PortfolioItem(raw.plain)

	id := bytes.TrimSpace(raw.ID)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		i.ID = ""
		return nil
	}
	if id[0] == '"' {
		return json.Unmarshal(id, &i.ID)
	}
	var n json.Number
	if err := json.Unmarshal(id, &n); err != nil {
		return fmt.Errorf("portfolio item id: %w", err)
	}
	i.ID = n.String()
	return nil
}

// PortfolioCategory groups items under a heading.
type PortfolioCategory struct {
	Name  string          `json:"name"`
	Items []PortfolioItem `json:"items"`
}

// Catalog is the portfolio in display order. The JSON form is an object
// keyed by category name; key order is the display order.
type Catalog []PortfolioCategory

// Category returns the named category.
func (c Catalog) Category(name string) (PortfolioCategory, bool) {
	for _, cat := range c {
		if cat.Name == name {
			return cat, true
		}
	}
	return PortfolioCategory{}, false
}

// UnmarshalJSON decodes {"category": [items...], ...} keeping key order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	out := Catalog{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected category name, got %v", tok)
		}

		var items []PortfolioItem
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("catalog category %q: %w", name, err)
		}
		if items == nil {
			items = []PortfolioItem{}
		}
		out = append(out, PortfolioCategory{Name: name, Items: items})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	*c = out
	return nil
}

// MarshalJSON writes the catalog back as an ordered object.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		items := cat.Items
		if items == nil {
			items = []PortfolioItem{}
		}
		body, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
