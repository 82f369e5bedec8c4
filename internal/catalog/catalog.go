package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Source identifies which vendor API a product is checked against.
type Source string

const (
	SourceAmazon Source = "amazon"
	SourceCroma  Source = "croma"
)

type (
	// Product describes a single catalog entry. ASIN is the amazon lookup
	// key, SKU and Pincode the croma ones; whichever matches Source may be
	// omitted in the catalog file and derived from URL instead.
	Product struct {
		Name          string `yaml:"name"`
		URL           string `yaml:"url"`
		AffiliateLink string `yaml:"affiliateLink"`
		Source        Source `yaml:"source"`
		ASIN          string `yaml:"asin"`
		SKU           string `yaml:"sku"`
		Pincode       string `yaml:"pincode"`
	}

	Catalog struct {
		Products   []Product `yaml:"products"`
		Recipients []int64   `yaml:"recipients"`
	}
)

// Link returns the URL to put into alert messages: the affiliate link when
// present, the canonical product URL otherwise.
func (p Product) Link() string {
	if p.AffiliateLink != "" {
		return p.AffiliateLink
	}
	return p.URL
}

// Load reads the catalog file and fills in vendor lookup keys that were left
// to be derived from product URLs.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	res := &Catalog{}
	if err = yaml.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("unmarshal catalog file: %w", err)
	}

	for i := range res.Products {
		if err = normalizeProduct(&res.Products[i]); err != nil {
			return nil, fmt.Errorf("product %q: %w", res.Products[i].Name, err)
		}
	}

	if len(res.Recipients) == 0 {
		return nil, errors.New("catalog has no recipients")
	}

	return res, nil
}

func normalizeProduct(p *Product) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.URL == "" {
		return errors.New("url is required")
	}

	var err error
	switch p.Source {
	case SourceAmazon:
		if p.ASIN == "" {
			p.ASIN, err = deriveASIN(p.URL)
		}
	case SourceCroma:
		if p.SKU == "" {
			p.SKU, err = deriveSKU(p.URL)
		}
	default:
		// Unknown sources are kept as-is; the check cycle skips them.
	}

	return err
}

var cromaSKURe = regexp.MustCompile(`^\d+$`)

// deriveASIN extracts the item identifier from an amazon.in product URL,
// expected right after the /dp/ path segment.
func deriveASIN(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse product url: %w", err)
	}

	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		if part == "dp" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}

	return "", fmt.Errorf("no ASIN found in url %s", raw)
}

// deriveSKU extracts the numeric SKU that croma.com URLs carry as the last
// path segment.
func deriveSKU(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse product url: %w", err)
	}

	parts := strings.Split(strings.TrimSuffix(parsed.Path, "/"), "/")
	last := parts[len(parts)-1]
	if !cromaSKURe.MatchString(last) {
		return "", fmt.Errorf("no numeric SKU found in url %s", raw)
	}

	return last, nil
}
