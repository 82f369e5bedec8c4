package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rsharma-dev/stock-notifier/internal/catalog"
)

const (
	amazonAvailabilityResource = "Offers.Listings.Availability.Message"
	amazonPartnerType          = "Associates"
	amazonMarketplace          = "www.amazon.in"

	// The availability message is matched case-sensitively; the vendor
	// reports e.g. "In Stock." or "Only 2 left in stock".
	amazonInStockMarker = "In Stock"
)

type (
	amazonGetItemsRequest struct {
		ItemIds     []string `json:"ItemIds"`
		Resources   []string `json:"Resources"`
		PartnerTag  string   `json:"PartnerTag"`
		PartnerType string   `json:"PartnerType"`
		Marketplace string   `json:"Marketplace"`
	}

	amazonGetItemsResponse struct {
		Errors []struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Errors"`
		ItemsResult struct {
			Items []struct {
				Offers struct {
					Listings []struct {
						Availability struct {
							Message string `json:"Message"`
						} `json:"Availability"`
					} `json:"Listings"`
				} `json:"Offers"`
			} `json:"Items"`
		} `json:"ItemsResult"`
	}
)

// AmazonProvider checks item availability via the PA-API getitems endpoint.
//
// TODO: PA-API rejects unsigned calls; attach an AWS SigV4 signature once the
// partner credentials are confirmed to be the signing pair.
type AmazonProvider struct {
	baseURL    string
	partnerTag string
	postJSON   func(context.Context, string, any) ([]byte, error)
}

func NewAmazonProvider(baseURL, partnerTag string) *AmazonProvider {
	return &AmazonProvider{
		baseURL:    baseURL,
		partnerTag: partnerTag,
		postJSON:   postJSON,
	}
}

// Check returns the alert line for the product, or an empty string when the
// item is not available.
func (p *AmazonProvider) Check(ctx context.Context, product catalog.Product) (string, error) {
	body, err := p.postJSON(ctx, p.baseURL+"/paapi5/getitems", amazonGetItemsRequest{
		ItemIds:     []string{product.ASIN},
		Resources:   []string{amazonAvailabilityResource},
		PartnerTag:  p.partnerTag,
		PartnerType: amazonPartnerType,
		Marketplace: amazonMarketplace,
	})
	if err != nil {
		return "", fmt.Errorf("get items: %w", err)
	}

	var resp amazonGetItemsResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode get items response: %w", err)
	}

	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("%w: %s: %s", ErrVendorError, resp.Errors[0].Code, resp.Errors[0].Message)
	}

	if !strings.Contains(availabilityMessage(resp), amazonInStockMarker) {
		return "", nil
	}

	return fmt.Sprintf("🛒 *Amazon In Stock*\n[%s](%s)", product.Name, product.Link()), nil
}

func availabilityMessage(resp amazonGetItemsResponse) string {
	items := resp.ItemsResult.Items
	if len(items) == 0 {
		return ""
	}
	listings := items[0].Offers.Listings
	if len(listings) == 0 {
		return ""
	}
	return listings[0].Availability.Message
}
