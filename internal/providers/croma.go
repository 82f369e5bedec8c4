package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rsharma-dev/stock-notifier/internal/catalog"
)

type cromaPincodeResponse struct {
	Promise struct {
		SuggestedOption struct {
			Option struct {
				PromiseLines struct {
					PromiseLine []struct {
						AvailableQty   string `json:"availableQty"`
						DeliveryOption string `json:"deliveryOption"`
					} `json:"promiseLine"`
				} `json:"promiseLines"`
			} `json:"option"`
		} `json:"suggestedOption"`
	} `json:"promise"`
}

// CromaProvider checks deliverability via the pincode/SKU product details
// endpoint.
type CromaProvider struct {
	baseURL        string
	defaultPincode string
	getJSON        func(context.Context, string) ([]byte, error)
}

func NewCromaProvider(baseURL, defaultPincode string) *CromaProvider {
	return &CromaProvider{
		baseURL:        baseURL,
		defaultPincode: defaultPincode,
		getJSON:        getJSON,
	}
}

// Check returns the alert line for the product, or an empty string when the
// item is not available. A product is available iff the first promise line
// reports a non-zero quantity and a "Y" delivery option (case-insensitive).
func (p *CromaProvider) Check(ctx context.Context, product catalog.Product) (string, error) {
	pincode := product.Pincode
	if pincode == "" {
		pincode = p.defaultPincode
	}

	url := fmt.Sprintf("%s/productdetails/v1/pincode/%s/sku/%s", p.baseURL, pincode, product.SKU)
	body, err := p.getJSON(ctx, url)
	if err != nil {
		return "", fmt.Errorf("get product details: %w", err)
	}

	var resp cromaPincodeResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode product details response: %w", err)
	}

	lines := resp.Promise.SuggestedOption.Option.PromiseLines.PromiseLine
	if len(lines) == 0 {
		return "", nil
	}

	line := lines[0]
	if line.AvailableQty == "0" || !strings.EqualFold(line.DeliveryOption, "Y") {
		return "", nil
	}

	return fmt.Sprintf("✅ *In Stock at Croma (%s)*\n[%s](%s)", pincode, product.Name, product.Link()), nil
}
