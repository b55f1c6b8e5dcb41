package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	domproduct "github.com/deep1161/djMART/app/internal/domain/product"
	"github.com/deep1161/djMART/app/internal/errx"
)

// ErrInvalidPayload is returned when the product API answers 2xx with a body
// that does not describe a usable product.
var ErrInvalidPayload = errors.New("invalid catalog payload")

// Client talks to the backend product API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	validate   *validator.Validate
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout:  timeout,
		validate: validator.New(),
	}
}

type productResponse struct {
	Product *domproduct.Product `json:"product"`
}

type relatedResponse struct {
	Products []domproduct.Product `json:"products" validate:"dive"`
}

func (c *Client) GetProduct(ctx context.Context, slug string) (*domproduct.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v1/product/get-product/%s", c.baseURL, url.PathEscape(slug))

	var resp productResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		if errx.StatusOf(err) == http.StatusNotFound {
			return nil, errx.New(fmt.Errorf("%w: %s", domproduct.ErrProductNotFound, slug), http.StatusNotFound, "product not found")
		}
		return nil, err
	}
	if resp.Product == nil {
		return nil, errx.New(fmt.Errorf("%w: %s", domproduct.ErrProductNotFound, slug), http.StatusNotFound, "product not found")
	}
	if err := c.validate.Struct(resp.Product); err != nil {
		return nil, errx.New(fmt.Errorf("%w: %v", ErrInvalidPayload, err), http.StatusBadGateway, errx.CatalogErrorMessage)
	}
	return resp.Product, nil
}

func (c *Client) RelatedProducts(ctx context.Context, productID, categoryID string) ([]domproduct.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v1/product/related-product/%s/%s",
		c.baseURL, url.PathEscape(productID), url.PathEscape(categoryID))

	var resp relatedResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(resp); err != nil {
		return nil, errx.New(fmt.Errorf("%w: %v", ErrInvalidPayload, err), http.StatusBadGateway, errx.CatalogErrorMessage)
	}
	if resp.Products == nil {
		return []domproduct.Product{}, nil
	}
	return resp.Products, nil
}

// Photo streams a product photo. The caller closes the body.
func (c *Client) Photo(ctx context.Context, productID string) (io.ReadCloser, string, error) {
	reqURL := fmt.Sprintf("%s/api/v1/product/product-photo/%s", c.baseURL, url.PathEscape(productID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create photo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", errx.WrapTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", errx.WrapUpstream(resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errx.WrapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return errx.WrapUpstream(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errx.New(fmt.Errorf("%w: %v", ErrInvalidPayload, err), http.StatusBadGateway, errx.CatalogErrorMessage)
	}
	return nil
}
