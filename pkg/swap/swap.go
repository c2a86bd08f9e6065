// Package swap wraps the remote face-swap inference service and plain
// asset fetching behind one outbound HTTP client. Every call is attempted
// exactly once; there are no retries anywhere in the flow.
package swap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// ItfSwap is the remote-inference capability plus the template-asset fetch
// the submission flow depends on.
type ItfSwap interface {
	SwapFace(ctx context.Context, req SwapRequest) ([]byte, error)
	FetchAsset(ctx context.Context, assetURL string) ([]byte, error)
}

// SwapRequest carries both binary images and the identity fields the swap
// service expects in its multipart body.
type SwapRequest struct {
	SourceImage []byte
	TargetImage []byte
	Name        string
	Email       string
}

// ServiceError is a non-success response from the swap service, carrying
// the remote-provided detail message.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("swap service returned %d: %s", e.StatusCode, e.Detail)
}

type swapClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func New(log *logrus.Logger) ItfSwap {
	return &swapClient{
		baseURL:    strings.TrimSuffix(os.Getenv("SWAP_SERVICE_URL"), "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

// NewWithBaseURL is used by tests to point the client at a local server.
func NewWithBaseURL(baseURL string, log *logrus.Logger) ItfSwap {
	return &swapClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

// SwapFace posts both images and identity fields to the remote service and
// returns the swapped JPEG bytes. A non-2xx status yields a ServiceError
// with the remote {detail} message.
func (c *swapClient) SwapFace(ctx context.Context, req SwapRequest) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writeImagePart(writer, "sourceImage", "source.jpg", req.SourceImage); err != nil {
		return nil, err
	}
	if err := writeImagePart(writer, "targetImage", "target.jpg", req.TargetImage); err != nil {
		return nil, err
	}
	if err := writer.WriteField("name", req.Name); err != nil {
		return nil, err
	}
	if err := writer.WriteField("email", req.Email); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/swap-face/", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.WithFields(logrus.Fields{
		"source_bytes": len(req.SourceImage),
		"target_bytes": len(req.TargetImage),
	}).Debug("Calling face swap service")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	swapped, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return swapped, nil
}

// FetchAsset retrieves binary content by URL. It doubles as the result
// load probe: a successful fetch confirms the locator is retrievable.
func (c *swapClient) FetchAsset(ctx context.Context, assetURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asset fetch returned status %d for %s", resp.StatusCode, assetURL)
	}

	return io.ReadAll(resp.Body)
}

func writeImagePart(writer *multipart.Writer, field, filename string, data []byte) error {
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "face swap service call failed"
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return "face swap service call failed"
}
