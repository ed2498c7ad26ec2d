// Package pinata uploads meme images to IPFS through Pinata's pinning API.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/bnema/umi-memepool/internal/ports"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.pinata.cloud"
	PinFilePath        = "/pinning/pinFileToIPFS"
	TestAuthPath       = "/data/testAuthentication"
	maxResponseBytes   = 1 << 20
	maxErrorBodyBytes  = 4 << 10
	defaultTimeout     = 60 * time.Second
	defaultContentType = "application/octet-stream"
)

// TokenFunc resolves the JWT for each request so a token set after startup is picked up.
type TokenFunc func(ctx context.Context) (string, error)

type API struct {
	BaseURL     string
	PinFilePath string
	AuthPath    string
}

type Client struct {
	API            API
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Token          TokenFunc
	Logger         *zap.Logger
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues"`
}

var _ ports.Pinner = Client{}

func (c Client) Pin(ctx context.Context, req domain.PinRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrUploadFailure)
	}

	endpoint, err := buildAPIURL(c.baseURL(), firstNonEmpty(c.API.PinFilePath, PinFilePath))
	if err != nil {
		return "", err
	}

	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	body, contentType, err := encodePinForm(req)
	if err != nil {
		return "", fmt.Errorf("encode pin request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create pin request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+token)

	started := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUploadFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %s", domain.ErrUploadFailure, readErrorBody(resp))
	}

	var payload pinResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrUploadFailure, err)
	}
	cid := strings.TrimSpace(payload.IpfsHash)
	if cid == "" {
		return "", fmt.Errorf("%w: response has no IpfsHash", domain.ErrUploadFailure)
	}

	c.logger().Info("file pinned",
		zap.String("cid", cid),
		zap.Int64("size", payload.PinSize),
		zap.Duration("took", time.Since(started)),
	)

	return cid, nil
}

// Verify checks the token against Pinata's authentication probe.
func (c Client) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	endpoint, err := buildAPIURL(c.baseURL(), firstNonEmpty(c.API.AuthPath, TestAuthPath))
	if err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("verify pinning token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("verify pinning token: %s", readErrorBody(resp))
	}

	return nil
}

func encodePinForm(req domain.PinRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	contentType := firstNonEmpty(req.ContentType, defaultContentType)
	fileName := firstNonEmpty(req.FileName, "meme")

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": fileName,
	}))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, "", err
	}

	metadata := pinataMetadata{
		Name: firstNonEmpty(req.Name, domain.PinName),
		KeyValues: map[string]string{
			"description": req.Description,
			"hashtags":    strings.Join(req.Hashtags, ","),
			"timestamp":   req.Timestamp.UTC().Format(time.RFC3339),
		},
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("pinataMetadata", string(encoded)); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

func (c Client) token(ctx context.Context) (string, error) {
	if c.Token == nil {
		return "", domain.ErrPinningTokenMissing
	}

	token, err := c.Token(ctx)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrPinningTokenMissing
	}

	return token, nil
}

func (c Client) baseURL() string {
	return firstNonEmpty(c.API.BaseURL, DefaultBaseURL)
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	text := strings.TrimSpace(string(data))
	if err != nil || text == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	return fmt.Sprintf("status %d: %s", resp.StatusCode, text)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse pinning endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("pinning endpoint must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("pinning endpoint host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse pinning path: %w", err)
	}
	return endpoint.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
