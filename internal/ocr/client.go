// Package ocr calls the OCR.space parse API to turn slip images into raw
// text. The service output is consumed as-is; all interpretation happens in
// the slip package.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"golang.org/x/time/rate"
)

const defaultEndpoint = "https://api.ocr.space/parse/image"

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type parseResult struct {
	ParsedText string `json:"ParsedText"`
}

type parseResponse struct {
	ParsedResults         []parseResult   `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		// Free-tier quota; one request at a time is plenty for a chat bot.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// ExtractText uploads a slip image and returns the recognized text. Thai
// language and engine 2 give the best results on bank slips.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for OCR quota: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range map[string]string{
		"apikey":    c.apiKey,
		"language":  "tha",
		"OCREngine": "2",
	} {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("write form field: %w", err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="receipt.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OCR service error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode OCR response: %w", err)
	}

	if parsed.IsErroredOnProcessing || len(parsed.ParsedResults) == 0 {
		return "", fmt.Errorf("OCR processing error: %s", string(parsed.ErrorMessage))
	}
	return parsed.ParsedResults[0].ParsedText, nil
}
