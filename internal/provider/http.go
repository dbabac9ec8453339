package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// postJSON sends body to url and returns the bounded response body. Non-2xx
// answers become *StatusError with the vendor's message when it can be read.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, body any, limit int64) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s request", name)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrapf(err, "create %s request", name)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", name)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", name)
	}
	if int64(len(respBody)) > limit {
		return nil, errors.Errorf("%s response exceeded limit (%d bytes)", name, limit)
	}

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errBody)
		return nil, &StatusError{Provider: name, StatusCode: resp.StatusCode, Message: errBody.Error.Message}
	}
	return respBody, nil
}
