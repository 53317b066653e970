package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/metafunctor/mf/pkg/errors"
)

// maxBodyBytes caps how much of a registry response we read. The
// package indexes return documents in the tens of kilobytes.
const maxBodyBytes = 8 << 20

// DecodeResponse decodes a JSON response into target, closing the
// body. Non-200 statuses become an APIError.
func DecodeResponse(registry, endpoint string, resp *http.Response, target any) error {
	defer resp.Body.Close() //nolint:errcheck // read side only

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errors.WrapAPI(registry, resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Registry:   registry,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}
