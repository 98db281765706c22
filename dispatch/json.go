package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetJSON fetches target and decodes the body of a successful response
// into T.
func GetJSON[T any](ctx context.Context, d *Dispatcher, target string, optFns ...CallOption) (T, error) {
	var zero T

	body, err := d.Get(ctx, target, optFns...)
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return zero, fmt.Errorf("decoding response: %w", err)
	}

	return v, nil
}
