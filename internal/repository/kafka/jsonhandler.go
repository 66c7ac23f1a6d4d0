package kafka

import (
	"context"
	"encoding/json"
)

// JSONHandler decodes the message value into T before handing it off.
func JSONHandler[T any](handle func(context.Context, []byte, *T) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var msg T
		if err := json.Unmarshal(value, &msg); err != nil {
			return err
		}
		return handle(ctx, key, &msg)
	}
}
