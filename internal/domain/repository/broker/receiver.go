package broker

import "context"

type Receiver interface {
	Messages(ctx context.Context, consumerName string) (<-chan Message, error)
}
