package abstraction

import (
	"context"

	"blogd/internal/domain/model"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, post model.BlogPost) model.DeliveryReceipt
}
